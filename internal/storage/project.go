/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tstudio/internal/domain"
)

const (
	ManifestFileName = "manifest.json"
	AssetsDirName    = "assets"
	ThumbsDirName    = "thumbs"
	AutosaveDirName  = "autosave"
	LogsDirName      = "logs"
)

// Standard subfolders scaffolded for every project.
// thumbs is written by the thumbnail generator, not by this package.
var standardSubDirs = []string{
	AssetsDirName,
	ThumbsDirName,
	AutosaveDirName,
	LogsDirName,
}

// ProjectHandle captures the project root and the in-memory manifest. It is
// threaded explicitly through every persistence call; there is no ambient
// "current project" state.
type ProjectHandle struct {
	Root         string
	ManifestPath string
	Manifest     domain.ProjectManifest
}

// InitProject creates a new project directory at root (creating it if it
// doesn't exist), scaffolds the standard subfolders, and writes a default
// manifest transactionally.
func InitProject(root string) (*ProjectHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create project root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}

	ph := &ProjectHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, ManifestFileName),
		Manifest:     domain.NewManifest(),
	}
	if err := Save(ph); err != nil {
		return nil, err
	}
	if err := AppendEvent(root, "create", root); err != nil {
		return nil, err
	}
	return ph, nil
}

// Open loads an existing project from the given root directory. A missing or
// malformed manifest is fatal for the operation; there is no silent repair
// here — callers wanting to salvage a project use Recover instead.
func Open(root string) (*ProjectHandle, error) {
	mpath := filepath.Join(root, ManifestFileName)
	b, err := os.ReadFile(mpath)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	if err := ValidateManifestBytes(b); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", mpath, err)
	}
	var m domain.ProjectManifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := AppendEvent(root, "open", mpath); err != nil {
		return nil, err
	}
	return &ProjectHandle{Root: root, ManifestPath: mpath, Manifest: m}, nil
}

// Save stamps updatedAt, serializes the full graph in human-readable form and
// replaces manifest.json atomically: the previous content survives a crash
// mid-write, and no observer ever sees a partial file.
func Save(ph *ProjectHandle) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if ph.Root == "" || ph.ManifestPath == "" {
		return errors.New("invalid ProjectHandle: missing paths")
	}
	ph.Manifest.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(ph.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if err := atomicWriteFile(ph.ManifestPath, data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return AppendEvent(ph.Root, "save", ph.ManifestPath)
}

// atomicWriteFile writes data to a temp file in the destination directory,
// fsyncs it and renames it over the target. Rename replaces an existing
// destination on every supported platform, so the previous content stays
// reachable until the very moment the new one takes its place; there is no
// window in which the target is absent.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", base, os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		return err
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return err
	}
	return nil
}

// writeFileSync writes data to a file and ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}
