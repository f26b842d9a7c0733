/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"compress/flate"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tstudio/internal/storage"
)

// ArchiveExt is the export container extension (a zip-compatible file).
const ArchiveExt = ".tstudio"

// ArchiveResult reports a completed export.
type ArchiveResult struct {
	Path            string
	Size            int64
	ValidatedAssets int
}

// archivedDirs are mirrored verbatim into the container next to manifest.json.
var archivedDirs = []string{
	storage.AssetsDirName,
	storage.ThumbsDirName,
	storage.AutosaveDirName,
}

// ExportProjectArchive validates every reachable asset reference (fail-fast:
// one dangling reference aborts before any file is created at the
// destination), then bundles manifest.json plus the assets, thumbs and
// autosave directories into a single maximally-compressed zip container. The
// archive is built at a temporary path and renamed over the destination only
// after the stream closed cleanly, so an interrupted build never leaves a
// corrupt file at outPath.
func ExportProjectArchive(ph *storage.ProjectHandle, outPath string) (ArchiveResult, error) {
	if ph == nil {
		return ArchiveResult{}, fmt.Errorf("project handle is nil")
	}
	validated, err := storage.ValidateRefsStrict(ph)
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("export precondition: %w", err)
	}

	if !filepath.IsAbs(outPath) && !strings.ContainsAny(outPath, `/\`) {
		outPath = filepath.Join(ph.Root, outPath)
	}
	if !strings.HasSuffix(strings.ToLower(outPath), ArchiveExt) {
		outPath += ArchiveExt
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return ArchiveResult{}, fmt.Errorf("ensure out dir: %w", err)
	}

	temp := fmt.Sprintf("%s.tmp-%d", outPath, os.Getpid())
	if err := buildArchive(ph, temp); err != nil {
		_ = os.Remove(temp)
		return ArchiveResult{}, err
	}
	// Rename replaces an existing archive in one step; a previous export at
	// outPath stays intact until the new one is complete.
	if err := os.Rename(temp, outPath); err != nil {
		_ = os.Remove(temp)
		return ArchiveResult{}, fmt.Errorf("finalize archive: %w", err)
	}
	info, err := os.Stat(outPath)
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("stat archive: %w", err)
	}
	if err := storage.AppendEvent(ph.Root, "export", outPath); err != nil {
		return ArchiveResult{}, err
	}
	return ArchiveResult{Path: outPath, Size: info.Size(), ValidatedAssets: validated}, nil
}

func buildArchive(ph *storage.ProjectHandle, temp string) (err error) {
	f, err := os.Create(temp)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	// The validated in-memory graph is the state being exported, unsaved
	// edits included.
	data, err := json.MarshalIndent(ph.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if err := addZipFile(zw, storage.ManifestFileName, data); err != nil {
		return fmt.Errorf("zip add manifest: %w", err)
	}

	for _, dir := range archivedDirs {
		if err := addZipDir(zw, ph.Root, dir); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return f.Sync()
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// addZipDir mirrors <root>/<dir> into the archive under <dir>/. A missing
// directory is skipped; thumbs in particular may never have been populated.
func addZipDir(zw *zip.Writer, root, dir string) error {
	base := filepath.Join(root, dir)
	if _, err := os.Stat(base); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		if err := addZipFile(zw, filepath.ToSlash(rel), data); err != nil {
			return fmt.Errorf("zip add %s: %w", rel, err)
		}
		return nil
	})
}
