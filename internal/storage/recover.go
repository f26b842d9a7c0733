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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tstudio/internal/domain"
	applog "tstudio/internal/log"
)

// Distinguishable recovery outcomes: nothing to recover vs everything corrupt.
var (
	ErrNoAutosaveFiles = fmt.Errorf("no autosave files found")
	ErrNoValidSnapshot = fmt.Errorf("no valid autosave snapshot found")
)

// Recovered reports which snapshot was hydrated.
type Recovered struct {
	Handle *ProjectHandle
	Path   string
}

// Recover scans the autosave directory for autosave_*.json candidates,
// considers them newest-modified-first, and hydrates the first one that parses
// and passes structural validation. Corrupt or schema-invalid candidates are
// skipped, never deleted.
func Recover(root string) (*Recovered, error) {
	dir := filepath.Join(root, AutosaveDirName)
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAutosaveFiles, err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var cands []candidate
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "autosave_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		cands = append(cands, candidate{path: filepath.Join(dir, name), mod: info.ModTime()})
	}
	if len(cands) == 0 {
		return nil, ErrNoAutosaveFiles
	}
	sort.Slice(cands, func(i, j int) bool {
		if !cands[i].mod.Equal(cands[j].mod) {
			return cands[i].mod.After(cands[j].mod)
		}
		return cands[i].path < cands[j].path
	})

	l := applog.WithOperation(applog.WithComponent("storage"), "recover")
	for _, c := range cands {
		b, err := os.ReadFile(c.path)
		if err != nil {
			l.Warn("skipping unreadable snapshot", slog.String("path", c.path), slog.Any("err", err))
			continue
		}
		if err := ValidateManifestBytes(b); err != nil {
			l.Warn("skipping invalid snapshot", slog.String("path", c.path), slog.Any("err", err))
			continue
		}
		var m domain.ProjectManifest
		if err := json.Unmarshal(b, &m); err != nil {
			l.Warn("skipping unparsable snapshot", slog.String("path", c.path), slog.Any("err", err))
			continue
		}
		if err := AppendEvent(root, "recover", c.path); err != nil {
			return nil, err
		}
		ph := &ProjectHandle{
			Root:         root,
			ManifestPath: filepath.Join(root, ManifestFileName),
			Manifest:     m,
		}
		l.Info("recovered snapshot", slog.String("path", c.path))
		return &Recovered{Handle: ph, Path: c.path}, nil
	}
	return nil, ErrNoValidSnapshot
}
