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
	"os"
	"path/filepath"
	"testing"
	"time"

	"tstudio/internal/domain"
)

// writeSnapshot drops a snapshot file with a controlled modification time.
func writeSnapshot(t *testing.T, dir, name string, payload []byte, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return path
}

func manifestPayload(t *testing.T, title string) []byte {
	t.Helper()
	m := domain.NewManifest()
	m.Sections[0].Title = title
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestRecoverPicksNewestValidSnapshot(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, AutosaveDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	writeSnapshot(t, dir, "autosave_003.json", manifestPayload(t, "oldest"), base)
	want := writeSnapshot(t, dir, "autosave_002.json", manifestPayload(t, "middle"), base.Add(time.Minute))
	// newest file is malformed JSON and must be skipped, not deleted
	corrupt := writeSnapshot(t, dir, "autosave_001.json", []byte("{ nope"), base.Add(2*time.Minute))

	rec, err := Recover(root)
	if err != nil {
		t.Fatalf("Recover error: %v", err)
	}
	if rec.Path != want {
		t.Fatalf("recovered %s, want %s", rec.Path, want)
	}
	if got := rec.Handle.Manifest.Sections[0].Title; got != "middle" {
		t.Fatalf("recovered title %q, want middle", got)
	}
	if _, err := os.Stat(corrupt); err != nil {
		t.Fatalf("corrupt snapshot was deleted: %v", err)
	}
}

func TestRecoverSkipsStructurallyInvalidSnapshot(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, AutosaveDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	base := time.Now().Add(-time.Hour)
	writeSnapshot(t, dir, "autosave_002.json", manifestPayload(t, "good"), base)
	// parses as JSON but is not manifest-shaped
	writeSnapshot(t, dir, "autosave_001.json", []byte(`{"sections":"not-an-array"}`), base.Add(time.Minute))

	rec, err := Recover(root)
	if err != nil {
		t.Fatalf("Recover error: %v", err)
	}
	if got := rec.Handle.Manifest.Sections[0].Title; got != "good" {
		t.Fatalf("recovered title %q, want good", got)
	}
}

func TestRecoverSkipsZeroSectionSnapshot(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, AutosaveDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	base := time.Now().Add(-time.Hour)
	writeSnapshot(t, dir, "autosave_002.json", manifestPayload(t, "good"), base)
	// newest snapshot lost its sections; a project needs at least one
	writeSnapshot(t, dir, "autosave_001.json", []byte(`{"schemaVersion":1,"sections":[],"assetRegistry":{}}`), base.Add(time.Minute))

	rec, err := Recover(root)
	if err != nil {
		t.Fatalf("Recover error: %v", err)
	}
	if got := rec.Handle.Manifest.Sections[0].Title; got != "good" {
		t.Fatalf("recovered title %q, want good", got)
	}
}

func TestRecoverNoFilesVsAllCorrupt(t *testing.T) {
	// no autosave dir at all
	if _, err := Recover(t.TempDir()); !errors.Is(err, ErrNoAutosaveFiles) {
		t.Fatalf("expected ErrNoAutosaveFiles, got %v", err)
	}

	// empty autosave dir
	root := t.TempDir()
	dir := filepath.Join(root, AutosaveDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := Recover(root); !errors.Is(err, ErrNoAutosaveFiles) {
		t.Fatalf("expected ErrNoAutosaveFiles, got %v", err)
	}

	// only corrupt candidates
	writeSnapshot(t, dir, "autosave_001.json", []byte("garbage"), time.Now())
	if _, err := Recover(root); !errors.Is(err, ErrNoValidSnapshot) {
		t.Fatalf("expected ErrNoValidSnapshot, got %v", err)
	}
}

func TestRecoverAfterAutosaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root)
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	for i := 1; i <= 3; i++ {
		ph.Manifest.Sections[0].Title = fmt.Sprintf("pass-%d", i)
		if _, err := Autosave(ph); err != nil {
			t.Fatalf("Autosave error: %v", err)
		}
	}
	rec, err := Recover(root)
	if err != nil {
		t.Fatalf("Recover error: %v", err)
	}
	if got := rec.Handle.Manifest.Sections[0].Title; got != "pass-3" {
		t.Fatalf("recovered %q, want pass-3", got)
	}
}
