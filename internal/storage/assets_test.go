/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestProject(t *testing.T) *ProjectHandle {
	t.Helper()
	ph, err := InitProject(t.TempDir())
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	return ph
}

func writeSource(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestImportSortsByOriginalFilename(t *testing.T) {
	ph := newTestProject(t)
	src := t.TempDir()
	b := writeSource(t, src, "b.png", []byte("bbb"))
	a := writeSource(t, src, "a.png", []byte("aaa"))

	recs, err := ImportAssets(ph, []string{b, a}) // selection order b, a
	if err != nil {
		t.Fatalf("ImportAssets error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Meta.OriginalName != "a.png" || recs[1].Meta.OriginalName != "b.png" {
		t.Fatalf("wrong order: %q, %q", recs[0].Meta.OriginalName, recs[1].Meta.OriginalName)
	}
}

func TestImportIdenticalFilesGetDistinctIDs(t *testing.T) {
	ph := newTestProject(t)
	src := t.TempDir()
	f1 := writeSource(t, src, "one.png", []byte("same-bytes"))
	f2 := writeSource(t, src, "two.png", []byte("same-bytes"))

	recs, err := ImportAssets(ph, []string{f1, f2})
	if err != nil {
		t.Fatalf("ImportAssets error: %v", err)
	}
	if recs[0].ID == recs[1].ID {
		t.Fatalf("identical content must still get distinct ids")
	}
	if recs[0].Meta.Hash != recs[1].Meta.Hash {
		t.Fatalf("identical content must hash identically")
	}
}

func TestImportCopiesBytesAndClassifiesMime(t *testing.T) {
	ph := newTestProject(t)
	src := t.TempDir()
	f := writeSource(t, src, "clip.MP4", []byte("videodata"))

	recs, err := ImportAssets(ph, []string{f})
	if err != nil {
		t.Fatalf("ImportAssets error: %v", err)
	}
	r := recs[0]
	if r.Meta.Ext != "mp4" {
		t.Fatalf("ext = %q, want lowercase mp4", r.Meta.Ext)
	}
	if r.Meta.Mime != "video/mp4" {
		t.Fatalf("mime = %q", r.Meta.Mime)
	}
	if r.Meta.Size != int64(len("videodata")) {
		t.Fatalf("size = %d", r.Meta.Size)
	}
	got, err := os.ReadFile(r.Path)
	if err != nil {
		t.Fatalf("read copied asset: %v", err)
	}
	if string(got) != "videodata" {
		t.Fatalf("asset bytes not copied verbatim: %q", got)
	}
	if !strings.HasPrefix(filepath.Base(r.Path), r.ID) {
		t.Fatalf("asset file %s not named after id %s", r.Path, r.ID)
	}
}

func TestImportUnknownExtensionMapsToGenericMime(t *testing.T) {
	ph := newTestProject(t)
	src := t.TempDir()
	f := writeSource(t, src, "data.xyz", []byte("?"))
	recs, err := ImportAssets(ph, []string{f})
	if err != nil {
		t.Fatalf("ImportAssets error: %v", err)
	}
	if recs[0].Meta.Mime != "application/octet-stream" {
		t.Fatalf("mime = %q", recs[0].Meta.Mime)
	}
}

func TestImportFolderRecursesAndFilters(t *testing.T) {
	ph := newTestProject(t)
	src := t.TempDir()
	writeSource(t, src, "top.png", []byte("1"))
	writeSource(t, src, filepath.Join("nested", "deep.mp3"), []byte("2"))
	writeSource(t, src, "notes.txt", []byte("skip me"))

	recs, err := ImportAssets(ph, []string{src})
	if err != nil {
		t.Fatalf("ImportAssets error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 media files, got %d", len(recs))
	}
	if recs[0].Meta.OriginalName != "deep.mp3" || recs[1].Meta.OriginalName != "top.png" {
		t.Fatalf("wrong files imported: %+v", recs)
	}
}

func TestImportUnreadableSourceAborts(t *testing.T) {
	ph := newTestProject(t)
	if _, err := ImportAssets(ph, []string{filepath.Join(t.TempDir(), "missing.png")}); err == nil {
		t.Fatalf("expected error for missing source")
	}
}

func TestReadAssetDataURIRegistryFirst(t *testing.T) {
	ph := newTestProject(t)
	src := t.TempDir()
	f := writeSource(t, src, "pic.png", []byte("imagebytes"))
	recs, err := ImportAssets(ph, []string{f})
	if err != nil {
		t.Fatalf("ImportAssets error: %v", err)
	}
	RegisterAssets(ph, recs)

	uri, err := ReadAssetDataURI(ph, recs[0].ID)
	if err != nil {
		t.Fatalf("ReadAssetDataURI error: %v", err)
	}
	wantPrefix := "data:image/png;base64,"
	if !strings.HasPrefix(uri, wantPrefix) {
		t.Fatalf("uri prefix = %q", uri[:min(len(uri), 40)])
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, wantPrefix))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != "imagebytes" {
		t.Fatalf("payload = %q", decoded)
	}
}

func TestReadAssetDataURIFallsBackToDirectoryScan(t *testing.T) {
	ph := newTestProject(t)
	// file exists but the registry never learned about it
	if err := os.WriteFile(AssetPath(ph.Root, "stray-id", "gif"), []byte("gifdata"), 0o644); err != nil {
		t.Fatalf("write stray asset: %v", err)
	}
	uri, err := ReadAssetDataURI(ph, "stray-id")
	if err != nil {
		t.Fatalf("ReadAssetDataURI error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/gif;base64,") {
		t.Fatalf("uri = %q", uri[:min(len(uri), 40)])
	}
}

func TestReadAssetDataURIUnknownIDFails(t *testing.T) {
	ph := newTestProject(t)
	if _, err := ReadAssetDataURI(ph, "no-such-id"); err == nil {
		t.Fatalf("expected error for unknown asset id")
	}
}
