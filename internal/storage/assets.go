/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"tstudio/internal/domain"
)

// mimeByExt is the fixed classification table for imported media. Unknown
// extensions fall back to a generic binary type.
var mimeByExt = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"svg":  "image/svg+xml",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
	"mkv":  "video/x-matroska",
	"avi":  "video/x-msvideo",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"m4a":  "audio/mp4",
	"flac": "audio/flac",
}

const genericMime = "application/octet-stream"

// MimeForExt classifies a lowercase extension (without dot).
func MimeForExt(ext string) string {
	if m, ok := mimeByExt[strings.ToLower(ext)]; ok {
		return m
	}
	return genericMime
}

// IsSupportedMediaExt reports whether folder import picks up files with this
// extension. Explicitly selected files are imported regardless.
func IsSupportedMediaExt(ext string) bool {
	_, ok := mimeByExt[strings.ToLower(ext)]
	return ok
}

// ImportedAsset pairs a fresh registry entry with its id and on-disk path.
type ImportedAsset struct {
	ID   string
	Path string
	Meta domain.AssetMeta
}

// ImportAssets copies the given source files into the project's asset store.
// Directories are walked recursively and filtered to the supported media
// extensions; non-matching files are silently skipped. Results are sorted by
// original filename so downstream insertion order does not depend on OS
// enumeration order. An unreadable source aborts the batch; copies already
// completed stay in place (each one is independently durable).
//
// Two imports of byte-identical files get distinct ids: identity is per
// import, the content hash exists for auditing, not for dedup.
func ImportAssets(ph *ProjectHandle, sources []string) ([]ImportedAsset, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	files, err := expandSources(sources)
	if err != nil {
		return nil, err
	}
	var out []ImportedAsset
	for _, src := range files {
		rec, err := importOne(ph, src)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", src, err)
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Meta.OriginalName != out[j].Meta.OriginalName {
			return out[i].Meta.OriginalName < out[j].Meta.OriginalName
		}
		return out[i].ID < out[j].ID
	})
	if err := AppendEvent(ph.Root, "import", fmt.Sprintf("%d files", len(out))); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterAssets records imported assets in the manifest's registry.
func RegisterAssets(ph *ProjectHandle, recs []ImportedAsset) {
	if ph.Manifest.AssetRegistry == nil {
		ph.Manifest.AssetRegistry = map[string]domain.AssetMeta{}
	}
	for _, r := range recs {
		ph.Manifest.AssetRegistry[r.ID] = r.Meta
	}
}

func expandSources(sources []string) ([]string, error) {
	var files []string
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("stat source: %w", err)
		}
		if !info.IsDir() {
			files = append(files, src)
			continue
		}
		err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if IsSupportedMediaExt(extOf(path)) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk folder %s: %w", src, err)
		}
	}
	return files, nil
}

func importOne(ph *ProjectHandle, src string) (ImportedAsset, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return ImportedAsset{}, err
	}
	ext := extOf(src)
	id := uuid.NewString()
	dst := AssetPath(ph.Root, id, ext)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return ImportedAsset{}, err
	}
	if err := writeFileSync(dst, data); err != nil {
		return ImportedAsset{}, err
	}
	sum := sha256.Sum256(data)
	return ImportedAsset{
		ID:   id,
		Path: dst,
		Meta: domain.AssetMeta{
			Ext:          ext,
			Mime:         MimeForExt(ext),
			OriginalName: filepath.Base(src),
			Size:         int64(len(data)),
			Hash:         hex.EncodeToString(sum[:]),
		},
	}, nil
}

// extOf derives the lowercase extension without the leading dot.
func extOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ReadAssetDataURI loads an asset back as a MIME-prefixed base64 data URI for
// display. Resolution is registry-first; when the id has no registry entry the
// assets directory is scanned for a matching "<id>." filename prefix, so an
// asset whose file survived a registry drift is still displayable.
func ReadAssetDataURI(ph *ProjectHandle, assetID string) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	if strings.TrimSpace(assetID) == "" {
		return "", errors.New("asset id is required")
	}

	var path, mime string
	if meta, ok := ph.Manifest.AssetRegistry[assetID]; ok {
		path = AssetPath(ph.Root, assetID, meta.Ext)
		mime = meta.Mime
	} else {
		p, err := scanAssetDir(ph.Root, assetID)
		if err != nil {
			return "", err
		}
		path = p
		mime = MimeForExt(extOf(p))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read asset %s: %w", assetID, err)
	}
	if mime == "" {
		mime = genericMime
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func scanAssetDir(root, assetID string) (string, error) {
	dir := filepath.Join(root, AssetsDirName)
	ents, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read assets dir: %w", err)
	}
	prefix := assetID + "."
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		if e.Name() == assetID || strings.HasPrefix(e.Name(), prefix) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("asset %s not found", assetID)
}
