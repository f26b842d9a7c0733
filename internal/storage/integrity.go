/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AssetPath returns the on-disk location of an asset file.
func AssetPath(root, assetID, ext string) string {
	name := assetID
	if ext != "" {
		name = assetID + "." + ext
	}
	return filepath.Join(root, AssetsDirName, name)
}

// checkAssetRef classifies one referenced asset id. It returns a violation
// string of the form "<id>:<reason>" or "" when the reference is healthy.
func checkAssetRef(ph *ProjectHandle, id string) string {
	meta, ok := ph.Manifest.AssetRegistry[id]
	if !ok {
		return id + ":missing-registry-entry"
	}
	info, err := os.Stat(AssetPath(ph.Root, id, meta.Ext))
	if err != nil {
		return id + ":missing-file"
	}
	if info.Size() == 0 {
		return id + ":empty-file"
	}
	return ""
}

// HealthCheck walks the project graph, collects every referenced asset id and
// cross-validates it against the registry and the asset store. It aggregates
// violations and never mutates state; an empty result means healthy.
func HealthCheck(ph *ProjectHandle) ([]string, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	var violations []string
	for _, id := range ph.Manifest.AssetRefs() {
		if v := checkAssetRef(ph, id); v != "" {
			violations = append(violations, v)
		}
	}
	return violations, nil
}

// ValidateRefsStrict runs the same reference walk with fail-fast semantics:
// the first violation aborts with an error naming the offending asset. It
// returns the number of validated references and is the hard precondition for
// export.
func ValidateRefsStrict(ph *ProjectHandle) (int, error) {
	if ph == nil {
		return 0, errors.New("nil ProjectHandle")
	}
	refs := ph.Manifest.AssetRefs()
	for _, id := range refs {
		if v := checkAssetRef(ph, id); v != "" {
			return 0, fmt.Errorf("integrity violation: %s", v)
		}
	}
	return len(refs), nil
}
