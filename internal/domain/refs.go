/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "sort"

// ForEachAssetRef walks the manifest and calls fn for every asset id mentioned
// anywhere in the timeline tree or the music lists. Empty ids are skipped.
// The switch over Kind is the single traversal point for the item union;
// extend it when adding a new timeline kind.
func (m *ProjectManifest) ForEachAssetRef(fn func(id string)) {
	emit := func(id string) {
		if id != "" {
			fn(id)
		}
	}
	for si := range m.Sections {
		sec := &m.Sections[si]
		for _, mu := range sec.Music {
			emit(mu.AssetID)
		}
		for ti := range sec.Timeline {
			it := &sec.Timeline[ti]
			switch it.Kind {
			case KindSlide:
				if it.Slide == nil {
					continue
				}
				emit(it.Slide.AssetID)
				for _, d := range it.Slide.Dialogue {
					emit(d.AssetID)
				}
			case KindVideo:
				if it.Video == nil {
					continue
				}
				emit(it.Video.AssetID)
			case KindPageBreak:
				if it.PageBreak == nil {
					continue
				}
				for _, t := range it.PageBreak.MediaGrid {
					emit(t.AssetID)
				}
			}
		}
	}
}

// AssetRefs returns the deduplicated, sorted set of referenced asset ids.
func (m *ProjectManifest) AssetRefs() []string {
	seen := map[string]struct{}{}
	m.ForEachAssetRef(func(id string) { seen[id] = struct{}{} })
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
