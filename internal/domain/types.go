/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "time"

// This file defines the core data model for a Teach Studio project: sections
// containing an ordered timeline of slides, videos and page breaks, per-section
// background music, and a registry of imported media assets. The whole graph
// serializes to a human-readable JSON manifest.

// SchemaVersion is the manifest schema version written by this build.
// Bump it when the structure changes in a way that needs migration.
const SchemaVersion = 1

// ProjectManifest is the root of the persisted project graph.
type ProjectManifest struct {
	SchemaVersion int                  `json:"schemaVersion"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Sections      []Section            `json:"sections"`
	AssetRegistry map[string]AssetMeta `json:"assetRegistry"`
}

// NewManifest builds the default manifest for a fresh project: one empty
// section and an empty asset registry.
func NewManifest() ProjectManifest {
	now := time.Now().UTC()
	return ProjectManifest{
		SchemaVersion: SchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
		Sections: []Section{
			{ID: "section-1", Title: "Section 1", Order: 0},
		},
		AssetRegistry: map[string]AssetMeta{},
	}
}

// AssetMeta describes one imported media file in the registry.
// The registry key is the opaque asset id; the backing file lives at
// assets/<id>.<ext> under the project root.
type AssetMeta struct {
	Ext          string `json:"ext"`
	Mime         string `json:"mime"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Hash         string `json:"hash"` // sha256 of the file content, hex
}

// Section groups an ordered timeline plus background music.
// Order mirrors the array position and is kept explicit for serialization.
type Section struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Order    int            `json:"order"`
	Music    []MusicItem    `json:"music,omitempty"`
	Timeline []TimelineItem `json:"timeline"`
}

// MusicItem references one audio asset played in the background of a section.
type MusicItem struct {
	AssetID string  `json:"assetId"`
	Loop    bool    `json:"loop"`
	Volume  float64 `json:"volume"`
}

// ItemKind discriminates the timeline item union.
type ItemKind string

const (
	KindSlide     ItemKind = "slide"
	KindVideo     ItemKind = "video"
	KindPageBreak ItemKind = "pageBreak"
)

// TimelineItem is a tagged union over slide, video and page break.
// Exactly the payload matching Kind is non-nil; traversal sites switch
// exhaustively on Kind so a new kind is a compile-visible change.
type TimelineItem struct {
	Kind      ItemKind   `json:"kind"`
	Slide     *Slide     `json:"slide,omitempty"`
	Video     *Video     `json:"video,omitempty"`
	PageBreak *PageBreak `json:"pageBreak,omitempty"`
}

// Slide shows a single image (or still of a video asset) with presentation
// metadata and optional dialogue lines.
type Slide struct {
	AssetID      string         `json:"assetId"`
	Transition   string         `json:"transition,omitempty"`
	Duration     float64        `json:"duration,omitempty"` // seconds; 0 = manual advance
	PanDirection string         `json:"panDirection,omitempty"`
	Dialogue     []DialogueLine `json:"dialogue,omitempty"`
}

// DialogueLine is one spoken line on a slide. AssetID optionally references a
// narration audio asset; most lines carry text only.
type DialogueLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	AssetID string `json:"assetId,omitempty"`
}

// Video plays a media asset with optional trim markers.
type Video struct {
	AssetID string   `json:"assetId"`
	Start   float64  `json:"start,omitempty"` // seconds into the clip
	End     *float64 `json:"end,omitempty"`   // nil = play to the end
}

// PageBreak is an interactive stop in the timeline carrying free text and a
// grid of media tiles.
type PageBreak struct {
	Title     string      `json:"title,omitempty"`
	Question  string      `json:"question,omitempty"`
	MediaGrid []MediaTile `json:"mediaGrid,omitempty"`
}

// MediaTile references an asset displayed in a page break grid.
type MediaTile struct {
	AssetID    string `json:"assetId"`
	Fit        string `json:"fit,omitempty"`        // contain | cover
	SizePreset string `json:"sizePreset,omitempty"` // small | medium | large
}
