/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tstudio/internal/domain"
)

func TestExportHandoutPDFWritesDocument(t *testing.T) {
	ph := exportableProject(t)
	end := 12.5
	ph.Manifest.Sections[0].Timeline = append(ph.Manifest.Sections[0].Timeline,
		domain.TimelineItem{Kind: domain.KindVideo, Video: &domain.Video{AssetID: "img-1", Start: 1, End: &end}},
		domain.TimelineItem{Kind: domain.KindPageBreak, PageBreak: &domain.PageBreak{
			Title:    "Checkpoint",
			Question: "What did we learn?",
		}},
	)

	out := filepath.Join(t.TempDir(), "handout.pdf")
	if err := ExportHandoutPDF(ph, out, HandoutOptions{Title: "Lesson One", IncludeDialogue: true}); err != nil {
		t.Fatalf("ExportHandoutPDF error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Fatalf("output is not a PDF: %q", data[:min(len(data), 8)])
	}
	if len(data) < 500 {
		t.Fatalf("suspiciously small pdf: %d bytes", len(data))
	}
}

func TestExportHandoutPDFBareNameLandsInProjectRoot(t *testing.T) {
	ph := exportableProject(t)
	if err := ExportHandoutPDF(ph, "outline.pdf", HandoutOptions{}); err != nil {
		t.Fatalf("ExportHandoutPDF error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ph.Root, "outline.pdf")); err != nil {
		t.Fatalf("expected pdf inside project root: %v", err)
	}
}

func TestAssetLabelPrefersOriginalName(t *testing.T) {
	ph := exportableProject(t)
	if got := assetLabel(ph, "img-1"); got != "a.png" {
		t.Fatalf("label = %q, want original filename", got)
	}
	if got := assetLabel(ph, "unregistered"); got != "unregistered" {
		t.Fatalf("label = %q", got)
	}
	if got := assetLabel(ph, ""); got != "(none)" {
		t.Fatalf("label = %q", got)
	}
}
