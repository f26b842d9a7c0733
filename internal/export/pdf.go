/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"tstudio/internal/domain"
	"tstudio/internal/storage"
)

// HandoutOptions controls the printable section outline.
// Built-in Helvetica keeps text vector without font embedding.
type HandoutOptions struct {
	Title           string // document title; defaults to the project directory name
	IncludeDialogue bool
}

// ExportHandoutPDF writes a one-page-per-section outline of the project:
// timeline summary, page break questions and (optionally) dialogue lines.
// Useful as a printed companion while presenting.
func ExportHandoutPDF(ph *storage.ProjectHandle, outPath string, opt HandoutOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	title := opt.Title
	if title == "" {
		title = filepath.Base(ph.Root)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s — Handout", title), true)
	pdf.SetAuthor("Teach Studio", false)

	for _, sec := range ph.Manifest.Sections {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d. %s", sec.Order+1, sec.Title), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		if len(sec.Music) > 0 {
			pdf.SetFont("Helvetica", "I", 10)
			for _, mu := range sec.Music {
				pdf.CellFormat(0, 6, fmt.Sprintf("Music: %s (volume %.0f%%)", assetLabel(ph, mu.AssetID), mu.Volume*100), "", 1, "L", false, 0, "")
			}
			pdf.Ln(2)
		}

		pdf.SetFont("Helvetica", "", 11)
		for i, it := range sec.Timeline {
			switch it.Kind {
			case domain.KindSlide:
				if it.Slide == nil {
					continue
				}
				line := fmt.Sprintf("%d. Slide — %s", i+1, assetLabel(ph, it.Slide.AssetID))
				if it.Slide.Duration > 0 {
					line += fmt.Sprintf(" (%.0fs)", it.Slide.Duration)
				}
				pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
				if opt.IncludeDialogue {
					pdf.SetFont("Helvetica", "", 9)
					for _, d := range it.Slide.Dialogue {
						pdf.CellFormat(0, 5, fmt.Sprintf("      %s: %s", d.Speaker, d.Text), "", 1, "L", false, 0, "")
					}
					pdf.SetFont("Helvetica", "", 11)
				}
			case domain.KindVideo:
				if it.Video == nil {
					continue
				}
				trim := fmt.Sprintf("from %.1fs", it.Video.Start)
				if it.Video.End != nil {
					trim += fmt.Sprintf(" to %.1fs", *it.Video.End)
				}
				pdf.CellFormat(0, 6, fmt.Sprintf("%d. Video — %s (%s)", i+1, assetLabel(ph, it.Video.AssetID), trim), "", 1, "L", false, 0, "")
			case domain.KindPageBreak:
				if it.PageBreak == nil {
					continue
				}
				pdf.SetFont("Helvetica", "B", 11)
				pdf.CellFormat(0, 6, fmt.Sprintf("%d. Page break — %s", i+1, it.PageBreak.Title), "", 1, "L", false, 0, "")
				pdf.SetFont("Helvetica", "", 11)
				if it.PageBreak.Question != "" {
					pdf.CellFormat(0, 6, "      Q: "+it.PageBreak.Question, "", 1, "L", false, 0, "")
				}
				if n := len(it.PageBreak.MediaGrid); n > 0 {
					pdf.CellFormat(0, 6, fmt.Sprintf("      %d media tiles", n), "", 1, "L", false, 0, "")
				}
			}
		}
	}

	if !filepath.IsAbs(outPath) && !strings.ContainsAny(outPath, `/\`) {
		outPath = filepath.Join(ph.Root, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// assetLabel prefers the original filename from the registry over the opaque id.
func assetLabel(ph *storage.ProjectHandle, assetID string) string {
	if meta, ok := ph.Manifest.AssetRegistry[assetID]; ok && meta.OriginalName != "" {
		return meta.OriginalName
	}
	if assetID == "" {
		return "(none)"
	}
	return assetID
}
