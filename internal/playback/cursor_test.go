/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package playback

import (
	"testing"

	"tstudio/internal/domain"
)

func timelineSection() *domain.Section {
	return &domain.Section{
		ID: "s1",
		Timeline: []domain.TimelineItem{
			{Kind: domain.KindSlide, Slide: &domain.Slide{AssetID: "a"}},
			{Kind: domain.KindVideo, Video: &domain.Video{AssetID: "b"}},
			{Kind: domain.KindPageBreak, PageBreak: &domain.PageBreak{Title: "q1"}},
			{Kind: domain.KindSlide, Slide: &domain.Slide{AssetID: "c"}},
			{Kind: domain.KindPageBreak, PageBreak: &domain.PageBreak{Title: "q2"}},
		},
	}
}

func TestCursorStartsStoppedAtFirstItem(t *testing.T) {
	c := NewCursor(timelineSection())
	if c.State() != Stopped {
		t.Fatalf("state = %v", c.State())
	}
	if c.Pos() != 0 {
		t.Fatalf("pos = %d", c.Pos())
	}
	if it := c.Current(); it == nil || it.Kind != domain.KindSlide {
		t.Fatalf("current = %+v", it)
	}
}

func TestCursorPlayPauseStop(t *testing.T) {
	c := NewCursor(timelineSection())
	c.Play()
	if c.State() != Playing {
		t.Fatalf("state after Play = %v", c.State())
	}
	c.Next()
	c.Pause()
	if c.State() != Paused {
		t.Fatalf("state after Pause = %v", c.State())
	}
	if c.Pos() != 1 {
		t.Fatalf("pause must retain position, pos = %d", c.Pos())
	}
	c.Stop()
	if c.State() != Stopped || c.Pos() != 0 {
		t.Fatalf("stop must rewind: state=%v pos=%d", c.State(), c.Pos())
	}
}

func TestCursorPauseWhileStoppedIsNoop(t *testing.T) {
	c := NewCursor(timelineSection())
	c.Pause()
	if c.State() != Stopped {
		t.Fatalf("state = %v", c.State())
	}
}

func TestCursorNextPrevBounds(t *testing.T) {
	c := NewCursor(timelineSection())
	if c.Prev() {
		t.Fatalf("Prev at start must report false")
	}
	steps := 0
	for c.Next() {
		steps++
	}
	if steps != 4 {
		t.Fatalf("steps = %d", steps)
	}
	if c.Next() {
		t.Fatalf("Next at end must report false")
	}
	if !c.Prev() || c.Pos() != 3 {
		t.Fatalf("Prev failed, pos = %d", c.Pos())
	}
}

func TestCursorJumpToNextPageBreak(t *testing.T) {
	c := NewCursor(timelineSection())
	if !c.JumpToNextPageBreak() || c.Pos() != 2 {
		t.Fatalf("first jump landed at %d", c.Pos())
	}
	if !c.JumpToNextPageBreak() || c.Pos() != 4 {
		t.Fatalf("second jump landed at %d", c.Pos())
	}
	if c.JumpToNextPageBreak() {
		t.Fatalf("no page break remains, jump must report false")
	}
}

func TestCursorEmptyTimeline(t *testing.T) {
	c := NewCursor(&domain.Section{ID: "empty"})
	if c.Pos() != -1 {
		t.Fatalf("pos = %d, want -1", c.Pos())
	}
	if c.Current() != nil {
		t.Fatalf("current must be nil for empty timeline")
	}
	if c.Next() || c.Prev() || c.JumpToNextPageBreak() {
		t.Fatalf("navigation on empty timeline must report false")
	}
}
