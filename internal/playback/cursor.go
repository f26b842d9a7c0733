/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package playback holds the timeline navigation cursor used by the
// presentation shell: a current-item pointer with play/pause/stop bookkeeping
// and page-break jumps. It never touches persistence.
package playback

import "tstudio/internal/domain"

// State is the playback state of the cursor.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// Cursor points into one section's timeline.
type Cursor struct {
	section *domain.Section
	pos     int
	state   State
}

// NewCursor positions a stopped cursor at the start of the section.
func NewCursor(section *domain.Section) *Cursor {
	return &Cursor{section: section}
}

// State returns the current playback state.
func (c *Cursor) State() State { return c.state }

// Pos returns the current timeline index, -1 when the timeline is empty.
func (c *Cursor) Pos() int {
	if len(c.section.Timeline) == 0 {
		return -1
	}
	return c.pos
}

// Current returns the item under the cursor, or nil for an empty timeline.
func (c *Cursor) Current() *domain.TimelineItem {
	if len(c.section.Timeline) == 0 {
		return nil
	}
	return &c.section.Timeline[c.pos]
}

// Play starts or resumes playback.
func (c *Cursor) Play() { c.state = Playing }

// Pause pauses playback; position is retained.
func (c *Cursor) Pause() {
	if c.state == Playing {
		c.state = Paused
	}
}

// Stop halts playback and rewinds to the start.
func (c *Cursor) Stop() {
	c.state = Stopped
	c.pos = 0
}

// Next advances the cursor; it reports false at the end of the timeline.
func (c *Cursor) Next() bool {
	if c.pos+1 >= len(c.section.Timeline) {
		return false
	}
	c.pos++
	return true
}

// Prev steps back; it reports false at the start.
func (c *Cursor) Prev() bool {
	if c.pos == 0 || len(c.section.Timeline) == 0 {
		return false
	}
	c.pos--
	return true
}

// JumpToNextPageBreak moves the cursor to the next page break after the
// current position, reporting whether one was found.
func (c *Cursor) JumpToNextPageBreak() bool {
	for i := c.pos + 1; i < len(c.section.Timeline); i++ {
		if c.section.Timeline[i].Kind == domain.KindPageBreak {
			c.pos = i
			return true
		}
	}
	return false
}
