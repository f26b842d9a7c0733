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
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	applog "tstudio/internal/log"
)

const (
	// AutosaveDepth is the number of numbered ring slots retained on disk.
	AutosaveDepth = 10

	AutosaveLatestFileName = "autosave_latest.json"
)

// AutosaveSlotName returns the file name of the numbered ring slot
// (1 = newest rotated, AutosaveDepth = oldest retained).
func AutosaveSlotName(slot int) string {
	return fmt.Sprintf("autosave_%03d.json", slot)
}

// Autosave serializes the manifest once and pushes it into the rotating ring:
// autosave_latest.json is replaced first, then slots are renamed oldest-last
// (10←9, 9←8, ... 2←1) and the vacated slot 1 is written with the same
// payload. A missing rename source means the ring is not yet full and is
// tolerated; any other I/O error propagates.
//
// Each file write is individually atomic, so concurrent debounce/interval
// triggers can at worst produce a redundant snapshot, never a corrupt one.
func Autosave(ph *ProjectHandle) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	dir := filepath.Join(ph.Root, AutosaveDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure autosave dir: %w", err)
	}

	ph.Manifest.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(ph.Manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	latest := filepath.Join(dir, AutosaveLatestFileName)
	if err := atomicWriteFile(latest, data); err != nil {
		return "", fmt.Errorf("write %s: %w", AutosaveLatestFileName, err)
	}

	// Rotate from the oldest slot down so no retained payload is overwritten
	// before it has been moved out of the way.
	for slot := AutosaveDepth; slot >= 2; slot-- {
		src := filepath.Join(dir, AutosaveSlotName(slot-1))
		dst := filepath.Join(dir, AutosaveSlotName(slot))
		if err := os.Rename(src, dst); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue // ring not yet full
			}
			return "", fmt.Errorf("rotate slot %d: %w", slot, err)
		}
	}

	slot1 := filepath.Join(dir, AutosaveSlotName(1))
	if err := atomicWriteFile(slot1, data); err != nil {
		return "", fmt.Errorf("write %s: %w", AutosaveSlotName(1), err)
	}
	if err := AppendEvent(ph.Root, "autosave", slot1); err != nil {
		return "", err
	}
	return slot1, nil
}

// AutosaveCrashSnapshot writes an emergency snapshot into the ring during
// panic handling. It is a plain Autosave under a name that documents intent.
func AutosaveCrashSnapshot(ph *ProjectHandle) (string, error) {
	return Autosave(ph)
}

// AutosaveScheduler drives autosaves from two triggers: a debounced edit
// signal (a burst of edits produces one snapshot after the quiet window) and
// an unconditional fixed interval so progress is bounded during continuous
// editing. Both triggers call the same save function; the ring's per-file
// atomicity makes the race harmless. The editing shell feeds Notify from its
// change events; a trigger-less consumer (the CLI's autosave --watch mode)
// runs on the interval alone.
type AutosaveScheduler struct {
	debounce time.Duration
	interval time.Duration
	save     func()

	mu     sync.Mutex
	timer  *time.Timer
	ticker *time.Ticker
	done   chan struct{}
	closed bool
}

// NewAutosaveScheduler starts the interval ticker immediately. save is invoked
// on the scheduler's own goroutines; it must be safe to call at any time.
func NewAutosaveScheduler(debounce, interval time.Duration, save func()) *AutosaveScheduler {
	s := &AutosaveScheduler{
		debounce: debounce,
		interval: interval,
		save:     save,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.save()
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Notify signals that an edit happened. The snapshot fires once the debounce
// window elapses without further edits.
func (s *AutosaveScheduler) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.save)
}

// Close stops both triggers. A debounce timer already in flight may still fire.
func (s *AutosaveScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.ticker.Stop()
	close(s.done)
	applog.WithComponent("storage").Debug("autosave scheduler stopped", slog.Duration("interval", s.interval))
}
