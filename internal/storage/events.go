/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

const EventLogFileName = "events.log"

// EventLogPath returns the project-scoped event log path.
func EventLogPath(root string) string {
	return filepath.Join(root, LogsDirName, EventLogFileName)
}

// AppendEvent appends one "<ISO8601> <event> <detail>" line to the project's
// audit log. The log is size-rotated so it cannot grow without bound.
// Append errors propagate; persistence operations do not report success when
// their audit line was lost.
func AppendEvent(root, event, detail string) error {
	if err := os.MkdirAll(filepath.Join(root, LogsDirName), 0o755); err != nil {
		return fmt.Errorf("ensure logs dir: %w", err)
	}
	w := &lj.Logger{
		Filename:   EventLogPath(root),
		MaxSize:    5, // MB
		MaxBackups: 2,
		Compress:   false,
	}
	defer func() { _ = w.Close() }()
	line := fmt.Sprintf("%s %s %s\n", time.Now().UTC().Format(time.RFC3339), event, detail)
	if _, err := w.Write([]byte(line)); err != nil {
		return fmt.Errorf("append event log: %w", err)
	}
	return nil
}
