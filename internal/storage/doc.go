/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage implements project persistence and recovery.
// It handles create/open/save for the canonical JSON manifest (manifest.json)
// with atomic temp-write-then-rename semantics, maintains the rotating autosave
// ring under <project>/autosave, selects the newest structurally valid snapshot
// on recovery, imports media into the id-addressed asset store, checks
// reference integrity between the project graph and the asset store, and keeps
// a bounded append-only event log under <project>/logs.
// It also manages the per-project embedded SQLite index at
// <project>/.tstudio/index.sqlite used for text search; the index is derived
// from the manifest and can be deleted and rebuilt at any time.
package storage
