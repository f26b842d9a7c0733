/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tstudio/internal/domain"
	applog "tstudio/internal/log"
	"tstudio/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores per-project ephemeral/index data under the project root.
	IndexDirName  = ".tstudio"
	IndexFileName = "index.sqlite"

	// indexSchemaVersion tracks the local SQLite schema for the embedded index.
	indexSchemaVersion = 1
)

// IndexPath returns the full path to the project's embedded index database.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures the per-project SQLite index exists, opens it with
// WAL mode and makes sure the schema is present. The index is derived from the
// manifest and safe to delete; RebuildIndex repopulates it.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create %s dir: %w", IndexDirName, err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(IndexPath(projectRoot)))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	return db, nil
}

func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			updated_at  TEXT NOT NULL
		);`,
		// Textual content of the project: section titles, dialogue lines,
		// page break titles and questions.
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id     INTEGER PRIMARY KEY,
			type       TEXT    NOT NULL,
			section_id TEXT    NOT NULL,
			seq        INTEGER NOT NULL,
			text       TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_section ON documents(section_id);`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_documents USING fts5(
			text,
			content='',
			tokenize = 'unicode61'
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.ExecContext(ctx,
		`INSERT INTO version (id, schema, app, updated_at) VALUES(1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET app=excluded.app, updated_at=excluded.updated_at`,
		indexSchemaVersion, version.String(), now); err != nil {
		return fmt.Errorf("seed version: %w", err)
	}
	return nil
}

// RebuildIndex repopulates the documents table from the in-memory manifest.
// It is called after save; dropping everything and reinserting keeps the index
// trivially consistent with the manifest.
func RebuildIndex(ctx context.Context, ph *ProjectHandle) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear documents: %w", err)
	}
	ins := `INSERT INTO documents(type, section_id, seq, text) VALUES (?, ?, ?, ?)`
	add := func(typ, sectionID string, seq int, text string) error {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		_, err := tx.ExecContext(ctx, ins, typ, sectionID, seq, text)
		return err
	}
	for _, sec := range ph.Manifest.Sections {
		if err := add("section_title", sec.ID, 0, sec.Title); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("index section: %w", err)
		}
		for seq, it := range sec.Timeline {
			switch it.Kind {
			case domain.KindSlide:
				if it.Slide == nil {
					continue
				}
				for _, d := range it.Slide.Dialogue {
					line := d.Text
					if d.Speaker != "" {
						line = d.Speaker + ": " + d.Text
					}
					if err := add("dialogue", sec.ID, seq, line); err != nil {
						_ = tx.Rollback()
						return fmt.Errorf("index dialogue: %w", err)
					}
				}
			case domain.KindVideo:
				// no textual content
			case domain.KindPageBreak:
				if it.PageBreak == nil {
					continue
				}
				if err := add("pagebreak_title", sec.ID, seq, it.PageBreak.Title); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("index page break: %w", err)
				}
				if err := add("pagebreak_question", sec.ID, seq, it.PageBreak.Question); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("index page break: %w", err)
				}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rebuild: %w", err)
	}
	return nil
}
