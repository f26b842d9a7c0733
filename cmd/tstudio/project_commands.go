/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tstudio/internal/config"
	"tstudio/internal/crash"
	applog "tstudio/internal/log"
	"tstudio/internal/storage"
)

func newCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <dir>",
		Short: "Create a new project directory with a default manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.InitProject(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("created %s\n", ph.ManifestPath)
			return nil
		},
	}
}

func newOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <dir>",
		Short: "Open a project and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.Open(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d sections, %d assets, updated %s\n",
				ph.Root, len(ph.Manifest.Sections), len(ph.Manifest.AssetRegistry),
				ph.Manifest.UpdatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <dir>",
		Short: "Re-save the manifest (stamps updatedAt, rewrites atomically)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.Open(args[0])
			if err != nil {
				return err
			}
			defer crash.Recover(ph)
			if err := storage.Save(ph); err != nil {
				return err
			}
			if err := storage.RebuildIndex(context.Background(), ph); err != nil {
				return err
			}
			fmt.Printf("saved %s\n", ph.ManifestPath)
			return nil
		},
	}
}

func newAutosaveCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "autosave <dir>",
		Short: "Push one snapshot into the autosave ring (or keep snapshotting with --watch)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.Open(args[0])
			if err != nil {
				return err
			}
			if !watch {
				path, err := storage.Autosave(ph)
				if err != nil {
					return err
				}
				fmt.Printf("autosaved %s\n", path)
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			l := applog.WithComponent("cli")
			sched := storage.NewAutosaveScheduler(
				cfg.Autosave.DebounceDuration(),
				cfg.Autosave.IntervalDuration(),
				func() {
					if _, err := storage.Autosave(ph); err != nil {
						l.Error("autosave failed", slog.Any("err", err))
					}
				},
			)
			defer sched.Close()
			fmt.Printf("autosaving %s every %s; ctrl-c to stop\n", ph.Root, cfg.Autosave.IntervalDuration())
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep snapshotting on the configured interval until interrupted")
	return cmd
}

func newRecoverCommand() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "recover <dir>",
		Short: "Hydrate the newest valid autosave snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := storage.Recover(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("recovered from %s (%d sections)\n", rec.Path, len(rec.Handle.Manifest.Sections))
			if write {
				if err := storage.Save(rec.Handle); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", rec.Handle.ManifestPath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "replace manifest.json with the recovered snapshot")
	return cmd
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <dir>",
		Short: "Cross-validate asset references against the asset store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.Open(args[0])
			if err != nil {
				return err
			}
			violations, err := storage.HealthCheck(ph)
			if err != nil {
				return err
			}
			if len(violations) == 0 {
				fmt.Println("healthy")
				return nil
			}
			for _, v := range violations {
				fmt.Println(v)
			}
			return fmt.Errorf("%d integrity violations", len(violations))
		},
	}
}

func newReindexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex <dir>",
		Short: "Rebuild the embedded search index from the manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.Open(args[0])
			if err != nil {
				return err
			}
			return storage.RebuildIndex(context.Background(), ph)
		},
	}
}

func newSearchCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <dir> <query>",
		Short: "Full-text search over section titles, dialogue and page breaks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := storage.Search(context.Background(), args[0], storage.SearchQuery{
				Text:  args[1],
				Limit: limit,
			})
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("%s #%d [%s] %s\n", r.SectionID, r.Seq, r.Type, r.Snippet)
			}
			fmt.Printf("%d matches\n", len(results))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum results")
	return cmd
}
