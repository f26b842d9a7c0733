/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tstudio/internal/config"
	applog "tstudio/internal/log"
	"tstudio/internal/version"
)

// newRootCommand builds the tstudio CLI. It is the scripting/debug front end
// for the persistence core; the desktop shell speaks to the same functions.
func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tstudio",
		Short:         "Teach Studio project tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applog.Init(applog.Options{
				Level:     cfg.Logging.Level,
				Format:    cfg.Logging.Format,
				AddSource: cfg.Logging.Source,
				File:      cfg.Logging.File,
			})
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newCreateCommand())
	rootCmd.AddCommand(newOpenCommand())
	rootCmd.AddCommand(newSaveCommand())
	rootCmd.AddCommand(newAutosaveCommand())
	rootCmd.AddCommand(newRecoverCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newReadAssetCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newHandoutCommand())
	rootCmd.AddCommand(newSearchCommand())
	rootCmd.AddCommand(newReindexCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.String())
		},
	}
}
