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

	"tstudio/internal/export"
	"tstudio/internal/storage"
)

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir> <file-or-folder>...",
		Short: "Copy media files into the project's asset store and register them",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.Open(args[0])
			if err != nil {
				return err
			}
			recs, err := storage.ImportAssets(ph, args[1:])
			if err != nil {
				return err
			}
			storage.RegisterAssets(ph, recs)
			if err := storage.Save(ph); err != nil {
				return err
			}
			for _, r := range recs {
				fmt.Printf("%s  %s (%s, %d bytes)\n", r.ID, r.Meta.OriginalName, r.Meta.Mime, r.Meta.Size)
			}
			fmt.Printf("imported %d assets\n", len(recs))
			return nil
		},
	}
}

func newReadAssetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read-asset <dir> <asset-id>",
		Short: "Print an asset as a MIME-prefixed base64 data URI",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.Open(args[0])
			if err != nil {
				return err
			}
			uri, err := storage.ReadAssetDataURI(ph, args[1])
			if err != nil {
				return err
			}
			fmt.Println(uri)
			return nil
		},
	}
}

func newExportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Validate references and bundle the project into a .tstudio archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.Open(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = "export" + export.ArchiveExt
			}
			res, err := export.ExportProjectArchive(ph, out)
			if err != nil {
				return err
			}
			fmt.Printf("exported %s (%d bytes, %d assets validated)\n", res.Path, res.Size, res.ValidatedAssets)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "destination archive path")
	return cmd
}

func newHandoutCommand() *cobra.Command {
	var out string
	var dialogue bool
	cmd := &cobra.Command{
		Use:   "handout <dir>",
		Short: "Export a printable PDF outline of the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := storage.Open(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = "handout.pdf"
			}
			if err := export.ExportHandoutPDF(ph, out, export.HandoutOptions{IncludeDialogue: dialogue}); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "destination PDF path")
	cmd.Flags().BoolVar(&dialogue, "dialogue", true, "include dialogue lines")
	return cmd
}
