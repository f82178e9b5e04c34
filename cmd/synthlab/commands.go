// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree bound to a.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "synthlab",
		Short: "Synthetic geochemical data, notebook runs, and hub cache paths",
		Long: `synthlab generates reproducible synthetic compositional datasets,
executes notebook suites with bounded timeouts, and resolves the per-user
cache directories a JupyterHub spawner sets for each user.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "",
		"config file (default ~/.synthlab/synthlab.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"log level: debug, info, warn, error (overrides the config file)")

	// --- Generators ---
	generateCmd := &cobra.Command{
		Use:     "generate",
		Short:   "Generate synthetic tables",
		Aliases: []string{"gen"},
	}
	generateCmd.AddCommand(newCompositionCmd(a), newCountsCmd(a))

	// --- Notebooks ---
	notebooksCmd := &cobra.Command{
		Use:     "notebooks",
		Short:   "Execute notebook suites",
		Aliases: []string{"nb"},
	}
	notebooksCmd.AddCommand(newNotebooksRunCmd(a))

	rootCmd.AddCommand(
		generateCmd,
		newElementsCmd(a),
		notebooksCmd,
		newHubEnvCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

// execute runs the CLI with args and returns the process exit code.
func execute(a *app, args []string) int {
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	a.close()
	return exitCode(a.stderr, err)
}
