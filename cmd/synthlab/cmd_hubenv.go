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
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/AleutianAI/synthlab/pkg/ux"
	"github.com/AleutianAI/synthlab/services/hubenv"
	"github.com/spf13/cobra"
)

const (
	envFormatEnv    = "env"
	envFormatExport = "export"
	envFormatJSON   = "json"
)

func newHubEnvCmd(a *app) *cobra.Command {
	var (
		format   string
		homeRoot string
		mkdir    bool
	)
	cmd := &cobra.Command{
		Use:   "hubenv <user> [-- command [args...]]",
		Short: "Print or apply the per-user cache environment a spawner sets",
		Long: `Resolves the per-user cache directories (by default MPLCONFIGDIR=~user/.mpl
and NUMBA_CACHE_DIR=~user/.numba) that keep users from sharing plotting and
JIT caches on a shared hub.

With a command after --, runs it with the variables applied to the current
environment instead of printing them.`,
		Example: `  synthlab hubenv alice
  synthlab hubenv alice --format export >> /etc/profile.d/caches.sh
  synthlab hubenv alice --home-root /srv/home -- jupyterhub-singleuser`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if n := cmd.ArgsLenAtDash(); n == 0 || n > 1 {
				return fmt.Errorf("expected one user before --, got %d", n)
			}
			if cmd.ArgsLenAtDash() < 0 && len(args) > 1 {
				return fmt.Errorf("expected one user, got %d arguments (put the command after --)", len(args))
			}
			command := args[1:]

			root := a.cfg.HubEnv.HomeRoot
			if homeRoot != "" {
				root = homeRoot
			}
			var resolver hubenv.HomeResolver
			if root != "" {
				resolver = hubenv.StaticHomeResolver{Root: root}
			}
			hook := hubenv.NewHook(resolver, a.cfg.HubEnv.CacheDirs)

			if err := a.startTelemetry(cmd.Context(), ""); err != nil {
				return err
			}
			env, err := hook.Environment(username)
			a.metrics.RecordHubEnvLookup(cmd.Context(), err)
			if err != nil {
				return err
			}
			a.logger.Debug("resolved cache environment", "user", username, "vars", len(env))

			if mkdir {
				for _, dir := range env {
					if err := os.MkdirAll(dir, 0o700); err != nil {
						return fmt.Errorf("create cache dir: %w", err)
					}
				}
			}

			if len(command) > 0 {
				environ, err := hook.Apply(os.Environ(), username)
				if err != nil {
					return err
				}
				c := exec.CommandContext(cmd.Context(), command[0], command[1:]...)
				c.Env = environ
				c.Stdin, c.Stdout, c.Stderr = os.Stdin, a.stdout, a.stderr
				return c.Run()
			}
			return writeEnv(a, env, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", envFormatEnv, "output format: env, export, json")
	cmd.Flags().StringVar(&homeRoot, "home-root", "", "resolve homes as <root>/<user> instead of the user database")
	cmd.Flags().BoolVar(&mkdir, "mkdir", false, "create the cache directories")
	return cmd
}

func writeEnv(a *app, env map[string]string, format string) error {
	keys := hubenv.SortedKeys(env)
	switch format {
	case envFormatEnv:
		ux.NewPrinterMode(a.stdout, ux.ModeMachine).KeyValues(keys, env)
	case envFormatExport:
		for _, k := range keys {
			fmt.Fprintf(a.stdout, "export %s=%s\n", k, shellQuote(env[k]))
		}
	case envFormatJSON:
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(env)
	default:
		return fmt.Errorf("unknown format %q (want env, export, or json)", format)
	}
	return nil
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
