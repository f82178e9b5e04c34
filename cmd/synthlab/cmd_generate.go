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
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AleutianAI/synthlab/pkg/ux"
	"github.com/AleutianAI/synthlab/pkg/validation"
	"github.com/AleutianAI/synthlab/services/synth"
	"github.com/AleutianAI/synthlab/services/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "synthlab/cli"

// Output formats for generated tables.
const (
	formatAuto  = "auto"
	formatCSV   = "csv"
	formatJSON  = "json"
	formatTable = "table"
)

// tableFlags are shared by the generate subcommands.
type tableFlags struct {
	columns   string
	size      int
	seed      uint64
	random    bool
	format    string
	precision int
	output    string
}

func (f *tableFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.columns, "columns", "", "comma-separated column names (default from config)")
	cmd.Flags().IntVarP(&f.size, "size", "n", 0, "number of rows (default from config)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().BoolVar(&f.random, "random", false, "ignore any seed and draw from fresh entropy")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatAuto, "output format: auto, csv, json, table")
	cmd.Flags().IntVar(&f.precision, "precision", 4, "decimal places in table output")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to this file instead of stdout")
}

// resolve applies flag overrides to the configured columns, size and seed.
func (f *tableFlags) resolve(cmd *cobra.Command, columns []string, size int, seed *uint64) ([]string, int, *uint64, error) {
	if f.columns != "" {
		cols, err := validation.ParseColumnList(f.columns)
		if err != nil {
			return nil, 0, nil, err
		}
		columns = cols
	}
	if cmd.Flags().Changed("size") {
		size = f.size
	}
	switch {
	case f.random:
		seed = nil
	case cmd.Flags().Changed("seed"):
		seed = synth.Seed(f.seed)
	}
	return columns, size, seed, nil
}

func newCompositionCmd(a *app) *cobra.Command {
	var (
		flags tableFlags
		mean  string
	)
	cmd := &cobra.Command{
		Use:   "composition",
		Short: "Generate a synthetic composition table with an Sr87/Sr86 column",
		Long: `Draws rows from a multivariate normal in additive log-ratio space, maps
them to percent compositions, scales bare element symbols (trace elements)
by 10, and appends a noisy Sr87/Sr86 isotope ratio column.`,
		Example: `  synthlab generate composition
  synthlab generate composition --columns SiO2,MgO,FeO,Ni --size 100 --seed 7 -f csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gc := a.cfg.Generate.Composition
			columns, size, seed, err := flags.resolve(cmd, gc.Columns, gc.Size, gc.Seed)
			if err != nil {
				return err
			}
			params := synth.CompositionParams{Columns: columns, Size: size, Seed: seed}
			if mean != "" {
				if params.Mean, err = parseFloats(mean); err != nil {
					return fmt.Errorf("--mean: %w", err)
				}
			}
			return a.generate(cmd.Context(), "composition", flags, func() (*synth.Table, error) {
				return synth.GenerateComposition(params)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&mean, "mean", "", "comma-separated centre composition, one positive value per column")
	return cmd
}

func newCountsCmd(a *app) *cobra.Command {
	var (
		flags    tableFlags
		bias     string
		strength float64
	)
	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Generate Poisson signal counts normalised to a fixed strength",
		Long: `Reads --bias as log-ratios against the last channel, draws each channel
from a Poisson distribution per interval, and rescales every row to sum
to --strength.`,
		Example: `  synthlab generate counts
  synthlab generate counts --columns 18O,17O,16O --bias 1.5,-0.2 --strength 1e6 -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := a.cfg.Generate.Counts
			columns, size, seed, err := flags.resolve(cmd, cc.Columns, cc.Size, cc.Seed)
			if err != nil {
				return err
			}
			params := synth.CountParams{
				Columns:  columns,
				Size:     size,
				Strength: cc.Strength,
				Seed:     seed,
			}
			if cmd.Flags().Changed("strength") {
				params.Strength = strength
			}
			if bias != "" {
				if params.Bias, err = parseFloats(bias); err != nil {
					return fmt.Errorf("--bias: %w", err)
				}
			}
			return a.generate(cmd.Context(), "counts", flags, func() (*synth.Table, error) {
				return synth.GenerateCounts(params)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&bias, "bias", "", "comma-separated log-ratios, one per channel except the last")
	cmd.Flags().Float64Var(&strength, "strength", synth.DefaultStrength, "total signal per interval")
	return cmd
}

// generate runs gen inside a span, records metrics, and writes the table.
func (a *app) generate(ctx context.Context, generator string, flags tableFlags, gen func() (*synth.Table, error)) (err error) {
	switch flags.format {
	case formatAuto, formatCSV, formatJSON, formatTable:
	default:
		return fmt.Errorf("unknown format %q (want auto, csv, json, or table)", flags.format)
	}
	if err := a.startTelemetry(ctx, ""); err != nil {
		return err
	}
	ctx, span := telemetry.StartSpan(ctx, tracerName, "generate."+generator,
		trace.WithAttributes(attribute.String("generator", generator)))
	defer func() { telemetry.EndSpan(span, err) }()

	start := time.Now()
	tbl, err := gen()
	rows := 0
	if tbl != nil {
		rows = tbl.Len()
	}
	a.metrics.RecordGeneration(ctx, generator, rows, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("generate %s: %w", generator, err)
	}
	a.logger.DebugContext(ctx, "table generated", "generator", generator, "rows", rows, "columns", tbl.Width())

	if flags.output == "" {
		return writeTable(a.stdout, tbl, flags.format, flags.precision)
	}
	return writeTableFile(flags.output, tbl, flags.format, flags.precision)
}

// writeTableFile writes tbl to path, reporting a failed close.
func writeTableFile(path string, tbl *synth.Table, format string, precision int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return writeTable(f, tbl, format, precision)
}

// writeTable encodes tbl in format. "auto" renders a table on a terminal
// and CSV otherwise.
func writeTable(w io.Writer, tbl *synth.Table, format string, precision int) error {
	if format == formatAuto {
		format = formatCSV
		if ux.IsTerminal(w) {
			format = formatTable
		}
	}
	switch format {
	case formatCSV:
		return tbl.WriteCSV(w)
	case formatJSON:
		return tbl.WriteJSON(w)
	case formatTable:
		ux.NewPrinterMode(w, ux.ModeRich).Table(tbl.Columns, tbl.Records(precision))
		return nil
	default:
		return fmt.Errorf("unknown format %q (want auto, csv, json, or table)", format)
	}
}

// parseFloats parses a comma-separated list of numbers.
func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
