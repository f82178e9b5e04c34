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
	"strconv"
	"strings"

	"github.com/AleutianAI/synthlab/pkg/ux"
	"github.com/AleutianAI/synthlab/services/synth/elements"
	"github.com/spf13/cobra"
)

func newElementsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "elements [name...]",
		Short: "Classify column names as trace elements",
		Long: `With no arguments, lists every element symbol with its atomic number.
With arguments, reports for each name whether the composition generator
treats it as a trace element (scaled by 10) or a major component.`,
		Example: `  synthlab elements
  synthlab elements Ni SiO2 87Sr`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := ux.NewPrinter(a.stdout)
			if len(args) == 0 {
				symbols := elements.Symbols()
				rows := make([][]string, len(symbols))
				for i, s := range symbols {
					z, _ := elements.AtomicNumber(s)
					rows[i] = []string{s, strconv.Itoa(z)}
				}
				p.Table([]string{"Symbol", "Z"}, rows)
				return nil
			}

			rows := make([][]string, len(args))
			for i, name := range args {
				name = strings.TrimSpace(name)
				z, ok := elements.AtomicNumber(name)
				kind, zs := "major", "-"
				if ok {
					kind, zs = "trace", strconv.Itoa(z)
				}
				rows[i] = []string{name, zs, kind}
			}
			p.Table([]string{"Name", "Z", "Class"}, rows)
			a.logger.Debug("classified names", "count", len(args), "trace", elements.Filter(args))
			return nil
		},
	}
}
