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
	"errors"
	"fmt"
	"io"

	"github.com/AleutianAI/synthlab/services/notebooks"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess  = 0 // Operation completed successfully
	CLIExitFindings = 1 // Notebooks ran but some failed
	CLIExitError    = 2 // Operation failed
)

// exitCode maps a command error to the process exit code and reports it on
// stderr. A notebook failure summary has already been printed by the runner.
func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return CLIExitSuccess
	}
	if errors.Is(err, notebooks.ErrNotebooksFailed) {
		return CLIExitFindings
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return CLIExitError
}
