// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command synthlab generates synthetic geochemical test data, runs notebook
// suites, and resolves JupyterHub per-user cache directories.
//
// # Usage
//
//	synthlab generate composition --columns SiO2,MgO,Ni --size 100 --seed 7
//	synthlab generate counts --format json
//	synthlab elements Ni SiO2
//	synthlab notebooks run --dir ./notebooks --parallel 4
//	synthlab hubenv alice --format json
//	synthlab serve --addr :8090
//
// Configuration is read from ~/.synthlab/synthlab.yaml (created on first
// run) or the file given with --config.
package main

import (
	"os"
)

func main() {
	os.Exit(execute(newApp(os.Stdout, os.Stderr), os.Args[1:]))
}
