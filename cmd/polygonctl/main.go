// Copyright (c) 2024 VNOI Admin
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

// Command polygonctl drives a Polygon account from the command line. Each
// subcommand maps to one client operation and prints its result to stdout.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
