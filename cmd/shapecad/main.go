// Copyright (c) 2025 Daniel Nugroho
// Licensed under the MIT License

package main

import (
	"os"

	"github.com/dnugroho/shapecad/cmd/shapecad/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
