// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"github.com/relabs-tech/minevisit/internal/app"
	"github.com/relabs-tech/minevisit/internal/cli"
)

func main() {
	cli.Execute(cli.NewCommand("web", "Serve the mining site visit form", app.RunWeb))
}
