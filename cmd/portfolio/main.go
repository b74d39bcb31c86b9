// Package main is the entry point of the portfolio CLI. It serves the live
// site and admin API, exports the static site and runs migrations.
package main

import "portfolio/cmd/portfolio/commands"

func main() {
	commands.Execute()
}
