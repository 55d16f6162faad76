// Package main is the entry point for the mapsize CLI tool.
// It delegates to the cmd package, which owns flag handling and orchestration.
package main

import (
	"mapsize/cmd"
)

func main() {
	cmd.Execute()
}
