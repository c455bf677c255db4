// Package main is the chip8recomp CLI entry point.
package main

import (
	"github.com/chip8recomp/chip8recomp/internal/cli"
)

func main() {
	cli.Execute()
}
