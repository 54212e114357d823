package main

import (
	"fmt"
	"os"
)

func modeCommandLabel(mode executionMode) string {
	switch mode {
	case modeCheck:
		return "exp check"
	case modeParse:
		return "exp parse"
	default:
		return "exp run"
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  exp run [--rev <revision>] [--max-depth <n>] [file.exp]")
	fmt.Fprintln(os.Stderr, "  exp [--rev <revision>] [--max-depth <n>] <file.exp>")
	fmt.Fprintln(os.Stderr, "  exp check [--rev <revision>] [file.exp]")
	fmt.Fprintln(os.Stderr, "  exp parse [--rev <revision>] [file.exp]")
	fmt.Fprintln(os.Stderr, "  exp repl [--max-depth <n>]")
	fmt.Fprintln(os.Stderr, "  exp init [dir]")
	fmt.Fprintln(os.Stderr, "  exp version")
}
