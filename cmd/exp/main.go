package main

import (
	"fmt"
	"os"
)

const cliToolVersion = "exp 0.1.0-dev"

type executionMode int

const (
	modeRun executionMode = iota
	modeCheck
	modeParse
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:], modeRun)
	case "check":
		return runEntry(args[1:], modeCheck)
	case "parse":
		return runEntry(args[1:], modeParse)
	case "repl":
		return runRepl(args[1:])
	case "init":
		return runInit(args[1:])
	default:
		return runEntry(args, modeRun)
	}
}
