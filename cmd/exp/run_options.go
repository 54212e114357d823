package main

import (
	"fmt"
	"strconv"
	"strings"
)

type runOptions struct {
	revision string
	maxDepth int
}

// parseRunOptions strips --rev and --max-depth (either "--flag value" or
// "--flag=value") from args and returns the remaining positional arguments.
func parseRunOptions(args []string) (runOptions, []string, error) {
	var opts runOptions
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		name, value, hasValue := strings.Cut(arg, "=")
		switch name {
		case "--rev", "--max-depth":
		default:
			remaining = append(remaining, arg)
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("%s expects a value", name)
			}
			value = args[i+1]
			i++
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return opts, nil, fmt.Errorf("%s expects a value", name)
		}
		switch name {
		case "--rev":
			opts.revision = value
		case "--max-depth":
			depth, err := strconv.Atoi(value)
			if err != nil || depth <= 0 {
				return opts, nil, fmt.Errorf("--max-depth expects a positive integer (got '%s')", value)
			}
			opts.maxDepth = depth
		}
	}
	return opts, remaining, nil
}
