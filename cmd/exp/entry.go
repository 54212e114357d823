package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SkyArrow256/exp-lang/pkg/driver"
	"github.com/SkyArrow256/exp-lang/pkg/interpreter"
	"github.com/SkyArrow256/exp-lang/pkg/runtime"
)

func runEntry(args []string, mode executionMode) int {
	opts, remaining, err := parseRunOptions(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(remaining) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(remaining[1:], " "))
		return 1
	}

	var manifest *driver.Manifest
	var entryPath string
	if len(remaining) == 0 {
		manifest, err = loadManifestFrom(".")
		if err != nil {
			if errors.Is(err, driver.ErrManifestNotFound) {
				fmt.Fprintf(os.Stderr, "%s requires a source file (%s not found)\n", modeCommandLabel(mode), driver.ManifestFileName)
			} else {
				fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			}
			return 1
		}
		entryPath = manifest.EntryPath()
		if opts.revision == "" {
			opts.revision = manifest.Rev
		}
	} else {
		entryPath = remaining[0]
		// A manifest next to the file still supplies interpreter limits.
		manifest, err = loadManifestFrom(filepath.Dir(entryPath))
		if err != nil {
			if !errors.Is(err, driver.ErrManifestNotFound) {
				fmt.Fprintf(os.Stderr, "failed to read manifest for %s: %v\n", entryPath, err)
				return 1
			}
			manifest = nil
		}
	}

	if opts.maxDepth == 0 && manifest != nil {
		opts.maxDepth = manifest.Limits.MaxCallDepth
	}
	return executeEntry(entryPath, opts, mode)
}

func executeEntry(entry string, opts runOptions, mode executionMode) int {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		fmt.Fprintf(os.Stderr, "%s requires a source file\n", modeCommandLabel(mode))
		return 1
	}

	src, err := driver.LoaderFor(opts.revision).Load(entry)
	if err != nil {
		reportLoadError(err)
		return 1
	}

	switch mode {
	case modeCheck:
		if src.Commit != "" {
			fmt.Fprintf(os.Stdout, "ok (%s at %s)\n", src.Path, shortCommit(src.Commit))
			return 0
		}
		fmt.Fprintln(os.Stdout, "ok")
		return 0
	case modeParse:
		data, err := json.MarshalIndent(src.Program, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode syntax tree: %v\n", err)
			return 1
		}
		fmt.Fprintln(os.Stdout, string(data))
		return 0
	}

	interp := interpreter.New(
		interpreter.WithMaxCallDepth(opts.maxDepth),
		interpreter.WithSourcePath(src.Path),
	)
	result, err := interp.EvaluateProgram(src.Program)
	if err != nil {
		fmt.Fprintln(os.Stderr, interpreter.DescribeRuntimeDiagnostic(interp.BuildRuntimeDiagnostic(err)))
		return 1
	}
	fmt.Fprintln(os.Stdout, runtime.Format(result))
	return 0
}

// shortCommit abbreviates a commit hash the way git log --oneline does.
func shortCommit(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func reportLoadError(err error) {
	var diagErr *driver.ParserDiagnosticError
	if errors.As(err, &diagErr) {
		fmt.Fprintln(os.Stderr, driver.DescribeParserDiagnostic(diagErr.Diagnostic))
		return
	}
	fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(path)
}
