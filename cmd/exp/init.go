package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SkyArrow256/exp-lang/pkg/driver"
)

const initialMainSource = `// Entry point: the value main returns is printed by exp run.
func main() = {
  let greeting = "hello from %s";
  greeting
}
`

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func runInit(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve %s: %v\n", dir, err)
		return 1
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", absDir, err)
		return 1
	}

	manifestPath := filepath.Join(absDir, driver.ManifestFileName)
	if _, err := os.Stat(manifestPath); err == nil {
		fmt.Fprintf(os.Stderr, "%s already exists\n", manifestPath)
		return 1
	} else if !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to inspect %s: %v\n", manifestPath, err)
		return 1
	}

	name := filepath.Base(absDir)
	manifest := &driver.Manifest{Name: name, Version: "0.1.0", Main: driver.DefaultMain}
	if err := driver.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	mainPath := filepath.Join(absDir, driver.DefaultMain)
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		source := fmt.Sprintf(initialMainSource, literalEscaper.Replace(name))
		if err := os.WriteFile(mainPath, []byte(source), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", mainPath, err)
			return 1
		}
	}
	fmt.Fprintf(os.Stdout, "created %s\n", manifestPath)
	return 0
}
