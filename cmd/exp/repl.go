package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/SkyArrow256/exp-lang/pkg/driver"
	"github.com/SkyArrow256/exp-lang/pkg/interpreter"
	"github.com/SkyArrow256/exp-lang/pkg/parser"
	"github.com/SkyArrow256/exp-lang/pkg/runtime"
)

const (
	replPromptMain  = "exp> "
	replPromptCont  = "...> "
	historyFileName = ".exp_history"
	historyEnvVar   = "EXP_HISTORY"
)

func runRepl(args []string) int {
	opts, remaining, err := parseRunOptions(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(remaining) > 0 {
		fmt.Fprintf(os.Stderr, "exp repl does not take arguments (received %s)\n", strings.Join(remaining, " "))
		return 1
	}
	if opts.revision != "" {
		fmt.Fprintln(os.Stderr, "exp repl does not support --rev")
		return 1
	}
	if opts.maxDepth == 0 {
		manifest, err := loadManifestFrom(".")
		switch {
		case err == nil:
			opts.maxDepth = manifest.Limits.MaxCallDepth
		case !errors.Is(err, driver.ErrManifestNotFound):
			fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			return 1
		}
	}

	interp := interpreter.New(interpreter.WithMaxCallDepth(opts.maxDepth))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := replHistoryPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintf(os.Stdout, "%s (:env, :main, :quit)\n", cliToolVersion)
	for {
		code, ok := readUntilComplete(ln, replPromptMain, replPromptCont)
		if !ok {
			fmt.Fprintln(os.Stdout)
			return 0
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if quit := evalReplInput(interp, code, os.Stdout, os.Stderr); quit {
			return 0
		}
	}
}

// readUntilComplete keeps prompting for continuation lines while the collected
// input fails to parse only because it ended early.
func readUntilComplete(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C drops the pending input.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := parser.Parse(src); perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

// evalReplInput runs one REPL entry and reports whether the session should end.
func evalReplInput(interp *interpreter.Interpreter, code string, out, errOut io.Writer) bool {
	trimmed := strings.TrimSpace(code)
	if strings.HasPrefix(trimmed, ":") {
		switch strings.ToLower(trimmed) {
		case ":quit", ":q":
			return true
		case ":env":
			env := interp.Environment()
			for _, name := range env.Globals() {
				val, err := env.Get(name)
				if err != nil {
					continue
				}
				fmt.Fprintf(out, "%s = %s\n", name, runtime.Format(val))
			}
		case ":main":
			val, err := interp.CallMain()
			if err != nil {
				fmt.Fprintln(errOut, interpreter.DescribeRuntimeDiagnostic(interp.BuildRuntimeDiagnostic(err)))
				return false
			}
			fmt.Fprintln(out, runtime.Format(val))
		default:
			fmt.Fprintf(errOut, "unknown command %s (try :env, :main or :quit)\n", trimmed)
		}
		return false
	}

	program, err := parser.Parse(code)
	if err != nil {
		var diagErr *driver.ParserDiagnosticError
		if errors.As(driver.NewParserDiagnosticError("", err), &diagErr) {
			fmt.Fprintln(errOut, driver.DescribeParserDiagnostic(diagErr.Diagnostic))
		} else {
			fmt.Fprintln(errOut, err)
		}
		return false
	}
	val, err := interp.EvaluateStatements(program)
	if err != nil {
		fmt.Fprintln(errOut, interpreter.DescribeRuntimeDiagnostic(interp.BuildRuntimeDiagnostic(err)))
		return false
	}
	if val.Kind() != runtime.KindNone {
		fmt.Fprintln(out, runtime.Format(val))
	}
	return false
}

func replHistoryPath() string {
	if path := strings.TrimSpace(os.Getenv(historyEnvVar)); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, historyFileName)
}
