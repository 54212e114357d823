package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SkyArrow256/exp-lang/pkg/driver"
	"github.com/SkyArrow256/exp-lang/pkg/interpreter"
)

const recursionSource = `
func count(n) = {
  if n == 0 { 0 } else { count(n - 1) }
}
func main() = { count(10) }
`

func TestRunPrintsMainResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "add.exp")
	writeFile(t, path, "func main() = { 2 + 3 }")

	for _, args := range [][]string{{"run", path}, {path}} {
		code, stdout, stderr := captureCLI(t, args)
		if code != 0 {
			t.Fatalf("%v: expected exit code 0, got %d (stderr=%q)", args, code, stderr)
		}
		if stdout != "5\n" {
			t.Fatalf("%v: expected stdout %q, got %q", args, "5\n", stdout)
		}
	}
}

func TestRunFormatsCompositeResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arr.exp")
	writeFile(t, path, `func main() = { ["a", 1, true, 2..4] }`)

	code, stdout, stderr := captureCLI(t, []string{"run", path})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	if stdout != "[\"a\", 1, true, 2..4]\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestCheckAndParseModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.exp")
	writeFile(t, path, "func main() = { 1 / 0 }")

	code, stdout, stderr := captureCLI(t, []string{"check", path})
	if code != 0 || stdout != "ok\n" {
		t.Fatalf("check: code=%d stdout=%q stderr=%q", code, stdout, stderr)
	}

	code, stdout, stderr = captureCLI(t, []string{"parse", path})
	if code != 0 {
		t.Fatalf("parse: code=%d stderr=%q", code, stderr)
	}
	if !strings.Contains(stdout, `"type": "Program"`) || !strings.Contains(stdout, `"type": "FunctionDefinition"`) {
		t.Fatalf("parse output missing node types:\n%s", stdout)
	}
}

func TestRunReportsParseDiagnostics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.exp")
	writeFile(t, path, "let = 1;")

	code, stdout, stderr := captureCLI(t, []string{"run", path})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if stdout != "" {
		t.Fatalf("expected no stdout, got %q", stdout)
	}
	prefix := "parser: " + path + ":1:5 "
	if !strings.HasPrefix(stderr, prefix) {
		t.Fatalf("expected stderr to start with %q, got %q", prefix, stderr)
	}
}

func TestRunReportsRuntimeDiagnostics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "div.exp")
	writeFile(t, path, "func main() = { 10 / 0 }")

	code, _, stderr := captureCLI(t, []string{"run", path})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	expected := "runtime: " + path + ":1:17 DivideByZero: division by zero\n"
	if stderr != expected {
		t.Fatalf("unexpected stderr:\nexpected: %q\ngot: %q", expected, stderr)
	}
}

func TestRunRequiresEntryWithoutManifest(t *testing.T) {
	chdirForTest(t, t.TempDir())

	code, _, stderr := captureCLI(t, []string{"run"})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "exp run requires a source file") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestRunUsesManifestEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, driver.ManifestFileName), `
name: demo
main: src/app.exp
`)
	writeFile(t, filepath.Join(dir, "src", "app.exp"), "func main() = { 6 * 7 }")
	chdirForTest(t, filepath.Join(dir, "src"))

	code, stdout, stderr := captureCLI(t, []string{"run"})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	if stdout != "42\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestRunHonoursCallDepthLimits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, driver.ManifestFileName), `
name: limits
limits:
  max_call_depth: 3
`)
	path := filepath.Join(dir, "main.exp")
	writeFile(t, path, recursionSource)

	code, _, stderr := captureCLI(t, []string{"run", path})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "StackOverflow") {
		t.Fatalf("expected StackOverflow diagnostic, got %q", stderr)
	}

	code, stdout, stderr := captureCLI(t, []string{"run", "--max-depth", "100", path})
	if code != 0 {
		t.Fatalf("expected --max-depth to override the manifest, got %d (stderr=%q)", code, stderr)
	}
	if stdout != "0\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}

	code, _, stderr = captureCLI(t, []string{"run", "--max-depth=2", path})
	if code != 1 || !strings.Contains(stderr, "StackOverflow") {
		t.Fatalf("expected StackOverflow with --max-depth=2, got code=%d stderr=%q", code, stderr)
	}
}

func TestRunAtGitRevision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.exp")
	writeFile(t, path, "func main() = { 1 }")
	commit := initGitRepo(t, dir)
	writeFile(t, path, "func main() = { 2 }")

	code, stdout, stderr := captureCLI(t, []string{"run", "--rev", "HEAD", path})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	if stdout != "1\n" {
		t.Fatalf("expected committed program output, got %q", stdout)
	}

	code, stdout, _ = captureCLI(t, []string{"run", path})
	if code != 0 || stdout != "2\n" {
		t.Fatalf("expected working tree output, got code=%d stdout=%q", code, stdout)
	}

	code, stdout, _ = captureCLI(t, []string{"check", "--rev", "HEAD", path})
	if want := "ok (" + path + " at " + commit[:7] + ")\n"; code != 0 || stdout != want {
		t.Fatalf("check at revision: code=%d stdout=%q want %q", code, stdout, want)
	}

	code, _, stderr = captureCLI(t, []string{"run", "--rev", "no-such-rev", path})
	if code != 1 || !strings.Contains(stderr, "resolve revision no-such-rev") {
		t.Fatalf("expected revision error, got code=%d stderr=%q", code, stderr)
	}
}

func TestInitScaffoldsRunnableProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hello")

	code, stdout, stderr := captureCLI(t, []string{"init", dir})
	if code != 0 {
		t.Fatalf("init: code=%d stderr=%q", code, stderr)
	}
	if !strings.Contains(stdout, driver.ManifestFileName) {
		t.Fatalf("unexpected init output %q", stdout)
	}
	manifest, err := driver.LoadManifest(filepath.Join(dir, driver.ManifestFileName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Name != "hello" || manifest.Main != driver.DefaultMain {
		t.Fatalf("unexpected manifest %+v", manifest)
	}

	chdirForTest(t, dir)
	code, stdout, stderr = captureCLI(t, []string{"run"})
	if code != 0 {
		t.Fatalf("run: code=%d stderr=%q", code, stderr)
	}
	if stdout != "hello from hello\n" {
		t.Fatalf("unexpected run output %q", stdout)
	}

	code, _, stderr = captureCLI(t, []string{"init", dir})
	if code != 1 || !strings.Contains(stderr, "already exists") {
		t.Fatalf("expected second init to fail, got code=%d stderr=%q", code, stderr)
	}
}

func TestVersionAndUsage(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"version"})
	if code != 0 || stdout != cliToolVersion+"\n" {
		t.Fatalf("version: code=%d stdout=%q", code, stdout)
	}
	code, _, stderr := captureCLI(t, nil)
	if code != 1 || !strings.Contains(stderr, "Usage:") {
		t.Fatalf("usage: code=%d stderr=%q", code, stderr)
	}
}

func TestParseRunOptions(t *testing.T) {
	opts, rest, err := parseRunOptions([]string{"--rev", "v1", "--max-depth=9", "main.exp", "--", "--rev"})
	if err != nil {
		t.Fatalf("parseRunOptions: %v", err)
	}
	if opts.revision != "v1" || opts.maxDepth != 9 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if len(rest) != 2 || rest[0] != "main.exp" || rest[1] != "--rev" {
		t.Fatalf("unexpected remaining args %v", rest)
	}

	for _, args := range [][]string{
		{"--rev"},
		{"--rev="},
		{"--max-depth", "0"},
		{"--max-depth=abc"},
	} {
		if _, _, err := parseRunOptions(args); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestEvalReplInput(t *testing.T) {
	interp := interpreter.New()
	var out, errOut bytes.Buffer

	step := func(code string) bool {
		t.Helper()
		out.Reset()
		errOut.Reset()
		return evalReplInput(interp, code, &out, &errOut)
	}

	if step("let x = 40;") || out.String() != "" || errOut.String() != "" {
		t.Fatalf("let: out=%q err=%q", out.String(), errOut.String())
	}
	step("x + 2")
	if out.String() != "42\n" {
		t.Fatalf("expression: out=%q err=%q", out.String(), errOut.String())
	}
	step(":env")
	if out.String() != "x = 40\n" {
		t.Fatalf(":env: out=%q", out.String())
	}
	step("func main() = { x = x + 1; x }")
	step(":main")
	if out.String() != "41\n" {
		t.Fatalf(":main: out=%q err=%q", out.String(), errOut.String())
	}
	step("let = 1")
	if !strings.HasPrefix(errOut.String(), "parser: line 1, column 5 ") {
		t.Fatalf("parse error: err=%q", errOut.String())
	}
	step("1 / 0")
	if errOut.String() != "runtime: line 1, column 1 DivideByZero: division by zero\n" {
		t.Fatalf("runtime error: err=%q", errOut.String())
	}
	step(":bogus")
	if !strings.Contains(errOut.String(), "unknown command :bogus") {
		t.Fatalf("unknown command: err=%q", errOut.String())
	}
	if !step(":quit") {
		t.Fatalf("expected :quit to end the session")
	}
}

func TestReplHistoryPathPrefersEnv(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "hist")
	t.Setenv(historyEnvVar, custom)
	if got := replHistoryPath(); got != custom {
		t.Fatalf("expected %s, got %s", custom, got)
	}
	t.Setenv(historyEnvVar, "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	if got := replHistoryPath(); got != filepath.Join(home, historyFileName) {
		t.Fatalf("unexpected default history path %s", got)
	}
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains:
// it changes the working directory and restores it when the test ends.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore Chdir: %v", err)
		}
	})
}
