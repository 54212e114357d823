package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project manifest looked up by FindManifest.
const ManifestFileName = "exp.yml"

// DefaultMain is the entry file used when a manifest names none.
const DefaultMain = "main.exp"

// ErrManifestNotFound is returned by FindManifest when no exp.yml exists in
// the start directory or any of its parents.
var ErrManifestNotFound = errors.New("manifest: exp.yml not found")

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+([-+][0-9A-Za-z.+-]+)?$`)

// Manifest represents the parsed contents of exp.yml.
type Manifest struct {
	Path    string
	Name    string
	Version string
	Main    string
	Rev     string
	Limits  Limits
}

// Limits carries interpreter resource limits; zero means the default.
type Limits struct {
	MaxCallDepth int
}

type manifestFile struct {
	Name    string          `yaml:"name"`
	Version string          `yaml:"version,omitempty"`
	Main    string          `yaml:"main,omitempty"`
	Rev     string          `yaml:"rev,omitempty"`
	Limits  *manifestLimits `yaml:"limits,omitempty"`
}

type manifestLimits struct {
	MaxCallDepth int `yaml:"max_call_depth,omitempty"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// FindManifest walks from start up to the filesystem root and returns the
// path of the first exp.yml it finds.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("manifest: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}

// LoadManifest parses exp.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// WriteManifest validates m and writes it to path as YAML.
func WriteManifest(path string, m *Manifest) error {
	if m == nil {
		return fmt.Errorf("manifest: nil manifest")
	}
	if err := m.validate(); err != nil {
		return err
	}
	raw := manifestFile{
		Name:    m.Name,
		Version: m.Version,
		Main:    m.Main,
		Rev:     m.Rev,
	}
	if m.Limits.MaxCallDepth > 0 {
		raw.Limits = &manifestLimits{MaxCallDepth: m.Limits.MaxCallDepth}
	}
	data, err := yaml.Marshal(&raw)
	if err != nil {
		return fmt.Errorf("manifest: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}

func (raw manifestFile) toManifest(path string) *Manifest {
	m := &Manifest{
		Path:    path,
		Name:    strings.TrimSpace(raw.Name),
		Version: strings.TrimSpace(raw.Version),
		Main:    strings.TrimSpace(raw.Main),
		Rev:     strings.TrimSpace(raw.Rev),
	}
	if raw.Limits != nil {
		m.Limits.MaxCallDepth = raw.Limits.MaxCallDepth
	}
	return m
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Version != "" && !versionPattern.MatchString(m.Version) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("version %q is not a semantic version", m.Version))
	}
	if m.Main != "" {
		if filepath.IsAbs(m.Main) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("main %q must be relative to the manifest", m.Main))
		}
		if filepath.Ext(m.Main) != ".exp" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("main %q must be an .exp file", m.Main))
		}
	}
	if m.Limits.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "limits.max_call_depth must not be negative")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// EntryPath resolves the main entry file against the manifest directory.
func (m *Manifest) EntryPath() string {
	main := m.Main
	if main == "" {
		main = DefaultMain
	}
	return filepath.Join(m.Dir(), filepath.FromSlash(main))
}
