package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/SkyArrow256/exp-lang/pkg/ast"
	"github.com/SkyArrow256/exp-lang/pkg/parser"
)

// Source is a loaded and parsed program.
type Source struct {
	Path string
	// Commit is the resolved commit hash when the source came from git.
	Commit  string
	Program *ast.Program
}

// Loader reads and parses the program at path.
type Loader interface {
	Load(path string) (*Source, error)
}

// FileLoader reads programs from the working tree.
type FileLoader struct{}

func (FileLoader) Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return parseSource(path, string(data), "")
}

// GitLoader reads programs as they exist at a git revision of the repository
// that encloses them. Revision accepts anything go-git can resolve: hashes,
// tags, branches and suffixes like HEAD~1.
type GitLoader struct {
	Revision string
}

func (l GitLoader) Load(path string) (*Source, error) {
	revision := strings.TrimSpace(l.Revision)
	if revision == "" {
		revision = "HEAD"
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	repo, err := git.PlainOpenWithOptions(filepath.Dir(absPath), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("loader: open repository for %s: %w", path, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("loader: worktree for %s: %w", path, err)
	}
	rel, err := filepath.Rel(worktree.Filesystem.Root(), absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("loader: %s is outside repository %s", path, worktree.Filesystem.Root())
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("loader: resolve revision %s: %w", revision, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("loader: read commit %s: %w", hash, err)
	}
	file, err := commit.File(filepath.ToSlash(rel))
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("loader: %s does not exist at revision %s", filepath.ToSlash(rel), revision)
		}
		return nil, fmt.Errorf("loader: read %s at %s: %w", rel, revision, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("loader: read %s at %s: %w", rel, revision, err)
	}
	return parseSource(path, contents, hash.String())
}

func parseSource(path, text, commit string) (*Source, error) {
	program, err := parser.Parse(text)
	if err != nil {
		return nil, NewParserDiagnosticError(path, err)
	}
	return &Source{Path: path, Commit: commit, Program: program}, nil
}

// LoaderFor picks the git loader when a revision is requested.
func LoaderFor(revision string) Loader {
	if strings.TrimSpace(revision) != "" {
		return GitLoader{Revision: revision}
	}
	return FileLoader{}
}
