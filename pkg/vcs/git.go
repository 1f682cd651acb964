package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// Runner executes a git command in dir and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct{}

// Run executes git with args in dir. Stderr is included in the error on failure.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var outb, errb bytes.Buffer
	cmd.Stdout = &outb
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to run git %s: %w - %s", args[0], err, strings.TrimSpace(errb.String()))
	}

	return outb.String(), nil
}

// Repository is a git working tree.
type Repository struct {
	dir    string
	runner Runner
}

// Open returns a repository rooted at dir using the git binary.
func Open(dir string) *Repository {
	return NewRepository(dir, ExecRunner{})
}

// NewRepository returns a repository that runs git through runner.
func NewRepository(dir string, runner Runner) *Repository {
	return &Repository{dir: dir, runner: runner}
}

// Root returns the top-level directory of the working tree.
func (r *Repository) Root(ctx context.Context) (string, error) {
	out, err := r.runner.Run(ctx, r.dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ConflictedFiles lists the files git reports as unmerged, relative to the
// repository directory.
func (r *Repository) ConflictedFiles(ctx context.Context) ([]string, error) {
	out, err := r.runner.Run(ctx, r.dir, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicted files: %w", err)
	}
	return parseNameList(out), nil
}

// Path joins a repository relative path with the repository directory.
func (r *Repository) Path(rel string) string {
	return filepath.Join(r.dir, filepath.FromSlash(rel))
}

// Stage marks files as resolved.
func (r *Repository) Stage(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	if _, err := r.runner.Run(ctx, r.dir, args...); err != nil {
		return fmt.Errorf("failed to stage resolved files: %w", err)
	}
	return nil
}

func parseNameList(out string) []string {
	lines := strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	names := lo.FilterMap(lines, func(l string, _ int) (string, bool) {
		l = strings.TrimSpace(l)
		return l, l != ""
	})
	return lo.Uniq(names)
}
