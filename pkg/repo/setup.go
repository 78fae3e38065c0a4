package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/grit/pkg/object"
)

// DefaultBranch is the initial branch name used when none is given.
const DefaultBranch = "main"

// SetupOptions controls repository creation.
type SetupOptions struct {
	// Name is the directory to create the repository in; empty means the
	// current directory.
	Name string
	// InitialBranch names the branch HEAD points at; defaults to
	// DefaultBranch.
	InitialBranch string
	// Bare creates the repository without a worktree: the target
	// directory is the git directory itself.
	Bare bool
}

// Setup creates the repository filesystem layout: the git directory,
// refs/heads, refs/tags, the object-store directories and HEAD. Running it
// on an existing repository never overwrites existing data.
func Setup(opts SetupOptions) (*Repo, error) {
	branch := opts.InitialBranch
	if branch == "" {
		branch = DefaultBranch
	}

	if opts.Name != "" {
		if err := os.MkdirAll(opts.Name, 0o755); err != nil {
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	base := opts.Name
	if base == "" {
		base = "."
	}

	gitDir, err := setupTarget(base, opts.Bare)
	if err != nil {
		return nil, err
	}

	dirs := []string{
		gitDir,
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("setup: mkdir %s: %w", d, err)
		}
	}

	store := object.NewStore(filepath.Join(gitDir, "objects"))
	if err := store.Setup(); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	if err := writeHead(gitDir, branch); err != nil {
		return nil, err
	}

	canon, err := canonical(gitDir)
	if err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	r := &Repo{gitDir: canon, store: store}
	if filepath.Base(canon) == gitDirName {
		r.worktree = filepath.Dir(canon)
	}
	return r, nil
}

// setupTarget resolves the git directory to create: for non-bare
// repositories <base>/.git, overridden by GIT_DIR; for bare repositories
// the base itself.
func setupTarget(base string, bare bool) (string, error) {
	if bare {
		return base, nil
	}
	override, err := envValue(envGitDir)
	if err != nil {
		return "", err
	}
	if override != "" {
		return override, nil
	}
	return filepath.Join(base, gitDirName), nil
}

// writeHead creates HEAD exclusively; an existing HEAD is left untouched.
func writeHead(gitDir, branch string) error {
	path := filepath.Join(gitDir, "HEAD")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("setup: create HEAD: %w", err)
	}
	content := fmt.Sprintf("ref: refs/heads/%s\n", branch)
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("setup: write HEAD: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("setup: close HEAD: %w", err)
	}
	return nil
}
