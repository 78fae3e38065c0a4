// Package repo ties the object store and the index to the repository
// filesystem layout: discovery, initial setup, index loading and the
// file-listing operations.
package repo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/odvcencio/grit/pkg/index"
	"github.com/odvcencio/grit/pkg/object"
)

var (
	ErrGitDirNotFound  = errors.New("not a git repository (or any of the parent directories)")
	ErrMissingWorktree = errors.New("operation requires a worktree")
	ErrEmptyValue      = errors.New("environment variable is set but empty")
)

const (
	envGitDir    = "GIT_DIR"
	envObjectDir = "GIT_OBJECT_DIRECTORY"

	gitDirName    = ".git"
	indexFileName = "index"

	// maxIndexSize caps the index read path, mirroring the object store
	// cap.
	maxIndexSize = 1 << 30
)

// Repo is an opened repository: the git directory, the optional worktree
// and the object store rooted under it.
type Repo struct {
	gitDir   string
	worktree string
	store    *object.Store
}

// envValue reads an environment variable as a per-operation parameter. A
// variable that is set but empty is an error.
func envValue(name string) (string, error) {
	val, ok := os.LookupEnv(name)
	if !ok {
		return "", nil
	}
	if val == "" {
		return "", fmt.Errorf("%s: %w", name, ErrEmptyValue)
	}
	return val, nil
}

// homeDir returns the halting directory for the upward search.
func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("USERPROFILE")
	}
	return os.Getenv("HOME")
}

// Open locates and opens a repository. GIT_DIR overrides the search;
// otherwise the walk climbs from startDir (or the current directory)
// looking for a .git entry, halting with ErrGitDirNotFound at the
// filesystem root or the user's home directory.
func Open(startDir string) (*Repo, error) {
	gitDir, err := locateGitDir(startDir)
	if err != nil {
		return nil, err
	}

	gitDir, err = canonical(gitDir)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	// The located directory must actually open.
	d, err := os.Open(gitDir)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	d.Close()

	r := &Repo{gitDir: gitDir}
	if filepath.Base(gitDir) == gitDirName {
		r.worktree = filepath.Dir(gitDir)
	}

	objectsDir, err := objectsDirFor(gitDir)
	if err != nil {
		return nil, err
	}
	r.store = object.NewStore(objectsDir)
	return r, nil
}

func locateGitDir(startDir string) (string, error) {
	override, err := envValue(envGitDir)
	if err != nil {
		return "", err
	}
	if override != "" {
		return override, nil
	}

	dir := startDir
	if dir == "" {
		dir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("locate git dir: %w", err)
		}
	}
	dir, err = canonical(dir)
	if err != nil {
		return "", fmt.Errorf("locate git dir: %w", err)
	}

	home := homeDir()
	if home != "" {
		if abs, err := canonical(home); err == nil {
			home = abs
		}
	}

	for {
		candidate := filepath.Join(dir, gitDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == home {
			return "", ErrGitDirNotFound
		}
		dir = parent
	}
}

func objectsDirFor(gitDir string) (string, error) {
	override, err := envValue(envObjectDir)
	if err != nil {
		return "", err
	}
	if override != "" {
		return override, nil
	}
	return filepath.Join(gitDir, "objects"), nil
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Name returns the canonical absolute path of the git directory.
func (r *Repo) Name() string {
	return r.gitDir
}

// Worktree returns the working-copy root, or "" for a bare repository.
func (r *Repo) Worktree() string {
	return r.worktree
}

// IsBare reports whether the repository has no worktree.
func (r *Repo) IsBare() bool {
	return r.worktree == ""
}

// ObjectStore returns the repository's loose-object store.
func (r *Repo) ObjectStore() *object.Store {
	return r.store
}

// LoadIndex reads and parses <git_dir>/index. A missing index file yields
// an empty version-2 index.
func (r *Repo) LoadIndex() (*index.Index, error) {
	f, err := os.Open(filepath.Join(r.gitDir, indexFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return index.New(2)
		}
		return nil, fmt.Errorf("load index: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxIndexSize+1))
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	if len(data) > maxIndexSize {
		return nil, fmt.Errorf("load index: %w", object.ErrObjectTooLarge)
	}

	ix, err := index.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return ix, nil
}
