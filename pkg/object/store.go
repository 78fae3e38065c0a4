package object

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zlib"
)

// MaxObjectSize caps both the inflate and deflate paths at 1 GiB.
const MaxObjectSize = 1 << 30

// ErrObjectTooLarge is returned when an object exceeds MaxObjectSize.
var ErrObjectTooLarge = errors.New("object exceeds maximum size")

const (
	tmpPrefix    = "tmp_obj_"
	tmpSuffixLen = 6
	tmpAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Store is the loose-object backend: a content-addressed key-value store
// keyed by full hex object name, with a 2-character fan-out layout
// objects/ab/cdef0123... Values are zlib-deflated encoded frames. The store
// receives complete hex names; it never computes them.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at the given objects directory.
func NewStore(objectsDir string) *Store {
	return &Store{dir: objectsDir}
}

// Dir returns the objects directory root.
func (s *Store) Dir() string {
	return s.dir
}

// Setup creates the info/ and pack/ subdirectories. Idempotent.
func (s *Store) Setup() error {
	for _, sub := range []string{"info", "pack"} {
		if err := os.MkdirAll(filepath.Join(s.dir, sub), 0o755); err != nil {
			return fmt.Errorf("store setup: %w", err)
		}
	}
	return nil
}

// objectPath returns the sharded path for a full hex name.
func (s *Store) objectPath(name string) string {
	return filepath.Join(s.dir, name[:2], name[2:])
}

// Has reports whether an object with the given hex name exists.
func (s *Store) Has(name string) bool {
	_, err := os.Stat(s.objectPath(name))
	return err == nil
}

// Read opens the object file for the given hex name and streams it through
// zlib inflate, up to MaxObjectSize. A missing object surfaces the
// filesystem's not-exist error.
func (s *Store) Read(name string) ([]byte, error) {
	f, err := os.Open(s.objectPath(name))
	if err != nil {
		return nil, fmt.Errorf("object read %s: %w", name, err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("object read %s: inflate: %w", name, err)
	}
	defer zr.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(zr, MaxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("object read %s: inflate: %w", name, err)
	}
	if n > MaxObjectSize {
		return nil, fmt.Errorf("object read %s: %w", name, ErrObjectTooLarge)
	}
	return buf.Bytes(), nil
}

// Write stores the encoded frame under the given hex name. An existing
// target is a silent no-op: the store is content-addressed, so an existing
// name implies existing content. Otherwise the frame is deflated into an
// exclusively created temporary file in the shard directory and renamed
// into place. Losing a concurrent rename race is success.
func (s *Store) Write(name string, encoded []byte) error {
	if len(encoded) > MaxObjectSize {
		return fmt.Errorf("object write %s: %w", name, ErrObjectTooLarge)
	}
	if s.Has(name) {
		return nil
	}

	shard := filepath.Join(s.dir, name[:2])
	if err := os.MkdirAll(shard, 0o755); err != nil {
		return fmt.Errorf("object write %s: mkdir: %w", name, err)
	}

	tmpName := filepath.Join(shard, tmpPrefix+randomSuffix())
	tmp, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("object write %s: tmpfile: %w", name, err)
	}

	zw := zlib.NewWriter(tmp)
	if _, err := zw.Write(encoded); err != nil {
		zw.Close()
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("object write %s: deflate: %w", name, err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("object write %s: deflate close: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("object write %s: flush: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("object write %s: close: %w", name, err)
	}

	dest := s.objectPath(name)
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		// A concurrent writer winning the race produced identical
		// content, so losing it is success.
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("object write %s: rename: %w", name, err)
	}
	return nil
}

func randomSuffix() string {
	out := make([]byte, tmpSuffixLen)
	for i := range out {
		out[i] = tmpAlphabet[rand.Intn(len(tmpAlphabet))]
	}
	return string(out)
}
