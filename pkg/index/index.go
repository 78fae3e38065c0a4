package index

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/grit/pkg/hash"
)

// Signature is the 4-byte magic opening every index file.
const Signature = "DIRC"

const headerSize = 12

var (
	ErrInvalidSignature   = errors.New("invalid index signature")
	ErrUnsupportedVersion = errors.New("unsupported index version")
	ErrInvalidChecksum    = errors.New("index checksum mismatch")
	ErrInvalidFormat      = errors.New("invalid index format")
	ErrUnexpectedEOF      = errors.New("unexpected end of index file")
	ErrUnknownExtension   = errors.New("unknown mandatory index extension")
)

// Index is the staging area: a versioned container of entries and
// extensions, protected by a SHA-1 trailer over all preceding bytes.
type Index struct {
	Version    uint32
	Entries    []*Entry
	Extensions []Extension

	// SparseDirs is set when the sdir extension is present.
	SparseDirs bool

	// Checksum is the trailer digest: populated by Parse, recomputed by
	// Marshal.
	Checksum [hash.SHA1DigestLength]byte
}

// New returns an empty index of the given version.
func New(version uint32) (*Index, error) {
	if version < 2 || version > 4 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	return &Index{Version: version}, nil
}

// Parse decodes a complete index file.
func Parse(data []byte) (*Index, error) {
	digestLen := hash.SHA1.DigestLength()
	if len(data) < headerSize+digestLen {
		return nil, ErrUnexpectedEOF
	}
	if string(data[:4]) != Signature {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSignature, data[:4])
	}
	version := binary.BigEndian.Uint32(data[4:8])
	if version < 2 || version > 4 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	entryCount := binary.BigEndian.Uint32(data[8:12])

	ix := &Index{Version: version}
	trailerStart := len(data) - digestLen

	pos := headerSize
	for i := uint32(0); i < entryCount; i++ {
		if pos > trailerStart {
			return nil, ErrUnexpectedEOF
		}
		entry, next, err := parseEntry(data[:trailerStart], pos, version)
		if err != nil {
			return nil, err
		}
		ix.Entries = append(ix.Entries, entry)
		pos = next
	}

	for pos < trailerStart {
		ext, next, err := parseExtension(data, pos, trailerStart)
		if err != nil {
			return nil, err
		}
		if ext.Name() == ExtSparseDir {
			ix.SparseDirs = true
		}
		ix.Extensions = append(ix.Extensions, ext)
		pos = next
	}
	if pos != trailerStart {
		return nil, fmt.Errorf("%w: trailing garbage before checksum", ErrInvalidFormat)
	}

	want := hash.SHA1.Sum(data[:trailerStart])
	if !bytes.Equal(want, data[trailerStart:]) {
		return nil, ErrInvalidChecksum
	}
	copy(ix.Checksum[:], data[trailerStart:])
	return ix, nil
}

// Marshal encodes the index, recomputing and appending the checksum
// trailer. Entries are written in stored order; callers maintain the sort
// invariant.
func (ix *Index) Marshal() ([]byte, error) {
	if ix.Version < 2 || ix.Version > 4 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, ix.Version)
	}

	var buf bytes.Buffer
	buf.WriteString(Signature)
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:], ix.Version)
	binary.BigEndian.PutUint32(header[4:], uint32(len(ix.Entries)))
	buf.Write(header[:])

	for _, e := range ix.Entries {
		if err := e.marshal(&buf, ix.Version); err != nil {
			return nil, err
		}
	}
	for _, x := range ix.Extensions {
		buf.Write(x.marshal(nil))
	}

	sum := hash.SHA1.Sum(buf.Bytes())
	copy(ix.Checksum[:], sum)
	buf.Write(sum)
	return buf.Bytes(), nil
}

// Sort restores the container invariant: ascending by path as unsigned
// bytes, ties broken by stage.
func (ix *Index) Sort() {
	sort.SliceStable(ix.Entries, func(i, j int) bool {
		return ix.Entries[i].less(ix.Entries[j])
	})
}

// Contains reports whether any entry records the given path.
func (ix *Index) Contains(path string) bool {
	for _, e := range ix.Entries {
		if e.Path == path {
			return true
		}
	}
	return false
}

// ContainsPrefix reports whether the given path is a directory prefix of a
// tracked entry, i.e. some entry lives under path/. An on-disk file at such
// a path blocks materialising the tracked entries (the "killed" set).
func (ix *Index) ContainsPrefix(path string) bool {
	prefix := path + "/"
	for _, e := range ix.Entries {
		if strings.HasPrefix(e.Path, prefix) {
			return true
		}
	}
	return false
}

// EntryForPath returns the entry recorded for path at the given stage, or
// nil.
func (ix *Index) EntryForPath(path string, stage Stage) *Entry {
	for _, e := range ix.Entries {
		if e.Path == path && e.Stage == stage {
			return e
		}
	}
	return nil
}
