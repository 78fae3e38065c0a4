package object

import (
	"fmt"
	"strconv"
)

// FileMode is a tree-entry mode: a 4-bit object type and a 9-bit Unix
// permission, as written in octal on tree entries.
type FileMode uint32

const (
	ModeTree       FileMode = 0o040000
	ModeBlob       FileMode = 0o100644
	ModeExecutable FileMode = 0o100755
	ModeSymlink    FileMode = 0o120000
	ModeSubmodule  FileMode = 0o160000
)

// modeBlobGroupWritable is a historical mode some old trees carry; it decodes
// as a plain blob.
const modeBlobGroupWritable FileMode = 0o100664

// ParseFileMode parses the octal mode text of a tree entry.
func ParseFileMode(s string) (FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFileMode, s)
	}
	switch FileMode(n) {
	case ModeTree, ModeBlob, ModeExecutable, ModeSymlink, ModeSubmodule:
		return FileMode(n), nil
	case modeBlobGroupWritable:
		return ModeBlob, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidFileMode, s)
}

// String returns the octal form as written in tree entries. Trees print
// without a leading zero ("40000").
func (m FileMode) String() string {
	return strconv.FormatUint(uint64(m), 8)
}

// IsTree reports whether the mode names a subtree.
func (m FileMode) IsTree() bool {
	return m == ModeTree
}

// Packed returns the low 16 bits as stored in index entries.
func (m FileMode) Packed() uint16 {
	return uint16(m)
}

// FileModeFromPacked rebuilds a mode from the 16-bit index encoding.
func FileModeFromPacked(packed uint16) FileMode {
	return FileMode(packed)
}
