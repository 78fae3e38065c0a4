// Package object implements the Git object model: the four object kinds and
// their canonical serializations, the loose-object codec, the content-addressed
// store, and the object-level operations built on top of them.
package object

import (
	"bytes"
	"fmt"

	"github.com/odvcencio/grit/pkg/hash"
)

// IDLength is the byte width of an object identifier (SHA-1).
const IDLength = 20

// ID is a fixed-width binary object identifier: the SHA-1 of the encoded
// loose-object frame.
type ID [IDLength]byte

// ParseID parses a 40-character hex object name. Uppercase hex is accepted;
// output is always lowercase.
func ParseID(s string) (ID, error) {
	var id ID
	raw, err := hash.ParseHex(s, hash.SHA1)
	if err != nil {
		return id, err
	}
	copy(id[:], raw)
	return id, nil
}

// IDFromBytes builds an ID from a raw 20-byte digest.
func IDFromBytes(raw []byte) (ID, error) {
	var id ID
	if len(raw) != IDLength {
		return id, hash.ErrInvalidBufferLength
	}
	copy(id[:], raw)
	return id, nil
}

// String returns the lowercase hex form.
func (id ID) String() string {
	return hash.EncodeHex(id[:])
}

// Equal reports byte equality.
func (id ID) Equal(other ID) bool {
	return id == other
}

// Compare orders identifiers by their raw bytes.
func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

// IsZero reports whether the identifier is the all-zero value.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Type identifies the kind of a stored object.
type Type string

const (
	TypeBlob   Type = "blob"
	TypeCommit Type = "commit"
	TypeTag    Type = "tag"
	TypeTree   Type = "tree"
)

// ParseType parses the textual type tag from an encoded header. Only the
// four canonical names are accepted.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeBlob, TypeCommit, TypeTag, TypeTree:
		return Type(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

func (t Type) String() string {
	return string(t)
}
