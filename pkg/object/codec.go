package object

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/odvcencio/grit/pkg/hash"
)

// Encode frames a serialized payload as a loose object:
// "<type> <decimal-length>\0<payload>". The object identifier is the SHA-1
// of this frame, never of the payload alone.
func Encode(typ Type, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", typ, len(payload))
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	return append(out, payload...)
}

// HashEncoded computes the object identifier of an encoded frame.
func HashEncoded(encoded []byte) ID {
	var id ID
	copy(id[:], hash.SHA1.Sum(encoded))
	return id
}

// DecodeOptions controls frame validation.
type DecodeOptions struct {
	// ExpectedType, when non-empty, must match the decoded type tag.
	ExpectedType Type
	// ExpectedID, when non-nil, must equal the SHA-1 of the whole frame.
	ExpectedID *ID
	// AllowUnknownType retains an unrecognised type tag instead of
	// rejecting it.
	AllowUnknownType bool
}

// Decoded is the result of decoding a loose-object frame. For unknown type
// tags (AllowUnknownType), Type is empty and RawType carries the tag.
type Decoded struct {
	Data    []byte
	Type    Type
	RawType string
	Size    int
}

// Decode validates and splits a loose-object frame.
func Decode(raw []byte, opts DecodeOptions) (*Decoded, error) {
	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return nil, ErrMissingHeader
	}
	sp := bytes.IndexByte(raw, ' ')
	if sp < 0 || sp > nul {
		return nil, ErrMalformedHeader
	}

	typeStr := string(raw[:sp])
	lenStr := string(raw[sp+1 : nul])
	content := raw[nul+1:]

	if opts.ExpectedID != nil {
		if HashEncoded(raw) != *opts.ExpectedID {
			return nil, fmt.Errorf("%w: content does not hash to %s", ErrObjectIDMismatch, opts.ExpectedID)
		}
	}

	dec := &Decoded{Data: content, RawType: typeStr}
	typ, err := ParseType(typeStr)
	if err != nil {
		if !opts.AllowUnknownType {
			return nil, err
		}
	} else {
		dec.Type = typ
	}

	if opts.ExpectedType != "" && dec.Type != opts.ExpectedType {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrTypeMismatch, typeStr, opts.ExpectedType)
	}

	size, err := strconv.Atoi(lenStr)
	if err != nil || size < 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadLength, lenStr)
	}
	if size != len(content) {
		return nil, fmt.Errorf("%w: header=%d, actual=%d", ErrLengthMismatch, size, len(content))
	}
	dec.Size = size
	return dec, nil
}
