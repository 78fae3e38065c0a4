package index

import (
	"encoding/binary"
	"fmt"
)

// ExtSparseDir marks an index containing sparse-directory entries. Its
// payload is empty.
const ExtSparseDir = "sdir"

// Extension is one framed index extension: a 4-byte signature, a big-endian
// u32 size and the payload. Unknown extensions whose signature starts with
// an ASCII uppercase letter are optional and round-trip opaquely.
type Extension struct {
	Signature [4]byte
	Payload   []byte
}

// Name returns the signature as text.
func (x Extension) Name() string {
	return string(x.Signature[:])
}

// optional reports whether an unrecognised extension may be ignored.
func (x Extension) optional() bool {
	return x.Signature[0] >= 'A' && x.Signature[0] <= 'Z'
}

func (x Extension) marshal(buf []byte) []byte {
	buf = append(buf, x.Signature[:]...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(x.Payload)))
	return append(buf, x.Payload...)
}

// parseExtension reads one extension starting at data[pos], which must end
// at or before limit.
func parseExtension(data []byte, pos, limit int) (Extension, int, error) {
	if pos+8 > limit {
		return Extension{}, 0, ErrUnexpectedEOF
	}
	var x Extension
	copy(x.Signature[:], data[pos:pos+4])
	size := int(binary.BigEndian.Uint32(data[pos+4 : pos+8]))
	pos += 8
	if pos+size > limit {
		return Extension{}, 0, ErrUnexpectedEOF
	}
	x.Payload = make([]byte, size)
	copy(x.Payload, data[pos:pos+size])
	pos += size

	switch {
	case x.Name() == ExtSparseDir:
		if size != 0 {
			return Extension{}, 0, fmt.Errorf("extension %s: %w: payload must be empty", x.Name(), ErrInvalidFormat)
		}
	case x.optional():
		// Tolerated and round-tripped opaquely.
	default:
		return Extension{}, 0, fmt.Errorf("extension %q: %w", x.Name(), ErrUnknownExtension)
	}
	return x, pos, nil
}
