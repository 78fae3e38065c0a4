// Package index implements the Git index (staging area) binary format,
// versions 2, 3 and 4: bit-packed entries, extension framing and the SHA-1
// checksum trailer.
package index

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/odvcencio/grit/pkg/object"
)

// Stage distinguishes conflicted versions of a path during a merge.
type Stage uint8

const (
	StageNone Stage = iota
	StageBase
	StageOurs
	StageTheirs
)

const (
	// entryFixedSize is the byte length of the fixed entry prefix: ten
	// big-endian u32 stat fields, the 20-byte hash and the 16-bit flags.
	entryFixedSize = 62

	// maxNameLength is the largest length storable in the 12-bit
	// name-length field. Longer names store 0xFFF and are read to NUL.
	maxNameLength = 0xFFF

	flagAssumeValid = 0x8000
	flagExtended    = 0x4000
	stageShift      = 12
	stageMask       = 0x3

	extFlagSkipWorktree = 0x4000
	extFlagIntentToAdd  = 0x2000
)

// Entry is one staged file: stat-cache metadata, the blob identifier and
// the bit-packed flag fields, bit-exact with Git's on-disk layout.
type Entry struct {
	// CTime and MTime are nanosecond ticks since the epoch; on disk each
	// is a (seconds, nanoseconds) pair of big-endian u32.
	CTime int64
	MTime int64

	Device   uint32
	Inode    uint32
	UID      uint32
	GID      uint32
	FileSize uint32

	// Mode is stored as a big-endian u32 whose meaningful low 16 bits are
	// 4-bit type, 3 zero bits and a 9-bit Unix permission.
	Mode object.FileMode

	ID object.ID

	AssumeValid  bool
	Stage        Stage
	SkipWorktree bool
	IntentToAdd  bool

	Path string
}

// extended reports whether the entry needs the extra 16-bit flag word.
func (e *Entry) extended() bool {
	return e.SkipWorktree || e.IntentToAdd
}

// splitTick decomposes a nanosecond tick into the on-disk pair.
func splitTick(tick int64) (sec, nsec uint32) {
	return uint32(tick / 1e9), uint32(tick % 1e9)
}

func joinTick(sec, nsec uint32) int64 {
	return int64(sec)*1e9 + int64(nsec)
}

// marshal appends the on-disk form of the entry for the given index
// version, including the version's trailing NUL/padding.
func (e *Entry) marshal(buf *bytes.Buffer, version uint32) error {
	if e.extended() && version < 3 {
		return fmt.Errorf("index entry %q: %w: extended flags need version >= 3", e.Path, ErrUnsupportedVersion)
	}

	var fixed [entryFixedSize]byte
	csec, cnsec := splitTick(e.CTime)
	msec, mnsec := splitTick(e.MTime)
	be := binary.BigEndian
	be.PutUint32(fixed[0:], csec)
	be.PutUint32(fixed[4:], cnsec)
	be.PutUint32(fixed[8:], msec)
	be.PutUint32(fixed[12:], mnsec)
	be.PutUint32(fixed[16:], e.Device)
	be.PutUint32(fixed[20:], e.Inode)
	be.PutUint32(fixed[24:], uint32(e.Mode.Packed()))
	be.PutUint32(fixed[28:], e.UID)
	be.PutUint32(fixed[32:], e.GID)
	be.PutUint32(fixed[36:], e.FileSize)
	copy(fixed[40:], e.ID[:])

	nameLen := len(e.Path)
	storedLen := nameLen
	if storedLen > maxNameLength {
		storedLen = maxNameLength
	}
	flags := uint16(storedLen)
	flags |= (uint16(e.Stage) & stageMask) << stageShift
	if e.AssumeValid {
		flags |= flagAssumeValid
	}
	if e.extended() {
		flags |= flagExtended
	}
	be.PutUint16(fixed[60:], flags)
	buf.Write(fixed[:])

	entryLen := entryFixedSize
	if version >= 3 && e.extended() {
		var ext uint16
		if e.SkipWorktree {
			ext |= extFlagSkipWorktree
		}
		if e.IntentToAdd {
			ext |= extFlagIntentToAdd
		}
		var extBytes [2]byte
		be.PutUint16(extBytes[:], ext)
		buf.Write(extBytes[:])
		entryLen += 2
	}

	buf.WriteString(e.Path)
	entryLen += nameLen

	if version == 4 {
		buf.WriteByte(0)
		return nil
	}
	pad := 8 - entryLen%8
	for i := 0; i < pad; i++ {
		buf.WriteByte(0)
	}
	return nil
}

// parseEntry reads one entry starting at data[pos] and returns the entry
// and the position of the next one.
func parseEntry(data []byte, pos int, version uint32) (*Entry, int, error) {
	if pos+entryFixedSize > len(data) {
		return nil, 0, ErrUnexpectedEOF
	}
	be := binary.BigEndian
	fixed := data[pos : pos+entryFixedSize]

	e := &Entry{
		CTime:    joinTick(be.Uint32(fixed[0:]), be.Uint32(fixed[4:])),
		MTime:    joinTick(be.Uint32(fixed[8:]), be.Uint32(fixed[12:])),
		Device:   be.Uint32(fixed[16:]),
		Inode:    be.Uint32(fixed[20:]),
		Mode:     object.FileModeFromPacked(uint16(be.Uint32(fixed[24:]))),
		UID:      be.Uint32(fixed[28:]),
		GID:      be.Uint32(fixed[32:]),
		FileSize: be.Uint32(fixed[36:]),
	}
	copy(e.ID[:], fixed[40:60])

	flags := be.Uint16(fixed[60:])
	e.AssumeValid = flags&flagAssumeValid != 0
	extended := flags&flagExtended != 0
	e.Stage = Stage((flags >> stageShift) & stageMask)
	storedLen := int(flags & maxNameLength)

	pos += entryFixedSize
	entryLen := entryFixedSize

	if extended && version >= 3 {
		if pos+2 > len(data) {
			return nil, 0, ErrUnexpectedEOF
		}
		ext := be.Uint16(data[pos:])
		e.SkipWorktree = ext&extFlagSkipWorktree != 0
		e.IntentToAdd = ext&extFlagIntentToAdd != 0
		pos += 2
		entryLen += 2
	}

	var nameLen int
	if storedLen < maxNameLength {
		if pos+storedLen > len(data) {
			return nil, 0, ErrUnexpectedEOF
		}
		nameLen = storedLen
	} else {
		nul := bytes.IndexByte(data[pos:], 0)
		if nul < 0 {
			return nil, 0, ErrUnexpectedEOF
		}
		nameLen = nul
	}
	e.Path = string(data[pos : pos+nameLen])
	pos += nameLen
	entryLen += nameLen

	if version == 4 {
		if pos >= len(data) || data[pos] != 0 {
			return nil, 0, ErrUnexpectedEOF
		}
		return e, pos + 1, nil
	}

	pad := 8 - entryLen%8
	if pos+pad > len(data) {
		return nil, 0, ErrUnexpectedEOF
	}
	for _, b := range data[pos : pos+pad] {
		if b != 0 {
			return nil, 0, fmt.Errorf("index entry %q: %w: non-zero padding", e.Path, ErrInvalidFormat)
		}
	}
	return e, pos + pad, nil
}

// less orders entries by path as unsigned bytes, breaking ties on stage.
func (e *Entry) less(other *Entry) bool {
	if e.Path != other.Path {
		return e.Path < other.Path
	}
	return e.Stage < other.Stage
}
