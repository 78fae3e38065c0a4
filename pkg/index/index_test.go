package index

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/odvcencio/grit/pkg/hash"
	"github.com/odvcencio/grit/pkg/object"
)

func testEntryID(b byte) object.ID {
	var id object.ID
	for i := range id {
		id[i] = b
	}
	return id
}

func sampleEntry(path string) *Entry {
	return &Entry{
		CTime:    1640995200 * 1e9,
		MTime:    1640995200*1e9 + 123456789,
		Device:   64,
		Inode:    4242,
		UID:      1000,
		GID:      1000,
		FileSize: 2,
		Mode:     object.ModeBlob,
		ID:       testEntryID(0x5a),
		Path:     path,
	}
}

func mustMarshal(t *testing.T, ix *Index) []byte {
	t.Helper()
	data, err := ix.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return data
}

func TestIndexNewVersionBounds(t *testing.T) {
	for _, v := range []uint32{2, 3, 4} {
		if _, err := New(v); err != nil {
			t.Errorf("New(%d): %v", v, err)
		}
	}
	for _, v := range []uint32{0, 1, 5} {
		if _, err := New(v); !errors.Is(err, ErrUnsupportedVersion) {
			t.Errorf("New(%d): got %v, want ErrUnsupportedVersion", v, err)
		}
	}
}

func TestIndexRoundTripV2(t *testing.T) {
	ix, err := New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ix.Entries = []*Entry{sampleEntry("a.txt"), sampleEntry("dir/b.txt")}
	ix.Entries[1].Mode = object.ModeExecutable
	ix.Entries[1].AssumeValid = true

	data := mustMarshal(t, ix)
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("Version: got %d", got.Version)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(got.Entries))
	}
	for i, want := range ix.Entries {
		e := got.Entries[i]
		if e.Path != want.Path || e.CTime != want.CTime || e.MTime != want.MTime ||
			e.Device != want.Device || e.Inode != want.Inode ||
			e.UID != want.UID || e.GID != want.GID ||
			e.FileSize != want.FileSize || e.Mode != want.Mode ||
			e.ID != want.ID || e.AssumeValid != want.AssumeValid {
			t.Errorf("entry %d mismatch:\ngot  %+v\nwant %+v", i, e, want)
		}
	}

	// Serializing the parsed form reproduces the input bit for bit.
	if again := mustMarshal(t, got); !bytes.Equal(again, data) {
		t.Error("re-marshal differs from original bytes")
	}
}

func TestIndexSingleEntryLength(t *testing.T) {
	// Header (12) + fixed prefix (62) + 8-byte name + 2-byte pad + trailer
	// (20) for an 8-character path under version 2.
	ix, _ := New(2)
	ix.Entries = []*Entry{sampleEntry("test.txt")}
	data := mustMarshal(t, ix)
	if len(data) != 104 {
		t.Errorf("serialized length: got %d, want 104", len(data))
	}
	// Entry region must be NUL-padded to a multiple of 8.
	if (len(data)-12-20)%8 != 0 {
		t.Errorf("entry region not 8-byte aligned: %d", len(data)-32)
	}
}

func TestIndexPaddingByVersion(t *testing.T) {
	// Name lengths chosen so that entryFixedSize+len is and is not already
	// a multiple of 8; padding is always 1..8 NULs for v2/v3.
	for _, path := range []string{"a", "ab", "abcdef", "abcdefgh12"} {
		ix, _ := New(2)
		ix.Entries = []*Entry{sampleEntry(path)}
		data := mustMarshal(t, ix)
		entryRegion := len(data) - 12 - 20
		if entryRegion%8 != 0 {
			t.Errorf("path %q: entry region %d not aligned", path, entryRegion)
		}
		pad := entryRegion - 62 - len(path)
		if pad < 1 || pad > 8 {
			t.Errorf("path %q: pad %d outside 1..8", path, pad)
		}
	}

	// Version 4 writes exactly one NUL after the name.
	ix, _ := New(4)
	ix.Entries = []*Entry{sampleEntry("test.txt")}
	data := mustMarshal(t, ix)
	if want := 12 + 62 + len("test.txt") + 1 + 20; len(data) != want {
		t.Errorf("v4 length: got %d, want %d", len(data), want)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse v4: %v", err)
	}
	if got.Entries[0].Path != "test.txt" {
		t.Errorf("v4 path: got %q", got.Entries[0].Path)
	}
}

func TestIndexNameLengthBoundary(t *testing.T) {
	// 0xFFE stores the exact length; 0xFFF and beyond store the cap and
	// the reader scans to the NUL terminator.
	for _, n := range []int{0xffe, 0xfff, 0x1100} {
		path := strings.Repeat("p", n)
		ix, _ := New(2)
		ix.Entries = []*Entry{sampleEntry(path)}
		data := mustMarshal(t, ix)
		got, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse (name length %d): %v", n, err)
		}
		if got.Entries[0].Path != path {
			t.Errorf("name length %d: path mangled (got %d bytes)", n, len(got.Entries[0].Path))
		}
	}
}

func TestIndexStageRoundTrip(t *testing.T) {
	ix, _ := New(2)
	for stage := StageNone; stage <= StageTheirs; stage++ {
		e := sampleEntry("conflicted.txt")
		e.Stage = stage
		ix.Entries = append(ix.Entries, e)
	}
	got, err := Parse(mustMarshal(t, ix))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i, e := range got.Entries {
		if e.Stage != Stage(i) {
			t.Errorf("entry %d: stage got %d, want %d", i, e.Stage, i)
		}
	}
}

func TestIndexExtendedFlagsV3(t *testing.T) {
	ix, _ := New(3)
	skip := sampleEntry("skipped.txt")
	skip.SkipWorktree = true
	add := sampleEntry("added.txt")
	add.IntentToAdd = true
	plain := sampleEntry("plain.txt")
	ix.Entries = []*Entry{add, plain, skip}

	got, err := Parse(mustMarshal(t, ix))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !got.Entries[0].IntentToAdd || got.Entries[0].SkipWorktree {
		t.Errorf("added.txt flags: %+v", got.Entries[0])
	}
	if got.Entries[1].IntentToAdd || got.Entries[1].SkipWorktree {
		t.Errorf("plain.txt flags: %+v", got.Entries[1])
	}
	if !got.Entries[2].SkipWorktree || got.Entries[2].IntentToAdd {
		t.Errorf("skipped.txt flags: %+v", got.Entries[2])
	}
}

func TestIndexExtendedFlagsRejectedOnV2(t *testing.T) {
	ix, _ := New(2)
	e := sampleEntry("skipped.txt")
	e.SkipWorktree = true
	ix.Entries = []*Entry{e}
	if _, err := ix.Marshal(); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Marshal: got %v, want ErrUnsupportedVersion", err)
	}
}

func TestIndexChecksumTrailer(t *testing.T) {
	ix, _ := New(2)
	ix.Entries = []*Entry{sampleEntry("test.txt")}
	data := mustMarshal(t, ix)

	digestLen := hash.SHA1.DigestLength()
	want := hash.SHA1.Sum(data[:len(data)-digestLen])
	if !bytes.Equal(data[len(data)-digestLen:], want) {
		t.Error("trailer is not the SHA-1 of the preceding bytes")
	}
	if !bytes.Equal(ix.Checksum[:], want) {
		t.Error("Marshal did not record the recomputed checksum")
	}
}

func TestIndexParseErrors(t *testing.T) {
	ix, _ := New(2)
	ix.Entries = []*Entry{sampleEntry("test.txt")}
	valid := mustMarshal(t, ix)

	corruptSig := bytes.Clone(valid)
	copy(corruptSig, "XIRC")

	badVersion := bytes.Clone(valid)
	binary.BigEndian.PutUint32(badVersion[4:8], 7)
	// The version check fires before the checksum is verified.

	badChecksum := bytes.Clone(valid)
	badChecksum[len(badChecksum)-1] ^= 0xff

	badPadding := bytes.Clone(valid)
	badPadding[len(badPadding)-21] = 'x' // last padding byte of the entry
	sum := hash.SHA1.Sum(badPadding[:len(badPadding)-20])
	copy(badPadding[len(badPadding)-20:], sum)

	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"empty", nil, ErrUnexpectedEOF},
		{"short", valid[:20], ErrUnexpectedEOF},
		{"bad signature", corruptSig, ErrInvalidSignature},
		{"bad version", badVersion, ErrUnsupportedVersion},
		{"bad checksum", badChecksum, ErrInvalidChecksum},
		{"truncated entry", append(bytes.Clone(valid[:40]), valid[len(valid)-20:]...), ErrUnexpectedEOF},
		{"non-zero padding", badPadding, ErrInvalidFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.input); !errors.Is(err, tc.want) {
				t.Errorf("Parse: got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestIndexSortInvariant(t *testing.T) {
	ix, _ := New(2)
	base := sampleEntry("b.txt")
	base.Stage = StageBase
	ours := sampleEntry("b.txt")
	ours.Stage = StageOurs
	ix.Entries = []*Entry{ours, sampleEntry("c.txt"), base, sampleEntry("a.txt")}
	ix.Sort()

	wantPaths := []string{"a.txt", "b.txt", "b.txt", "c.txt"}
	for i, e := range ix.Entries {
		if e.Path != wantPaths[i] {
			t.Fatalf("sort: position %d got %q, want %q", i, e.Path, wantPaths[i])
		}
	}
	if ix.Entries[1].Stage != StageBase || ix.Entries[2].Stage != StageOurs {
		t.Error("stage tie-break violated")
	}
}

func TestIndexLookups(t *testing.T) {
	ix, _ := New(2)
	ix.Entries = []*Entry{
		sampleEntry("dir/sub/file.txt"),
		sampleEntry("top.txt"),
	}

	if !ix.Contains("top.txt") {
		t.Error("Contains(top.txt) = false")
	}
	if ix.Contains("dir") {
		t.Error("Contains(dir) matched a prefix, not a path")
	}
	if !ix.ContainsPrefix("dir") || !ix.ContainsPrefix("dir/sub") {
		t.Error("ContainsPrefix missed a tracked directory prefix")
	}
	if ix.ContainsPrefix("top.txt") {
		t.Error("ContainsPrefix matched a plain file")
	}
	if ix.ContainsPrefix("di") {
		t.Error("ContainsPrefix matched a partial component")
	}

	if e := ix.EntryForPath("top.txt", StageNone); e == nil {
		t.Error("EntryForPath missed top.txt")
	}
	if e := ix.EntryForPath("top.txt", StageOurs); e != nil {
		t.Error("EntryForPath matched the wrong stage")
	}
}
