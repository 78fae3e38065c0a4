package object

import (
	"bytes"
	"fmt"
	"sort"
)

// TreeEntry is one entry in a tree object: "<octal-mode> <name>\0<20-byte-id>".
type TreeEntry struct {
	Mode FileMode
	Name []byte
	ID   ID
}

// sortKey is the effective ordering key: subtree entries compare as if their
// name ended in '/'.
func (e TreeEntry) sortKey() []byte {
	if e.Mode.IsTree() {
		key := make([]byte, len(e.Name)+1)
		copy(key, e.Name)
		key[len(e.Name)] = '/'
		return key
	}
	return e.Name
}

// Tree is an ordered list of entries. Marshal always emits entries in
// canonical order.
type Tree struct {
	Entries []TreeEntry
}

func (t *Tree) Kind() Type {
	return TypeTree
}

// SortEntries orders entries by their effective key; equal keys break the
// tie with the shorter name first.
func (t *Tree) SortEntries() {
	sort.SliceStable(t.Entries, func(i, j int) bool {
		ki, kj := t.Entries[i].sortKey(), t.Entries[j].sortKey()
		if c := bytes.Compare(ki, kj); c != 0 {
			return c < 0
		}
		return len(t.Entries[i].Name) < len(t.Entries[j].Name)
	})
}

// Marshal serializes the tree: sorted entries concatenated without
// separators.
func (t *Tree) Marshal() []byte {
	sorted := &Tree{Entries: make([]TreeEntry, len(t.Entries))}
	copy(sorted.Entries, t.Entries)
	sorted.SortEntries()

	var buf bytes.Buffer
	for _, e := range sorted.Entries {
		buf.WriteString(e.Mode.String())
		buf.WriteByte(' ')
		buf.Write(e.Name)
		buf.WriteByte(0)
		buf.Write(e.ID[:])
	}
	return buf.Bytes()
}

// UnmarshalTree parses the canonical tree serialization.
func UnmarshalTree(data []byte) (*Tree, error) {
	tr := &Tree{}
	rest := data
	for len(rest) > 0 {
		sp := bytes.IndexByte(rest, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("unmarshal tree: %w: missing mode separator", ErrInvalidObject)
		}
		mode, err := ParseFileMode(string(rest[:sp]))
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w", err)
		}
		rest = rest[sp+1:]

		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, fmt.Errorf("unmarshal tree: %w: missing name terminator", ErrInvalidObject)
		}
		name := make([]byte, nul)
		copy(name, rest[:nul])
		rest = rest[nul+1:]

		if len(rest) < IDLength {
			return nil, fmt.Errorf("unmarshal tree: %w: truncated object id", ErrInvalidObject)
		}
		var id ID
		copy(id[:], rest[:IDLength])
		rest = rest[IDLength:]

		tr.Entries = append(tr.Entries, TreeEntry{Mode: mode, Name: name, ID: id})
	}
	return tr, nil
}
