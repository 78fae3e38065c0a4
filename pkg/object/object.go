package object

import (
	"fmt"
	"io"
)

// Object is the sum type over the four object kinds. The encoded-form type
// tag is the discriminant; dispatch happens by type switch.
type Object interface {
	// Kind returns the discriminant tag.
	Kind() Type
	// Marshal produces the canonical serialization (the loose-object
	// payload, before framing).
	Marshal() []byte
}

// Unmarshal dispatches to the typed deserializer for the given kind.
func Unmarshal(typ Type, data []byte) (Object, error) {
	switch typ {
	case TypeBlob:
		return UnmarshalBlob(data)
	case TypeTree:
		return UnmarshalTree(data)
	case TypeCommit:
		return UnmarshalCommit(data)
	case TypeTag:
		return UnmarshalTag(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
}

// Format writes the human-readable rendering of an object, as printed by
// cat-file -p. Blobs, commits and tags print their payload verbatim; trees
// print one entry per line.
func Format(w io.Writer, obj Object) error {
	switch o := obj.(type) {
	case *Tree:
		for _, e := range o.Entries {
			if _, err := fmt.Fprintf(w, "%06o %s %s\t%s\n", uint32(e.Mode), entryKind(e.Mode), e.ID, e.Name); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := w.Write(obj.Marshal())
		return err
	}
}

func entryKind(m FileMode) Type {
	switch m {
	case ModeTree:
		return TypeTree
	case ModeSubmodule:
		return TypeCommit
	default:
		return TypeBlob
	}
}
