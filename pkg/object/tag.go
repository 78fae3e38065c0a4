package object

import (
	"bytes"
	"fmt"
	"strings"
)

// Tag is an annotated tag: a named, signed pointer at another object.
type Tag struct {
	Object     ID
	ObjectType Type
	Name       []byte
	Tagger     Signature
	Message    []byte
}

func (t *Tag) Kind() Type {
	return TypeTag
}

// Marshal serializes the tag with headers object, type, tag, tagger, then a
// blank line and the message.
func (t *Tag) Marshal() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "object %s\n", t.Object)
	fmt.Fprintf(&buf, "type %s\n", t.ObjectType)
	fmt.Fprintf(&buf, "tag %s\n", t.Name)
	fmt.Fprintf(&buf, "tagger %s\n", t.Tagger)
	buf.WriteByte('\n')
	buf.Write(t.Message)
	return buf.Bytes()
}

// UnmarshalTag parses a tag. All four headers are required.
func UnmarshalTag(data []byte) (*Tag, error) {
	header, message, err := splitHeader(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal tag: %w", ErrInvalidTagFormat)
	}

	t := &Tag{Message: message}
	var haveObject, haveType, haveName, haveTagger bool
	for _, line := range strings.Split(header, "\n") {
		key, val, _ := strings.Cut(line, " ")
		switch key {
		case "object":
			id, err := ParseID(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal tag: object: %w", err)
			}
			t.Object = id
			haveObject = true
		case "type":
			typ, err := ParseType(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal tag: %w", err)
			}
			t.ObjectType = typ
			haveType = true
		case "tag":
			t.Name = []byte(val)
			haveName = true
		case "tagger":
			sig, err := ParseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal tag: tagger: %w", err)
			}
			t.Tagger = sig
			haveTagger = true
		default:
			return nil, fmt.Errorf("unmarshal tag: %w: unknown header %q", ErrInvalidTagFormat, key)
		}
	}

	if !haveObject || !haveType || !haveName || !haveTagger {
		return nil, fmt.Errorf("unmarshal tag: %w: missing required header", ErrInvalidTagFormat)
	}
	return t, nil
}
