package object

import (
	"fmt"
	"io"
)

// HashObject reads the full content from r, frames it under the named type
// and returns the hex object name. With checkFormat the payload must parse
// through the canonical deserializer for the type; with persist the encoded
// frame is written to the store.
func HashObject(s *Store, r io.Reader, typeName string, checkFormat, persist bool) (string, error) {
	data, err := readCapped(r)
	if err != nil {
		return "", fmt.Errorf("hash object: %w", err)
	}

	typ, err := ParseType(typeName)
	if err != nil {
		return "", fmt.Errorf("hash object: %w: %q", ErrInvalidType, typeName)
	}

	if checkFormat {
		if _, err := Unmarshal(typ, data); err != nil {
			return "", fmt.Errorf("hash object: %w", err)
		}
	}

	encoded := Encode(typ, data)
	name := HashEncoded(encoded).String()

	if persist {
		if err := s.Write(name, encoded); err != nil {
			return "", fmt.Errorf("hash object: %w", err)
		}
	}
	return name, nil
}

// ReadObject reads and fully decodes the named object. expectedType may be
// empty to accept any kind. The recomputed identifier must match the name.
func ReadObject(s *Store, name string, expectedType Type) (Object, error) {
	id, err := ParseID(name)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	raw, err := s.Read(name)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("read object %s: %w: empty content", name, ErrInvalidObject)
	}
	dec, err := Decode(raw, DecodeOptions{ExpectedType: expectedType, ExpectedID: &id})
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", name, err)
	}
	obj, err := Unmarshal(dec.Type, dec.Data)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", name, err)
	}
	return obj, nil
}

// ReadTypeAndSize reads the named object and returns its type tag and
// payload length without decoding the body. With allowUnknownType an
// unrecognised tag is preserved rather than rejected.
func ReadTypeAndSize(s *Store, name string, allowUnknownType bool) (string, int, error) {
	if _, err := ParseID(name); err != nil {
		return "", 0, fmt.Errorf("read object: %w", err)
	}
	raw, err := s.Read(name)
	if err != nil {
		return "", 0, err
	}
	dec, err := Decode(raw, DecodeOptions{AllowUnknownType: allowUnknownType})
	if err != nil {
		return "", 0, fmt.Errorf("read object %s: %w", name, err)
	}
	return dec.RawType, dec.Size, nil
}

// ReadEncodedData reads the raw (post-inflate) encoded frame of the named
// object.
func ReadEncodedData(s *Store, name string) ([]byte, error) {
	if _, err := ParseID(name); err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return s.Read(name)
}

// readCapped reads all of r up to MaxObjectSize.
func readCapped(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxObjectSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxObjectSize {
		return nil, ErrObjectTooLarge
	}
	return data, nil
}
