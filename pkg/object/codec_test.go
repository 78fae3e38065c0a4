package object

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeBlobFrame(t *testing.T) {
	got := Encode(TypeBlob, []byte("sample content\n"))
	want := []byte("blob 15\x00sample content\n")
	if !bytes.Equal(got, want) {
		t.Errorf("Encode: got %q, want %q", got, want)
	}
}

func TestHashEncodedKnownBlob(t *testing.T) {
	encoded := Encode(TypeBlob, []byte("sample content\n"))
	got := HashEncoded(encoded).String()
	want := "4b4f223d5c2b7c88abd487b3eaf5de2000755cc3"
	if got != want {
		t.Errorf("HashEncoded: got %s, want %s", got, want)
	}
}

func TestEncodeEmptyPayload(t *testing.T) {
	got := Encode(TypeTree, nil)
	if !bytes.Equal(got, []byte("tree 0\x00")) {
		t.Errorf("Encode empty: got %q", got)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	payload := []byte("some blob data")
	encoded := Encode(TypeBlob, payload)
	dec, err := Decode(encoded, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dec.Type != TypeBlob {
		t.Errorf("Type: got %q, want %q", dec.Type, TypeBlob)
	}
	if dec.Size != len(payload) {
		t.Errorf("Size: got %d, want %d", dec.Size, len(payload))
	}
	if !bytes.Equal(dec.Data, payload) {
		t.Errorf("Data: got %q, want %q", dec.Data, payload)
	}
}

func TestDecodeExpectedID(t *testing.T) {
	encoded := Encode(TypeBlob, []byte("sample content\n"))
	id := HashEncoded(encoded)

	if _, err := Decode(encoded, DecodeOptions{ExpectedID: &id}); err != nil {
		t.Fatalf("Decode with matching id: %v", err)
	}

	var wrong ID
	wrong[0] = 0xff
	if _, err := Decode(encoded, DecodeOptions{ExpectedID: &wrong}); !errors.Is(err, ErrObjectIDMismatch) {
		t.Errorf("Decode with wrong id: got %v, want ErrObjectIDMismatch", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		opts  DecodeOptions
		want  error
	}{
		{"no NUL", []byte("blob 4 abcd"), DecodeOptions{}, ErrMissingHeader},
		{"no space", []byte("blob\x00abcd"), DecodeOptions{}, ErrMalformedHeader},
		{"space after NUL", []byte("blob4\x00ab cd"), DecodeOptions{}, ErrMalformedHeader},
		{"unknown type", []byte("wombat 4\x00abcd"), DecodeOptions{}, ErrUnknownType},
		{"type mismatch", []byte("blob 4\x00abcd"), DecodeOptions{ExpectedType: TypeTree}, ErrTypeMismatch},
		{"bad length", []byte("blob x\x00abcd"), DecodeOptions{}, ErrBadLength},
		{"negative length", []byte("blob -1\x00abcd"), DecodeOptions{}, ErrBadLength},
		{"length mismatch", []byte("blob 3\x00abcd"), DecodeOptions{}, ErrLengthMismatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.input, tc.opts); !errors.Is(err, tc.want) {
				t.Errorf("Decode(%q): got %v, want %v", tc.input, err, tc.want)
			}
		})
	}
}

func TestDecodeAllowUnknownType(t *testing.T) {
	dec, err := Decode([]byte("wombat 4\x00abcd"), DecodeOptions{AllowUnknownType: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dec.RawType != "wombat" {
		t.Errorf("RawType: got %q, want %q", dec.RawType, "wombat")
	}
	if dec.Type != "" {
		t.Errorf("Type should be empty for unknown tags, got %q", dec.Type)
	}
	if dec.Size != 4 {
		t.Errorf("Size: got %d, want 4", dec.Size)
	}
}
