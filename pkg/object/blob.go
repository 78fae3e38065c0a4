package object

// Blob holds raw file data. Serialization is the identity transform.
type Blob struct {
	Data []byte
}

func (b *Blob) Kind() Type {
	return TypeBlob
}

// Marshal returns a copy of the blob's bytes.
func (b *Blob) Marshal() []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}
