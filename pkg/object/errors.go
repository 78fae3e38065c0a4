package object

import "errors"

var (
	// Codec errors.
	ErrMissingHeader   = errors.New("missing object header")
	ErrMalformedHeader = errors.New("malformed object header")
	ErrBadLength       = errors.New("unparseable object length")
	ErrLengthMismatch  = errors.New("object length mismatch")

	// Serialization errors.
	ErrInvalidCommitFormat = errors.New("invalid commit format")
	ErrInvalidTagFormat    = errors.New("invalid tag format")
	ErrInvalidFileMode     = errors.New("invalid file mode")
	ErrInvalidSignature    = errors.New("invalid signature line")
	ErrInvalidObject       = errors.New("invalid object")

	// Type errors.
	ErrInvalidType  = errors.New("invalid object type")
	ErrUnknownType  = errors.New("unknown object type")
	ErrTypeMismatch = errors.New("object type mismatch")

	// Identity errors.
	ErrObjectIDMismatch = errors.New("object id mismatch")
)
