package squeeze

import "github.com/pkg/errors"

// These are the kinds of failure a codec reports. The errors returned by
// Encode and Decode wrap one of them, so check them with errors.Is.
var (
	// ErrInvalidArgument means a bad parameter was passed in: a negative
	// bit length, an empty destination, or an out-of-range configuration.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnderflow means the decoder needed more bits than the stream
	// holds; the compressed data is truncated or corrupt.
	ErrUnderflow = errors.New("bit stream underflow")

	// ErrCorruptStream means the decoder found something no encoder would
	// have written: an unknown code, an impossible tree path, an
	// over-long unary run, or leftover data.
	ErrCorruptStream = errors.New("corrupt stream")

	// ErrCapacity means the destination buffer is too small for the
	// decoded output. Retrying with a larger buffer will work.
	ErrCapacity = errors.New("destination buffer too small")
)
