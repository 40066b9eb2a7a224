// Package lzw implements Lempel-Ziv-Welch compression with variable-width
// codes and dictionary resets.
//
// Codes 0–255 stand for single bytes, 256 clears the dictionary and 257
// marks the end of the data. New dictionary entries are numbered from 258
// up. Every code is written with as many bits as the highest code assigned
// so far needs, starting at 9, so the width grows by one bit each time the
// dictionary crosses a power of two. When the dictionary reaches
// 1<<MaxCodeBits codes, the encoder writes a clear code and both sides start
// over with an empty dictionary and 9-bit codes.
//
// The format is private to this package; it is not compatible with the LZW
// variants used by GIF, TIFF or compress(1).
package lzw

import (
	"github.com/andybalholm/squeeze"
	"github.com/pkg/errors"
)

const (
	clearCode = 256
	endCode   = 257
	firstCode = 258

	minCodeBits = 9

	// DefaultMaxCodeBits is the code width limit used when
	// Codec.MaxCodeBits is zero.
	DefaultMaxCodeBits = 12

	// MaxMaxCodeBits is the largest supported value of Codec.MaxCodeBits.
	MaxMaxCodeBits = 16
)

// A Codec compresses and decompresses data in this package's LZW format.
// The zero value is ready to use. A Codec holds no state between calls.
type Codec struct {
	// MaxCodeBits limits the width of codes, and so the size of the
	// dictionary: it holds at most 1<<MaxCodeBits codes, including the 258
	// fixed ones. The default is 12. Data must be decoded with the same
	// setting it was encoded with.
	MaxCodeBits int

	// Allocator supplies the memory for compressed Buffers. The default is
	// squeeze.DefaultAllocator.
	Allocator squeeze.Allocator
}

var _ squeeze.Codec = Codec{}

func (c Codec) maxCodeBits() (int, error) {
	switch {
	case c.MaxCodeBits == 0:
		return DefaultMaxCodeBits, nil
	case c.MaxCodeBits < minCodeBits, c.MaxCodeBits > MaxMaxCodeBits:
		return 0, errors.Wrapf(squeeze.ErrInvalidArgument, "MaxCodeBits is %d, but must be in the range [%d, %d]", c.MaxCodeBits, minCodeBits, MaxMaxCodeBits)
	}
	return c.MaxCodeBits, nil
}
