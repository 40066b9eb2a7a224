// Package huffman implements static Huffman coding of bytes.
//
// A compressed stream starts with a header that describes the code, and
// continues with the code for each input byte. The header is
//
//   - 9 bits: the number of symbols with a code, minus one.
//   - 1 bit: 0 for a sparse table, 1 for a dense one.
//   - A sparse table lists each coded symbol in increasing order, as 8 bits
//     of symbol and 5 bits of code length.
//   - A dense table has 5 bits of code length for every byte value from 0 to
//     255, with 0 for the symbols that have no code.
//
// The codes themselves are canonical, so the lengths are enough to rebuild
// them. The original length of the data is not stored; the decoder keeps
// going until it has consumed every bit of the stream. A stream cut short
// at a code boundary therefore still decodes, to a prefix of the data.
// Setting Codec.Checksum appends a 32-bit xxHash32 of the data to the
// stream, which catches that along with other damage.
package huffman

import (
	"github.com/andybalholm/squeeze"
	"github.com/pkg/errors"
)

const (
	// DefaultMaxCodeLength is the code length limit used when
	// Codec.MaxCodeLength is zero.
	DefaultMaxCodeLength = 20

	// MaxMaxCodeLength is the largest supported value of
	// Codec.MaxCodeLength.
	MaxMaxCodeLength = 31

	// 256 symbols don't fit in fewer than 8 bits.
	minMaxCodeLength = 8

	symbolCountBits = 9
	symbolBits      = 8
	lengthBits      = 5
)

// A Codec compresses and decompresses data with a Huffman code built for
// each input. The zero value is ready to use. A Codec holds no state between
// calls.
type Codec struct {
	// MaxCodeLength limits the length of any one code. The default is
	// 20. The decoder rejects streams with longer codes, so data must be
	// decoded with a limit at least as high as it was encoded with.
	MaxCodeLength int

	// Checksum adds a 32-bit checksum of the data after the codes, which
	// the decoder verifies. Streams must be decoded with the same setting
	// as they were encoded with.
	Checksum bool

	// Allocator supplies the memory for compressed Buffers. The default is
	// squeeze.DefaultAllocator.
	Allocator squeeze.Allocator
}

var _ squeeze.Codec = Codec{}

func (c Codec) maxCodeLength() (int, error) {
	switch {
	case c.MaxCodeLength == 0:
		return DefaultMaxCodeLength, nil
	case c.MaxCodeLength < minMaxCodeLength, c.MaxCodeLength > MaxMaxCodeLength:
		return 0, errors.Wrapf(squeeze.ErrInvalidArgument, "MaxCodeLength is %d, but must be in the range [%d, %d]", c.MaxCodeLength, minMaxCodeLength, MaxMaxCodeLength)
	}
	return c.MaxCodeLength, nil
}
