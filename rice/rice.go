// Package rice implements Golomb-Rice coding of bytes.
//
// With parameter k, a value v is written as v>>k in unary (that many one
// bits, then a zero bit) followed by the low k bits of v. Small values get
// short codes, so the format suits data that is mostly close to zero, such
// as prediction residuals.
//
// A compressed stream starts with a 4-bit header: 1 bit of mode and 3 bits
// of k. In raw mode each byte is coded as it is. In delta mode each byte is
// coded as its difference from the byte before (the first one from 0),
// taken modulo 256 as a signed value and zig-zag mapped, so that -1 becomes
// 1, 1 becomes 2, -2 becomes 3, and so on. The encoder picks whichever mode
// and k give the shortest output.
//
// The stream does not record how many bytes it holds; the decoder reads
// values until the bits run out. A stream cut short at a value boundary
// therefore still decodes, to a prefix of the data. Setting Codec.Checksum
// appends a 32-bit xxHash32 of the data to the stream, which catches that
// along with other damage.
package rice

import (
	"github.com/andybalholm/squeeze"
	"github.com/pkg/errors"
)

const (
	// DefaultMaxUnaryRun is the unary run limit used when
	// Codec.MaxUnaryRun is zero.
	DefaultMaxUnaryRun = 255

	// MaxParameter is the largest k that WriteValue and ReadValue accept.
	MaxParameter = 31

	// Bytes never need k above 7.
	maxByteParameter = 7

	modeBits      = 1
	parameterBits = 3
)

// A Mode selects what the encoder codes for each byte.
type Mode uint8

const (
	// Raw codes the bytes themselves.
	Raw Mode = iota

	// Delta codes the zig-zag mapped difference from the previous byte.
	Delta
)

func (m Mode) String() string {
	switch m {
	case Raw:
		return "raw"
	case Delta:
		return "delta"
	}
	return "unknown"
}

// A Codec compresses and decompresses data with Golomb-Rice codes. The
// zero value is ready to use. A Codec holds no state between calls.
type Codec struct {
	// MaxUnaryRun limits the quotient part of any one code. The encoder
	// never uses a k that would need a longer run, and the decoder
	// rejects streams that contain one. The default is 255, which allows
	// every k; it must be at least 1.
	MaxUnaryRun int

	// Checksum adds a 32-bit checksum of the data after the values, which
	// the decoder verifies. Streams must be decoded with the same setting
	// as they were encoded with.
	Checksum bool

	// Allocator supplies the memory for compressed Buffers. The default is
	// squeeze.DefaultAllocator.
	Allocator squeeze.Allocator
}

var _ squeeze.Codec = Codec{}

func (c Codec) maxUnaryRun() (int, error) {
	switch {
	case c.MaxUnaryRun == 0:
		return DefaultMaxUnaryRun, nil
	case c.MaxUnaryRun < 1:
		return 0, errors.Wrapf(squeeze.ErrInvalidArgument, "MaxUnaryRun is %d, but must be at least 1", c.MaxUnaryRun)
	}
	return c.MaxUnaryRun, nil
}

// zigzag maps a signed difference to an unsigned value, interleaving
// positive and negative numbers: 0, -1, 1, -2, 2 ... become 0, 1, 2, 3, 4 ...
func zigzag(d int8) uint8 {
	return uint8(d<<1) ^ uint8(d>>7)
}

func unzigzag(v uint8) int8 {
	return int8(v>>1) ^ -int8(v&1)
}
