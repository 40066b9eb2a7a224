package bitstream

import (
	"math/bits"

	"github.com/andybalholm/squeeze"
	"github.com/pkg/errors"
)

// A Reader reads groups of bits from a byte slice, in the same order a
// Writer writes them.
type Reader struct {
	data      []byte
	bitLength int
	pos       int // index of the next unread bit
}

// NewReader returns a Reader for the first bitLength bits of data.
//
// data must be the minimal number of bytes that hold bitLength bits, and
// the padding bits after bitLength must be zero, as Writer produces them.
// Anything else is reported as an error: a bitLength that doesn't fit in
// data as ErrUnderflow, extra bytes or non-zero padding as
// ErrCorruptStream.
func NewReader(data []byte, bitLength int) (*Reader, error) {
	if bitLength < 0 {
		return nil, errors.Wrapf(squeeze.ErrInvalidArgument, "negative bit length %d", bitLength)
	}
	if bitLength > 8*len(data) {
		return nil, errors.Wrapf(squeeze.ErrUnderflow, "bit length %d exceeds the %d bytes of data", bitLength, len(data))
	}
	if want := (bitLength + 7) / 8; len(data) > want {
		return nil, errors.Wrapf(squeeze.ErrCorruptStream, "data contains %d unnecessary trailing bytes", len(data)-want)
	}
	if pad := uint(-bitLength) & 7; pad != 0 && data[len(data)-1]&(1<<pad-1) != 0 {
		return nil, errors.Wrap(squeeze.ErrCorruptStream, "trailing bits are not zero")
	}
	return &Reader{data: data, bitLength: bitLength}, nil
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int { return r.bitLength - r.pos }

// Position returns the number of bits read so far.
func (r *Reader) Position() int { return r.pos }

// ReadBits reads the next width bits and returns them in the low-order bits
// of the result. It is an error if width < 1 or width > 32. If fewer than
// width bits remain, it returns ErrUnderflow and consumes nothing.
func (r *Reader) ReadBits(width int) (uint32, error) {
	if width < 1 || width > MaxWidth {
		return 0, errors.Wrapf(squeeze.ErrInvalidArgument, "cannot read %d bits at once", width)
	}
	if width > r.bitLength-r.pos {
		return 0, errors.Wrapf(squeeze.ErrUnderflow, "need %d bits at position %d, but only %d remain", width, r.pos, r.bitLength-r.pos)
	}

	var v uint64
	pos := r.pos
	for need := width; need > 0; {
		avail := 8 - pos&7
		take := min(avail, need)
		b := r.data[pos>>3] >> uint(avail-take) & (1<<uint(take) - 1)
		v = v<<uint(take) | uint64(b)
		pos += take
		need -= take
	}
	r.pos = pos
	return uint32(v), nil
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (bool, error) {
	if r.pos >= r.bitLength {
		return false, errors.Wrapf(squeeze.ErrUnderflow, "need 1 bit at position %d, but none remain", r.pos)
	}
	b := r.data[r.pos>>3] >> uint(7-r.pos&7) & 1
	r.pos++
	return b == 1, nil
}

// ReadUnary counts one-bits up to and including the next zero-bit, and
// returns the number of ones. A run longer than limit is reported as
// ErrCorruptStream, without scanning the rest of it.
func (r *Reader) ReadUnary(limit int) (int, error) {
	q := 0
	for {
		if r.pos >= r.bitLength {
			return 0, errors.Wrapf(squeeze.ErrUnderflow, "unary run of %d bits is not terminated", q)
		}
		off := uint(r.pos & 7)
		avail := min(8-int(off), r.bitLength-r.pos)
		ones := bits.LeadingZeros8(^(r.data[r.pos>>3] << off))
		if ones < avail {
			q += ones
			r.pos += ones + 1
			if q > limit {
				return 0, errors.Wrapf(squeeze.ErrCorruptStream, "unary run of %d bits exceeds the limit of %d", q, limit)
			}
			return q, nil
		}
		q += avail
		r.pos += avail
		if q > limit {
			return 0, errors.Wrapf(squeeze.ErrCorruptStream, "unary run of more than %d bits exceeds the limit of %d", q, limit)
		}
	}
}
