package lzw

import (
	"math/bits"

	"github.com/andybalholm/squeeze"
	"github.com/andybalholm/squeeze/bitstream"
	"github.com/pkg/errors"
)

// A window is a dictionary entry on the decoding side. The byte sequence
// for a code always appears in the output already, so it is stored as an
// offset and length into dst.
type window struct {
	offset int
	length int
}

// Decode decompresses the first bitLength bits of compressed into dst and
// returns the number of bytes written.
func (c Codec) Decode(dst, compressed []byte, bitLength int) (int, error) {
	maxBits, err := c.maxCodeBits()
	if err != nil {
		return 0, err
	}
	r, err := bitstream.NewReader(compressed, bitLength)
	if err != nil {
		return 0, err
	}
	if bitLength == 0 {
		return 0, nil
	}
	if len(dst) == 0 {
		return 0, errors.Wrap(squeeze.ErrInvalidArgument, "destination buffer has zero capacity")
	}

	maxCodes := 1 << maxBits
	table := make([]window, maxCodes-firstCode)
	nextCode := firstCode
	pos := 0

	// The previous code's bytes, if there was a previous code since the
	// last reset.
	var prev window
	hasPrev := false

	for {
		// The decoder's dictionary lags one entry behind the encoder's,
		// except right after a reset, when neither side has a pending
		// entry.
		width := bits.Len(uint(nextCode - 1))
		if hasPrev {
			width = bits.Len(uint(nextCode))
		}
		v, err := r.ReadBits(width)
		if err != nil {
			return pos, errors.Wrapf(err, "reading code after %d bytes of output", pos)
		}
		code := int(v)

		switch code {
		case endCode:
			if n := r.Remaining(); n != 0 {
				return pos, errors.Wrapf(squeeze.ErrCorruptStream, "stream contains %d bits after the end code", n)
			}
			return pos, nil
		case clearCode:
			nextCode = firstCode
			hasPrev = false
			continue
		}

		if hasPrev && nextCode >= maxCodes-1 {
			return pos, errors.Wrapf(squeeze.ErrCorruptStream, "dictionary is full, but code %d is not a clear code", code)
		}

		var cur window
		switch {
		case code < clearCode:
			if pos >= len(dst) {
				return pos, errors.Wrapf(squeeze.ErrCapacity, "output exceeds %d bytes", len(dst))
			}
			dst[pos] = byte(code)
			cur = window{offset: pos, length: 1}
		case !hasPrev:
			return pos, errors.Wrapf(squeeze.ErrCorruptStream, "code %d appears before any literal", code)
		case code < nextCode:
			w := table[code-firstCode]
			if pos+w.length > len(dst) {
				return pos, errors.Wrapf(squeeze.ErrCapacity, "output exceeds %d bytes", len(dst))
			}
			copy(dst[pos:], dst[w.offset:w.offset+w.length])
			cur = window{offset: pos, length: w.length}
		case code == nextCode:
			// The code the encoder assigned just before emitting it:
			// the previous sequence followed by its own first byte.
			if pos+prev.length+1 > len(dst) {
				return pos, errors.Wrapf(squeeze.ErrCapacity, "output exceeds %d bytes", len(dst))
			}
			copy(dst[pos:], dst[prev.offset:prev.offset+prev.length])
			dst[pos+prev.length] = dst[prev.offset]
			cur = window{offset: pos, length: prev.length + 1}
		default:
			return pos, errors.Wrapf(squeeze.ErrCorruptStream, "unexpected code %d, while the next free code is %d", code, nextCode)
		}
		pos += cur.length

		if hasPrev {
			// The previous sequence plus the first byte of this one.
			// They are adjacent in dst, so that is one window.
			table[nextCode-firstCode] = window{offset: prev.offset, length: prev.length + 1}
			nextCode++
		}
		prev = cur
		hasPrev = true
	}
}
