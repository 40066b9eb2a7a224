package rice

import (
	"github.com/andybalholm/squeeze"
	"github.com/andybalholm/squeeze/bitstream"
	"github.com/pkg/errors"
)

// Decode decompresses the first bitLength bits of compressed into dst and
// returns the number of bytes written.
func (c Codec) Decode(dst, compressed []byte, bitLength int) (int, error) {
	maxRun, err := c.maxUnaryRun()
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

	m, err := r.ReadBits(modeBits)
	if err != nil {
		return 0, errors.Wrap(err, "reading mode")
	}
	mode := Mode(m)
	kv, err := r.ReadBits(parameterBits)
	if err != nil {
		return 0, errors.Wrap(err, "reading Rice parameter")
	}
	k := int(kv)

	trailer := 0
	if c.Checksum {
		trailer = bitstream.ChecksumBits
	}

	pos := 0
	var prev byte
	for r.Remaining() > trailer {
		v, err := ReadValue(r, k, maxRun)
		if err != nil {
			return pos, errors.Wrapf(err, "reading value after %d bytes of output", pos)
		}
		if v > 255 {
			return pos, errors.Wrapf(squeeze.ErrCorruptStream, "value %d does not fit in a byte", v)
		}
		if pos == len(dst) {
			return pos, errors.Wrapf(squeeze.ErrCapacity, "output exceeds %d bytes", len(dst))
		}

		b := byte(v)
		if mode == Delta {
			b = prev + byte(unzigzag(b))
			prev = b
		}
		dst[pos] = b
		pos++
	}
	if c.Checksum {
		if err := r.ReadChecksum(dst[:pos]); err != nil {
			return pos, err
		}
	}
	return pos, nil
}
