package bitstream

import (
	"github.com/andybalholm/squeeze"
	"github.com/pierrec/xxHash/xxHash32"
	"github.com/pkg/errors"
)

// ChecksumBits is the size of the trailer written by WriteChecksum.
const ChecksumBits = 32

// Checksum returns the xxHash32 of p, with seed 0.
func Checksum(p []byte) uint32 {
	h := xxHash32.New(0)
	h.Write(p)
	return h.Sum32()
}

// WriteChecksum appends the checksum of p as a 32-bit trailer.
func (w *Writer) WriteChecksum(p []byte) {
	w.WriteBits(Checksum(p), ChecksumBits)
}

// ReadChecksum reads a 32-bit trailer and checks it against the checksum
// of p, which is the data decoded so far.
func (r *Reader) ReadChecksum(p []byte) error {
	want, err := r.ReadBits(ChecksumBits)
	if err != nil {
		return errors.Wrap(err, "reading checksum")
	}
	if got := Checksum(p); got != want {
		return errors.Wrapf(squeeze.ErrCorruptStream, "checksum of %d decoded bytes is %08x, but the stream says %08x", len(p), got, want)
	}
	return nil
}
