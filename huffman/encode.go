package huffman

import (
	"github.com/andybalholm/squeeze"
	"github.com/andybalholm/squeeze/bitstream"
)

// Encode compresses src. Empty input produces an empty Buffer.
func (c Codec) Encode(src []byte) (*squeeze.Buffer, error) {
	maxLength, err := c.maxCodeLength()
	if err != nil {
		return nil, err
	}

	w := bitstream.NewWriter(c.Allocator, len(src)/2)
	if len(src) > 0 {
		var h Histogram
		h.Add(src)
		t := BuildTree(&h, maxLength)
		t.writeHeader(w)
		for _, b := range src {
			w.WriteBits(t.codes[b], int(t.lengths[b]))
		}
		if c.Checksum {
			w.WriteChecksum(src)
		}
	}
	return w.Finish(), nil
}

// headerSize returns the number of bits writeHeader uses for a code with n
// symbols.
func headerSize(n int) int {
	if sparseHeader(n) {
		return symbolCountBits + 1 + n*(symbolBits+lengthBits)
	}
	return symbolCountBits + 1 + 256*lengthBits
}

func sparseHeader(n int) bool {
	return n*(symbolBits+lengthBits) < 256*lengthBits
}

// writeHeader writes the code lengths of t, choosing whichever table form
// is smaller.
func (t *Tree) writeHeader(w *bitstream.Writer) {
	n := 0
	for _, l := range t.lengths {
		if l != 0 {
			n++
		}
	}
	w.WriteBits(uint32(n-1), symbolCountBits)

	if sparseHeader(n) {
		w.WriteBit(false)
		for s, l := range t.lengths {
			if l != 0 {
				w.WriteBits(uint32(s), symbolBits)
				w.WriteBits(uint32(l), lengthBits)
			}
		}
		return
	}

	w.WriteBit(true)
	for _, l := range t.lengths {
		w.WriteBits(uint32(l), lengthBits)
	}
}
