package lzw

import (
	"math/bits"

	"github.com/andybalholm/squeeze"
	"github.com/andybalholm/squeeze/bitstream"
)

// Encode compresses src. Empty input produces an empty Buffer.
func (c Codec) Encode(src []byte) (*squeeze.Buffer, error) {
	maxBits, err := c.maxCodeBits()
	if err != nil {
		return nil, err
	}

	w := bitstream.NewWriter(c.Allocator, len(src)/2)
	if len(src) > 0 {
		e := newEncoder(w, maxBits)
		e.encode(src)
	}
	return w.Finish(), nil
}

const hashMul32 = 0x1e35a7bd

// An encoder holds the dictionary while compressing.
//
// The dictionary is an open-addressed hash table that maps the code of a
// prefix plus the next byte to the code of the extended prefix. Each entry
// has the following format:
//
//   - Bits 24-39: code of the prefix.
//   - Bits 16-23: next byte.
//   - Bits 0-15: code of the extended prefix.
//
// Assigned codes are never below firstCode, so an entry is never 0; 0
// marks an empty slot.
type encoder struct {
	w *bitstream.Writer

	table []uint64
	mask  int
	shift uint

	maxCodes int
	nextCode int

	// Statistics, for tests.
	resets      int
	highestCode int
}

func newEncoder(w *bitstream.Writer, maxBits int) *encoder {
	// Keep the table at most half full.
	tableBits := uint(maxBits + 1)
	return &encoder{
		w:        w,
		table:    make([]uint64, 1<<tableBits),
		mask:     1<<tableBits - 1,
		shift:    32 - tableBits,
		maxCodes: 1 << maxBits,
		nextCode: firstCode,
	}
}

func (e *encoder) reset() {
	clear(e.table)
	e.nextCode = firstCode
	e.resets++
}

// find looks up key in the dictionary. It returns the slot where key is or
// would be stored, and its code, or -1 if it is not there.
func (e *encoder) find(key uint64) (slot, code int) {
	for i := int((uint32(key)*hashMul32)>>e.shift) & e.mask; ; i = (i + 1) & e.mask {
		entry := e.table[i]
		if entry == 0 {
			return i, -1
		}
		if entry>>16 == key {
			return i, int(entry & 0xffff)
		}
	}
}

// emit writes code with the width of the highest code assigned so far.
func (e *encoder) emit(code int) {
	e.w.WriteBits(uint32(code), bits.Len(uint(e.nextCode-1)))
}

func (e *encoder) encode(src []byte) {
	prefix := int(src[0])
	for _, b := range src[1:] {
		key := uint64(prefix)<<8 | uint64(b)
		slot, code := e.find(key)
		if code >= 0 {
			// Keep accumulating: prefix+b is already known.
			prefix = code
			continue
		}

		e.emit(prefix)
		e.table[slot] = key<<16 | uint64(e.nextCode)
		if e.nextCode > e.highestCode {
			e.highestCode = e.nextCode
		}
		e.nextCode++
		if e.nextCode == e.maxCodes {
			// The dictionary is full. The clear code still uses the
			// full width, since maxCodes-1 was just assigned.
			e.emit(clearCode)
			e.reset()
		}
		prefix = int(b)
	}

	e.emit(prefix)

	// The decoder adds each entry one code after the encoder does. At this
	// point it has caught up, so it reads the end code with the width of
	// nextCode itself.
	e.w.WriteBits(endCode, bits.Len(uint(e.nextCode)))
}
