// Package bitstream packs and unpacks groups of bits to and from byte
// slices.
//
// Bits are stored from most to least significant within each byte:
//
//	byte  0               1               2 ...
//	     +---------------+---------------+-
//	     |7 6 5 4 3 2 1 0|7 6 5 4 3 2 1 0|7 ...
//	     +---------------+---------------+-
//	bit   0 0 0 0 0 0 0 0 0 0 1 1 1 1 1 1 1
//	      0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 ...
//
// and a multi-bit value is written with its most significant bit first. So
// writing 1 in 1 bit, 2 in 3 bits and 9 in 4 bits produces the byte 0xa9.
//
// The number of bits in a stream is tracked separately from the number of
// bytes, since the last byte is usually only partly filled. The unused low
// bits of the last byte are zero.
package bitstream

import (
	"github.com/andybalholm/squeeze"
	"github.com/pkg/errors"
)

// MaxWidth is the largest number of bits that can be read or written in one
// call.
const MaxWidth = 32

const minBlockSize = 64

// A Writer appends bits to a growable buffer obtained from an Allocator.
// When the buffer fills up, a block twice as large is allocated and the old
// one released.
type Writer struct {
	alloc squeeze.Allocator

	buf []byte // block from alloc
	n   int    // bytes of buf in use

	// The low-order nacc bits of acc hold bits that don't fill a byte yet.
	acc  uint64
	nacc uint // 0 ≤ nacc < 8

	nbits int
}

// NewWriter returns a Writer that allocates from a, starting with room for
// about sizeHint bytes. If a is nil, squeeze.DefaultAllocator is used.
func NewWriter(a squeeze.Allocator, sizeHint int) *Writer {
	if a == nil {
		a = squeeze.DefaultAllocator
	}
	w := &Writer{alloc: a}
	if sizeHint > 0 {
		w.buf = a.Allocate(max(sizeHint, minBlockSize))
	}
	return w
}

// WriteBits appends the low-order width bits of v to the stream. It is an
// error if width < 1 or width > 32.
func (w *Writer) WriteBits(v uint32, width int) error {
	if width < 1 || width > MaxWidth {
		return errors.Wrapf(squeeze.ErrInvalidArgument, "cannot write %d bits at once", width)
	}
	uwidth := uint(width)
	w.acc = w.acc<<uwidth | uint64(v)&(1<<uwidth-1)
	w.nacc += uwidth
	for w.nacc >= 8 {
		w.nacc -= 8
		w.putByte(byte(w.acc >> w.nacc))
	}
	w.acc &= 1<<w.nacc - 1
	w.nbits += width
	return nil
}

// WriteBit appends a single bit, 1 for true and 0 for false.
func (w *Writer) WriteBit(bit bool) {
	var v uint32
	if bit {
		v = 1
	}
	w.WriteBits(v, 1)
}

// WriteUnary appends q one-bits followed by a zero-bit.
func (w *Writer) WriteUnary(q int) {
	for ; q >= MaxWidth; q -= MaxWidth {
		w.WriteBits(0xffffffff, MaxWidth)
	}
	// q ones, then the terminating zero.
	w.WriteBits(uint32(1)<<uint(q+1)-2, q+1)
}

// BitLength returns the number of bits written so far.
func (w *Writer) BitLength() int { return w.nbits }

func (w *Writer) putByte(b byte) {
	if w.n == len(w.buf) {
		w.grow()
	}
	w.buf[w.n] = b
	w.n++
}

func (w *Writer) grow() {
	size := max(2*len(w.buf), minBlockSize)
	nb := w.alloc.Allocate(size)
	copy(nb, w.buf[:w.n])
	if w.buf != nil {
		w.alloc.Release(w.buf)
	}
	w.buf = nb
}

// Finish pads the stream to a whole number of bytes and returns it as a
// Buffer. The Writer must not be used afterward.
func (w *Writer) Finish() *squeeze.Buffer {
	if w.nacc > 0 {
		w.putByte(byte(w.acc << (8 - w.nacc)))
		w.acc = 0
		w.nacc = 0
	}
	b := squeeze.NewBuffer(w.buf, w.nbits, w.alloc)
	w.buf = nil
	w.n = 0
	return b
}

// Discard releases the Writer's buffer without producing any output.
func (w *Writer) Discard() {
	if w.buf != nil {
		w.alloc.Release(w.buf)
	}
	w.buf = nil
	w.n = 0
	w.acc = 0
	w.nacc = 0
	w.nbits = 0
}
