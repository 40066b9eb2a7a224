package squeeze

// A Buffer holds compressed data: a byte slice and the exact number of
// meaningful bits in it. BitLength is always in the range
// (8*len(Bytes)-8, 8*len(Bytes)], or zero for an empty buffer.
type Buffer struct {
	Bytes     []byte
	BitLength int

	// block is the slice as returned by the allocator; Bytes may be a
	// prefix of it.
	block     []byte
	allocator Allocator
	released  bool
}

// NewBuffer wraps block, which came from a, as a Buffer whose first
// bitLength bits are meaningful.
func NewBuffer(block []byte, bitLength int, a Allocator) *Buffer {
	return &Buffer{
		Bytes:     block[:(bitLength+7)/8],
		BitLength: bitLength,
		block:     block,
		allocator: a,
	}
}

// Len returns the length of b in bytes.
func (b *Buffer) Len() int { return len(b.Bytes) }

// Release returns b's memory to the allocator it came from. Releasing a
// Buffer twice panics.
func (b *Buffer) Release() {
	if b.released {
		panic("squeeze: Buffer released twice")
	}
	b.released = true
	if b.allocator != nil && b.block != nil {
		b.allocator.Release(b.block)
	}
	b.Bytes = nil
	b.block = nil
}
