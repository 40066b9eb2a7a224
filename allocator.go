package squeeze

import (
	"math/bits"
	"sync"
)

// An Allocator supplies the memory that compressed Buffers are built in.
type Allocator interface {
	// Allocate returns a zeroed slice with length size.
	Allocate(size int) []byte

	// Release gives back a slice obtained from Allocate. The caller must
	// not use it afterward.
	Release(b []byte)
}

// HeapAllocator allocates with make and leaves freeing to the garbage
// collector.
type HeapAllocator struct{}

func (HeapAllocator) Allocate(size int) []byte { return make([]byte, size) }

func (HeapAllocator) Release(b []byte) {}

// DefaultAllocator is used by codecs whose Allocator field is nil.
var DefaultAllocator Allocator = HeapAllocator{}

// A PoolAllocator recycles released slices, with one sync.Pool per
// power-of-two size class. It is safe for concurrent use.
type PoolAllocator struct {
	pools [maxPoolClass + 1]sync.Pool
}

// Slices larger than 1<<maxPoolClass bytes are not pooled.
const maxPoolClass = 26

func sizeClass(size int) int {
	if size <= 1 {
		return 0
	}
	return bits.Len(uint(size - 1))
}

func (p *PoolAllocator) Allocate(size int) []byte {
	class := sizeClass(size)
	if class > maxPoolClass {
		return make([]byte, size)
	}
	if v, _ := p.pools[class].Get().(*[]byte); v != nil {
		b := (*v)[:size]
		clear(b)
		return b
	}
	return make([]byte, size, 1<<class)
}

func (p *PoolAllocator) Release(b []byte) {
	c := cap(b)
	if c == 0 {
		return
	}
	class := sizeClass(c)
	if class > maxPoolClass || 1<<class != c {
		// Not one of ours.
		return
	}
	b = b[:0]
	p.pools[class].Put(&b)
}
