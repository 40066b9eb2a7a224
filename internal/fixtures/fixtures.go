// Package fixtures generates the sample data that the codec tests and
// benchmarks run on. Everything is deterministic, so failures reproduce.
package fixtures

import (
	_ "embed"
	"io"

	"github.com/seehuhn/mt19937"
)

//go:embed moby.txt
var text []byte

// Text returns a few kilobytes of English prose.
func Text() []byte {
	return append([]byte(nil), text...)
}

// LongText returns Text repeated until it is at least n bytes long, cut to
// exactly n bytes.
func LongText(n int) []byte {
	b := make([]byte, 0, n+len(text))
	for len(b) < n {
		b = append(b, text...)
	}
	return b[:n]
}

// Random returns n bytes from a Mersenne Twister seeded with seed.
func Random(n int, seed int64) []byte {
	twister := mt19937.New()
	twister.Seed(seed)
	b := make([]byte, n)
	if _, err := io.ReadFull(twister, b); err != nil {
		panic(err)
	}
	return b
}

// Repeat returns n copies of c.
func Repeat(c byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return b
}

// Gradient returns w×h pixels of 8-bit RGB image data with smooth
// gradients and a little texture, row by row, the way an uncompressed TGA
// stores them.
func Gradient(w, h int) []byte {
	b := make([]byte, 0, 3*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b = append(b,
				uint8(x*255/max(w-1, 1)),
				uint8(y*255/max(h-1, 1)),
				uint8((x+y)/4)^uint8((x*y)&3),
			)
		}
	}
	return b
}

// Residuals returns n bytes that are mostly small, with a roughly
// geometric distribution: the kind of data a prediction step leaves
// behind.
func Residuals(n int, seed int64) []byte {
	twister := mt19937.New()
	twister.Seed(seed)
	b := make([]byte, n)
	for i := range b {
		r := twister.Uint64()
		// Count trailing ones for a geometric value, then add a
		// little uniform noise.
		v := 0
		for r&1 == 1 && v < 60 {
			v++
			r >>= 1
		}
		b[i] = byte(2*v + int(r>>1)&1)
	}
	return b
}
