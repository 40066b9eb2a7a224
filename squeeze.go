// The squeeze package is a small collection of self-contained lossless
// codecs for byte buffers.
//
// Each codec lives in its own package and writes its own private bit-packed
// format:
//
//   - lzw: a dictionary coder with variable-width codes
//   - huffman: a prefix-code entropy coder
//   - rice: a Golomb-Rice coder for small-magnitude values
//
// They all build on the bitstream package and share the Codec interface and
// the Buffer type defined here. A compressed Buffer carries its exact length
// in bits as well as its bytes, because the last byte of a bit stream is
// usually only partly used; Decode needs both to know where the payload
// ends.
package squeeze

//go:generate mockgen -destination internal/mock/mocks.go -package mock github.com/andybalholm/squeeze Allocator,Codec

// A Codec is a matched compressor and decompressor.
type Codec interface {
	// Encode compresses src into a newly allocated Buffer. The caller owns
	// the Buffer and should call its Release method when done with it.
	Encode(src []byte) (*Buffer, error)

	// Decode decompresses the first bitLength bits of compressed into dst,
	// and returns the number of bytes written. It never writes past
	// len(dst); if the output does not fit, it returns an error wrapping
	// ErrCapacity.
	Decode(dst, compressed []byte, bitLength int) (int, error)
}

// DecodeBuffer decodes b with c into dst.
func DecodeBuffer(c Codec, dst []byte, b *Buffer) (int, error) {
	return c.Decode(dst, b.Bytes, b.BitLength)
}
