package huffman_test

import (
	"errors"
	"testing"

	"github.com/andybalholm/squeeze"
	"github.com/andybalholm/squeeze/bitstream"
	"github.com/andybalholm/squeeze/huffman"
	"github.com/andybalholm/squeeze/internal/fixtures"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, c huffman.Codec, data []byte) *squeeze.Buffer {
	t.Helper()
	compressed, err := c.Encode(data)
	require.NoError(t, err)
	if compressed.Len() > 0 {
		require.LessOrEqual(t, compressed.BitLength, 8*compressed.Len())
		require.Greater(t, compressed.BitLength, 8*(compressed.Len()-1))
	}

	decompressed := make([]byte, len(data))
	n, err := c.Decode(decompressed, compressed.Bytes, compressed.BitLength)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	if n > 0 {
		// nil and empty slices compare unequal.
		require.Equal(t, data, decompressed[:n])
	}
	return compressed
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"Empty", nil},
		{"SingleByte", []byte{'x'}},
		{"TwoSymbols", []byte("abbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")},
		{"Repetitive", fixtures.Repeat('z', 10000)},
		{"Random512", fixtures.Random(512, 1)},
		{"Text", fixtures.Text()},
		{"Gradient", fixtures.Gradient(128, 96)},
		{"Residuals", fixtures.Residuals(8192, 4)},
		{"Random1MiB", fixtures.Random(1<<20, 2)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			for _, maxLength := range []int{0, 8, 12, huffman.MaxMaxCodeLength} {
				roundTrip(t, huffman.Codec{MaxCodeLength: maxLength}, tc.data)
			}
		})
	}
}

func TestEveryByteValue(t *testing.T) {
	for i := 0; i < 256; i++ {
		roundTrip(t, huffman.Codec{}, []byte{byte(i)})
		roundTrip(t, huffman.Codec{}, []byte{byte(i), byte(i + 1), byte(i)})
	}
}

func TestEmpty(t *testing.T) {
	compressed, err := huffman.Codec{}.Encode(nil)
	require.NoError(t, err)
	require.Empty(t, compressed.Bytes)
	require.Equal(t, 0, compressed.BitLength)

	n, err := huffman.Codec{}.Decode(nil, nil, 0)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestSingleByteBits(t *testing.T) {
	// One symbol in a sparse table: 'A' with a 1-bit code, then the code 0.
	compressed, err := huffman.Codec{}.Encode([]byte{'A'})
	require.NoError(t, err)
	require.Equal(t, 24, compressed.BitLength)
	require.Equal(t, []byte{0x00, 0x10, 0x42}, compressed.Bytes)
}

func TestCompressionRatio(t *testing.T) {
	// One bit per byte, plus the header.
	data := fixtures.Repeat(0x42, 10000)
	compressed := roundTrip(t, huffman.Codec{}, data)
	require.Equal(t, 9+1+13+10000, compressed.BitLength)
	require.Greater(t, len(data), 7*compressed.Len())

	text := fixtures.LongText(1 << 16)
	compressed = roundTrip(t, huffman.Codec{}, text)
	require.Less(t, compressed.Len(), len(text)*5/8)
}

func TestConfiguration(t *testing.T) {
	for _, maxLength := range []int{-1, 7, 32} {
		_, err := huffman.Codec{MaxCodeLength: maxLength}.Encode([]byte("abc"))
		require.ErrorIs(t, err, squeeze.ErrInvalidArgument)

		_, err = huffman.Codec{MaxCodeLength: maxLength}.Decode(make([]byte, 3), []byte{0}, 8)
		require.ErrorIs(t, err, squeeze.ErrInvalidArgument)
	}
}

// stream packs fields, each a value and a width, into a bit stream.
func stream(t *testing.T, fields ...[2]uint32) ([]byte, int) {
	t.Helper()
	w := bitstream.NewWriter(nil, 0)
	for _, f := range fields {
		require.NoError(t, w.WriteBits(f[0], int(f[1])))
	}
	b := w.Finish()
	return b.Bytes, b.BitLength
}

func TestCorruption(t *testing.T) {
	data := fixtures.Text()
	compressed, err := huffman.Codec{}.Encode(data)
	require.NoError(t, err)
	dst := make([]byte, len(data))

	t.Run("TruncatedByte", func(t *testing.T) {
		_, err := huffman.Codec{}.Decode(dst, compressed.Bytes[:compressed.Len()-1], compressed.BitLength)
		require.ErrorIs(t, err, squeeze.ErrUnderflow)
	})

	t.Run("TruncatedBits", func(t *testing.T) {
		bitLength := compressed.BitLength - 1
		truncated := append([]byte(nil), compressed.Bytes[:(bitLength+7)/8]...)
		if bitLength%8 != 0 {
			truncated[len(truncated)-1] &^= 0xff >> uint(bitLength%8)
		}
		_, err := huffman.Codec{}.Decode(dst, truncated, bitLength)
		require.ErrorIs(t, err, squeeze.ErrUnderflow)
	})

	t.Run("InvalidPath", func(t *testing.T) {
		// 'A' is the only symbol and its code is 0, so a 1 bit leads
		// nowhere.
		_, err := huffman.Codec{}.Decode(dst, []byte{0x00, 0x10, 0x43}, 24)
		require.ErrorIs(t, err, squeeze.ErrCorruptStream)
	})

	t.Run("TooManySymbols", func(t *testing.T) {
		b, n := stream(t, [2]uint32{511, 9})
		_, err := huffman.Codec{}.Decode(dst, b, n)
		require.ErrorIs(t, err, squeeze.ErrCorruptStream)
	})

	t.Run("ZeroLength", func(t *testing.T) {
		b, n := stream(t, [2]uint32{0, 9}, [2]uint32{0, 1}, [2]uint32{'A', 8}, [2]uint32{0, 5})
		_, err := huffman.Codec{}.Decode(dst, b, n)
		require.ErrorIs(t, err, squeeze.ErrCorruptStream)
	})

	t.Run("SymbolOrder", func(t *testing.T) {
		b, n := stream(t, [2]uint32{1, 9}, [2]uint32{0, 1},
			[2]uint32{'B', 8}, [2]uint32{1, 5},
			[2]uint32{'A', 8}, [2]uint32{1, 5})
		_, err := huffman.Codec{}.Decode(dst, b, n)
		require.ErrorIs(t, err, squeeze.ErrCorruptStream)
	})

	t.Run("OverSubscribed", func(t *testing.T) {
		b, n := stream(t, [2]uint32{2, 9}, [2]uint32{0, 1},
			[2]uint32{'A', 8}, [2]uint32{1, 5},
			[2]uint32{'B', 8}, [2]uint32{1, 5},
			[2]uint32{'C', 8}, [2]uint32{1, 5},
			[2]uint32{0, 1})
		_, err := huffman.Codec{}.Decode(dst, b, n)
		require.ErrorIs(t, err, squeeze.ErrCorruptStream)
	})

	t.Run("DenseCountMismatch", func(t *testing.T) {
		fields := [][2]uint32{{0, 9}, {1, 1}}
		for s := 0; s < 256; s++ {
			fields = append(fields, [2]uint32{8, 5})
		}
		b, n := stream(t, fields...)
		_, err := huffman.Codec{}.Decode(dst, b, n)
		require.ErrorIs(t, err, squeeze.ErrCorruptStream)
	})

	t.Run("CodeTooLong", func(t *testing.T) {
		b, n := stream(t, [2]uint32{1, 9}, [2]uint32{0, 1},
			[2]uint32{'A', 8}, [2]uint32{1, 5},
			[2]uint32{'B', 8}, [2]uint32{21, 5})
		_, err := huffman.Codec{}.Decode(dst, b, n)
		require.ErrorIs(t, err, squeeze.ErrCorruptStream)
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		b, n := stream(t, [2]uint32{0, 9}, [2]uint32{0, 1}, [2]uint32{'A', 8})
		_, err := huffman.Codec{}.Decode(dst, b, n)
		require.ErrorIs(t, err, squeeze.ErrUnderflow)
	})
}

func TestCodeLengthLimitMismatch(t *testing.T) {
	// Fibonacci counts need long codes when nothing limits them.
	var data []byte
	a, b := 1, 1
	for s := 0; s < 24; s++ {
		data = append(data, fixtures.Repeat(byte(s), a)...)
		a, b = b, a+b
	}

	compressed := roundTrip(t, huffman.Codec{MaxCodeLength: huffman.MaxMaxCodeLength}, data)
	_, err := huffman.Codec{MaxCodeLength: 12}.Decode(make([]byte, len(data)), compressed.Bytes, compressed.BitLength)
	require.ErrorIs(t, err, squeeze.ErrCorruptStream)

	roundTrip(t, huffman.Codec{MaxCodeLength: 12}, data)
}

func isDecodeFailure(err error) bool {
	return errors.Is(err, squeeze.ErrUnderflow) || errors.Is(err, squeeze.ErrCorruptStream)
}

func TestRandomStreams(t *testing.T) {
	// Decoding garbage must fail cleanly or produce bytes, never panic.
	dst := make([]byte, 1<<12)
	for seed := int64(0); seed < 200; seed++ {
		garbage := fixtures.Random(64, seed)
		garbage[len(garbage)-1] = 0
		_, err := huffman.Codec{}.Decode(dst, garbage, 8*len(garbage))
		if err != nil {
			require.True(t, isDecodeFailure(err), "unexpected error %v", err)
		}
	}
}

func TestCapacity(t *testing.T) {
	for _, data := range [][]byte{
		[]byte("ab"),
		fixtures.Repeat('q', 5000),
		fixtures.Text(),
		fixtures.Random(4096, 3),
	} {
		compressed, err := huffman.Codec{}.Encode(data)
		require.NoError(t, err)

		dst := make([]byte, len(data)+1)
		_, err = huffman.Codec{}.Decode(dst[:len(data)-1], compressed.Bytes, compressed.BitLength)
		require.ErrorIs(t, err, squeeze.ErrCapacity)
		require.Zero(t, dst[len(data)-1], "decoder wrote past the end of its destination")

		n, err := huffman.Codec{}.Decode(dst, compressed.Bytes, compressed.BitLength)
		require.NoError(t, err)
		require.Equal(t, data, dst[:n])
	}

	_, err := huffman.Codec{}.Decode(nil, []byte{0x00, 0x10, 0x42}, 24)
	require.ErrorIs(t, err, squeeze.ErrInvalidArgument)
}

func TestChecksum(t *testing.T) {
	c := huffman.Codec{Checksum: true}
	for _, data := range [][]byte{
		nil,
		{'x'},
		fixtures.Text(),
		fixtures.Residuals(4096, 5),
		fixtures.Random(4096, 6),
	} {
		compressed := roundTrip(t, c, data)
		if len(data) > 0 {
			plain, err := huffman.Codec{}.Encode(data)
			require.NoError(t, err)
			require.Equal(t, plain.BitLength+bitstream.ChecksumBits, compressed.BitLength)
		}
	}

	t.Run("Truncated", func(t *testing.T) {
		// Without a checksum, some of these cuts land on a code boundary
		// and decode to a prefix of the data.
		text := fixtures.Text()
		dst := make([]byte, len(text))
		for start := 0; start < 2000; start += 10 {
			data := text[start : start+500]
			compressed, err := c.Encode(data)
			require.NoError(t, err)
			truncated := compressed.Bytes[:compressed.Len()-1]
			_, err = c.Decode(dst, truncated, 8*len(truncated))
			require.Error(t, err, "stream of text[%d:%d] cut by one byte", start, start+500)
			require.True(t, isDecodeFailure(err), "unexpected error %v", err)
		}
	})

	t.Run("FlippedBit", func(t *testing.T) {
		data := fixtures.Text()
		compressed, err := c.Encode(data)
		require.NoError(t, err)
		dst := make([]byte, 2*len(data))
		for i := compressed.Len() / 2; i < compressed.Len()/2+8; i++ {
			damaged := append([]byte(nil), compressed.Bytes...)
			damaged[i] ^= 0x10
			_, err := c.Decode(dst, damaged, compressed.BitLength)
			require.Error(t, err, "bit flipped in byte %d", i)
			require.True(t, isDecodeFailure(err), "unexpected error %v", err)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		compressed, err := huffman.Codec{}.Encode([]byte("ab"))
		require.NoError(t, err)
		_, err = c.Decode(make([]byte, 2), compressed.Bytes, compressed.BitLength)
		require.ErrorIs(t, err, squeeze.ErrUnderflow)
	})
}
