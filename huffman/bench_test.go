package huffman_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/andybalholm/squeeze"
	"github.com/andybalholm/squeeze/huffman"
	"github.com/andybalholm/squeeze/internal/fixtures"
	"github.com/klauspost/compress/huff0"
)

var benchmarkInputs = []struct {
	name string
	data func() []byte
}{
	{"Text", func() []byte { return fixtures.LongText(1 << 20) }},
	{"Gradient", func() []byte { return fixtures.Gradient(512, 512) }},
	{"Residuals", func() []byte { return fixtures.Residuals(1<<20, 1) }},
	{"Random", func() []byte { return fixtures.Random(1<<20, 1) }},
}

// benchmark runs compress over each input, and reports the compression
// ratio along with the speed. compress returns the compressed size in
// bytes.
func benchmark(b *testing.B, compress func(data []byte) (int, error)) {
	for _, input := range benchmarkInputs {
		b.Run(input.name, func(b *testing.B) {
			b.StopTimer()
			b.ReportAllocs()
			data := input.data()
			b.SetBytes(int64(len(data)))
			n, err := compress(data)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportMetric(float64(len(data))/float64(n), "ratio")
			b.StartTimer()
			for i := 0; i < b.N; i++ {
				compress(data)
			}
		})
	}
}

func BenchmarkEncode(b *testing.B) {
	c := huffman.Codec{Allocator: new(squeeze.PoolAllocator)}
	benchmark(b, func(data []byte) (int, error) {
		compressed, err := c.Encode(data)
		if err != nil {
			return 0, err
		}
		n := compressed.Len()
		compressed.Release()
		return n, nil
	})
}

func BenchmarkDecode(b *testing.B) {
	for _, input := range benchmarkInputs {
		b.Run(input.name, func(b *testing.B) {
			b.StopTimer()
			b.ReportAllocs()
			data := input.data()
			compressed, err := huffman.Codec{}.Encode(data)
			if err != nil {
				b.Fatal(err)
			}
			dst := make([]byte, len(data))
			b.SetBytes(int64(len(data)))
			b.StartTimer()
			for i := 0; i < b.N; i++ {
				if _, err := squeeze.DecodeBuffer(huffman.Codec{}, dst, compressed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkBuildTree(b *testing.B) {
	var h huffman.Histogram
	h.Add(fixtures.Text())
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		huffman.BuildTree(&h, huffman.DefaultMaxCodeLength)
	}
}

// huff0 takes blocks of at most huff0.BlockSizeMax bytes.
const huff0BlockSize = 1 << 17

func BenchmarkHuff0(b *testing.B) {
	var s huff0.Scratch
	benchmark(b, func(data []byte) (int, error) {
		total := 0
		for len(data) > 0 {
			block := data[:min(len(data), huff0BlockSize)]
			data = data[len(block):]
			out, _, err := huff0.Compress1X(block, &s)
			switch {
			case errors.Is(err, huff0.ErrIncompressible), errors.Is(err, huff0.ErrUseRLE):
				total += len(block)
			case err != nil:
				return 0, err
			default:
				total += len(out)
			}
		}
		return total, nil
	})
}

func BenchmarkBrotli(b *testing.B) {
	buf := new(bytes.Buffer)
	w := brotli.NewWriterLevel(buf, brotli.BestSpeed)
	benchmark(b, func(data []byte) (int, error) {
		buf.Reset()
		w.Reset(buf)
		if _, err := w.Write(data); err != nil {
			return 0, err
		}
		if err := w.Close(); err != nil {
			return 0, err
		}
		return buf.Len(), nil
	})
}
