package rice

import (
	"github.com/andybalholm/squeeze"
	"github.com/andybalholm/squeeze/bitstream"
)

// Encode compresses src. Empty input produces an empty Buffer.
func (c Codec) Encode(src []byte) (*squeeze.Buffer, error) {
	maxRun, err := c.maxUnaryRun()
	if err != nil {
		return nil, err
	}

	w := bitstream.NewWriter(c.Allocator, len(src)/2)
	if len(src) > 0 {
		mode, k := chooseParameters(src, maxRun)
		w.WriteBits(uint32(mode), modeBits)
		w.WriteBits(uint32(k), parameterBits)

		var prev byte
		for _, b := range src {
			v := b
			if mode == Delta {
				v = zigzag(int8(b - prev))
				prev = b
			}
			WriteValue(w, uint32(v), k)
		}
		if c.Checksum {
			w.WriteChecksum(src)
		}
	}
	return w.Finish(), nil
}

// histograms counts the values that each mode would code for src.
func histograms(src []byte) (raw, delta [256]uint64) {
	var prev byte
	for _, b := range src {
		raw[b]++
		delta[zigzag(int8(b-prev))]++
		prev = b
	}
	return raw, delta
}

// cost returns the number of bits needed to code the values counted in h
// with parameter k.
func cost(h *[256]uint64, k int) uint64 {
	var total uint64
	for v, c := range h {
		if c != 0 {
			total += c * uint64(ValueBits(uint32(v), k))
		}
	}
	return total
}

// chooseParameters returns the mode and k that code src in the fewest bits
// without any unary run longer than maxRun. On a tie, raw mode wins over
// delta, and the estimated k over the others.
func chooseParameters(src []byte, maxRun int) (Mode, int) {
	raw, delta := histograms(src)

	bestMode, bestK := Raw, -1
	var bestCost uint64
	for _, mode := range []Mode{Raw, Delta} {
		h := &raw
		if mode == Delta {
			h = &delta
		}
		maxValue := 0
		for v, c := range h {
			if c != 0 {
				maxValue = v
			}
		}

		estimate := min(EstimateParameter(h[:]), maxByteParameter)
		for i := -1; i <= maxByteParameter; i++ {
			k := i
			if i < 0 {
				k = estimate
			}
			if maxValue>>uint(k) > maxRun {
				continue
			}
			if c := cost(h, k); bestK < 0 || c < bestCost {
				bestMode, bestK, bestCost = mode, k, c
			}
		}
	}
	return bestMode, bestK
}
