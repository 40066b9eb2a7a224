package rice

import (
	"math"
	"math/bits"

	"github.com/andybalholm/squeeze"
	"github.com/andybalholm/squeeze/bitstream"
	"github.com/pkg/errors"
)

// WriteValue writes v to w as a Rice code with parameter k.
func WriteValue(w *bitstream.Writer, v uint32, k int) error {
	if k < 0 || k > MaxParameter {
		return errors.Wrapf(squeeze.ErrInvalidArgument, "Rice parameter %d is outside the range [0, %d]", k, MaxParameter)
	}
	w.WriteUnary(int(v >> uint(k)))
	if k > 0 {
		w.WriteBits(v, k)
	}
	return nil
}

// ReadValue reads a Rice code with parameter k from r. A quotient longer
// than maxRun is reported as ErrCorruptStream.
func ReadValue(r *bitstream.Reader, k, maxRun int) (uint32, error) {
	if k < 0 || k > MaxParameter {
		return 0, errors.Wrapf(squeeze.ErrInvalidArgument, "Rice parameter %d is outside the range [0, %d]", k, MaxParameter)
	}
	q, err := r.ReadUnary(maxRun)
	if err != nil {
		return 0, err
	}
	if uint64(q) > math.MaxUint32>>uint(k) {
		return 0, errors.Wrapf(squeeze.ErrCorruptStream, "quotient %d with parameter %d overflows 32 bits", q, k)
	}
	v := uint32(q) << uint(k)
	if k > 0 {
		rem, err := r.ReadBits(k)
		if err != nil {
			return 0, err
		}
		v |= rem
	}
	return v, nil
}

// ValueBits returns the length in bits of the Rice code for v with
// parameter k.
func ValueBits(v uint32, k int) int {
	return int(v>>uint(k)) + 1 + k
}

// EstimateParameter returns ceil(log2(mean)) for the values counted in h,
// where h[v] is the number of times v occurs, clamped to [0, MaxParameter].
// It is close to the best k for geometrically distributed values.
func EstimateParameter(h []uint64) int {
	var sum, n uint64
	for v, c := range h {
		sum += uint64(v) * c
		n += c
	}
	if n == 0 || sum <= n {
		return 0
	}
	mean := (sum + n - 1) / n
	return min(bits.Len64(mean-1), MaxParameter)
}
