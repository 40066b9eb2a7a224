package squeeze

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	codecPrometheusMetrics sync.Once

	codecOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "squeeze",
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Number of Encode() and Decode() calls, by codec and outcome.",
		},
		[]string{"name", "operation", "outcome"})
	codecUncompressedBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "squeeze",
			Subsystem: "codec",
			Name:      "uncompressed_bytes_total",
			Help:      "Number of uncompressed bytes passed into Encode() or produced by Decode().",
		},
		[]string{"name", "operation"})
	codecCompressedBitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "squeeze",
			Subsystem: "codec",
			Name:      "compressed_bits_total",
			Help:      "Number of compressed bits produced by Encode() or consumed by Decode().",
		},
		[]string{"name", "operation"})
	codecCompressionRatio = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "squeeze",
			Subsystem: "codec",
			Name:      "compression_ratio",
			Help:      "Ratio between the uncompressed and compressed size of successful Encode() calls.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"name"})
)

type metricsCodec struct {
	base Codec

	encodeSucceeded    prometheus.Counter
	encodeFailed       prometheus.Counter
	decodeSucceeded    prometheus.Counter
	decodeFailed       prometheus.Counter
	encodeUncompressed prometheus.Counter
	decodeUncompressed prometheus.Counter
	encodeCompressed   prometheus.Counter
	decodeCompressed   prometheus.Counter
	ratio              prometheus.Observer
}

// NewMetricsCodec creates a decorator for Codec that exposes the number of
// operations performed and the amount of data processed through
// Prometheus. The name is used as a label to tell codecs apart.
func NewMetricsCodec(base Codec, name string) Codec {
	codecPrometheusMetrics.Do(func() {
		prometheus.MustRegister(codecOperationsTotal)
		prometheus.MustRegister(codecUncompressedBytesTotal)
		prometheus.MustRegister(codecCompressedBitsTotal)
		prometheus.MustRegister(codecCompressionRatio)
	})

	return &metricsCodec{
		base: base,

		encodeSucceeded:    codecOperationsTotal.WithLabelValues(name, "Encode", "Success"),
		encodeFailed:       codecOperationsTotal.WithLabelValues(name, "Encode", "Failure"),
		decodeSucceeded:    codecOperationsTotal.WithLabelValues(name, "Decode", "Success"),
		decodeFailed:       codecOperationsTotal.WithLabelValues(name, "Decode", "Failure"),
		encodeUncompressed: codecUncompressedBytesTotal.WithLabelValues(name, "Encode"),
		decodeUncompressed: codecUncompressedBytesTotal.WithLabelValues(name, "Decode"),
		encodeCompressed:   codecCompressedBitsTotal.WithLabelValues(name, "Encode"),
		decodeCompressed:   codecCompressedBitsTotal.WithLabelValues(name, "Decode"),
		ratio:              codecCompressionRatio.WithLabelValues(name),
	}
}

func (c *metricsCodec) Encode(src []byte) (*Buffer, error) {
	b, err := c.base.Encode(src)
	if err != nil {
		c.encodeFailed.Inc()
		return nil, err
	}
	c.encodeSucceeded.Inc()
	c.encodeUncompressed.Add(float64(len(src)))
	c.encodeCompressed.Add(float64(b.BitLength))
	if b.Len() > 0 {
		c.ratio.Observe(float64(len(src)) / float64(b.Len()))
	}
	return b, nil
}

func (c *metricsCodec) Decode(dst, compressed []byte, bitLength int) (int, error) {
	n, err := c.base.Decode(dst, compressed, bitLength)
	if err != nil {
		c.decodeFailed.Inc()
		return n, err
	}
	c.decodeSucceeded.Inc()
	c.decodeUncompressed.Add(float64(n))
	c.decodeCompressed.Add(float64(bitLength))
	return n, nil
}
