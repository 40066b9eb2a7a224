package huffman

import (
	"github.com/andybalholm/squeeze"
	"github.com/andybalholm/squeeze/bitstream"
	"github.com/pkg/errors"
)

// A decodeNode is a node of the decoding trie. Each child is the index of
// another node, or ^symbol for a leaf, or 0 if no code starts with that
// path. The root is node 0, so it is never anyone's child.
type decodeNode struct {
	child [2]int32
}

// Decode decompresses the first bitLength bits of compressed into dst and
// returns the number of bytes written.
func (c Codec) Decode(dst, compressed []byte, bitLength int) (int, error) {
	maxLength, err := c.maxCodeLength()
	if err != nil {
		return 0, err
	}
	r, err := bitstream.NewReader(compressed, bitLength)
	if err != nil {
		return 0, err
	}
	if bitLength == 0 {
		return 0, nil
	}
	if len(dst) == 0 {
		return 0, errors.Wrap(squeeze.ErrInvalidArgument, "destination buffer has zero capacity")
	}

	t, err := readHeader(r, maxLength)
	if err != nil {
		return 0, err
	}
	nodes, err := t.decodeTrie()
	if err != nil {
		return 0, err
	}

	trailer := 0
	if c.Checksum {
		trailer = bitstream.ChecksumBits
	}

	pos := 0
	for r.Remaining() > trailer {
		n := int32(0)
		for n >= 0 {
			bit, err := r.ReadBit()
			if err != nil {
				return pos, errors.Wrapf(err, "reading code after %d bytes of output", pos)
			}
			i := 0
			if bit {
				i = 1
			}
			n = nodes[n].child[i]
			if n == 0 {
				return pos, errors.Wrapf(squeeze.ErrCorruptStream, "invalid code after %d bytes of output", pos)
			}
		}
		if pos == len(dst) {
			return pos, errors.Wrapf(squeeze.ErrCapacity, "output exceeds %d bytes", len(dst))
		}
		dst[pos] = byte(^n)
		pos++
	}
	if c.Checksum {
		if err := r.ReadChecksum(dst[:pos]); err != nil {
			return pos, err
		}
	}
	return pos, nil
}

// readHeader reads the table of code lengths at the start of a stream and
// returns the code it describes.
func readHeader(r *bitstream.Reader, maxLength int) (*Tree, error) {
	v, err := r.ReadBits(symbolCountBits)
	if err != nil {
		return nil, errors.Wrap(err, "reading symbol count")
	}
	n := int(v) + 1
	if n > 256 {
		return nil, errors.Wrapf(squeeze.ErrCorruptStream, "header lists %d symbols", n)
	}
	dense, err := r.ReadBit()
	if err != nil {
		return nil, errors.Wrap(err, "reading table type")
	}

	t := new(Tree)
	if dense {
		found := 0
		for s := range t.lengths {
			l, err := r.ReadBits(lengthBits)
			if err != nil {
				return nil, errors.Wrapf(err, "reading code length for symbol %d", s)
			}
			if int(l) > maxLength {
				return nil, errors.Wrapf(squeeze.ErrCorruptStream, "symbol %d has a %d-bit code, but the limit is %d", s, l, maxLength)
			}
			if l != 0 {
				found++
			}
			t.lengths[s] = uint8(l)
		}
		if found != n {
			return nil, errors.Wrapf(squeeze.ErrCorruptStream, "header promises %d symbols, but the table has %d", n, found)
		}
	} else {
		prev := -1
		for i := 0; i < n; i++ {
			s, err := r.ReadBits(symbolBits)
			if err != nil {
				return nil, errors.Wrap(err, "reading symbol")
			}
			if int(s) <= prev {
				return nil, errors.Wrapf(squeeze.ErrCorruptStream, "symbol %d follows symbol %d in the table", s, prev)
			}
			prev = int(s)
			l, err := r.ReadBits(lengthBits)
			if err != nil {
				return nil, errors.Wrapf(err, "reading code length for symbol %d", s)
			}
			if l == 0 || int(l) > maxLength {
				return nil, errors.Wrapf(squeeze.ErrCorruptStream, "symbol %d has a %d-bit code, but the limit is %d", s, l, maxLength)
			}
			t.lengths[s] = uint8(l)
		}
	}

	// Codes must not take up more than the whole code space.
	var used uint64
	for _, l := range t.lengths {
		if l != 0 {
			used += 1 << uint(MaxMaxCodeLength-int(l))
		}
	}
	if used > 1<<MaxMaxCodeLength {
		return nil, errors.Wrap(squeeze.ErrCorruptStream, "code lengths are over-subscribed")
	}

	t.assignCodes()
	return t, nil
}

// decodeTrie builds a binary trie with a leaf for each of t's codes.
func (t *Tree) decodeTrie() ([]decodeNode, error) {
	nodes := make([]decodeNode, 1, 2*len(t.lengths))
	for s, l := range t.lengths {
		if l == 0 {
			continue
		}
		code := t.codes[s]
		n := 0
		for i := int(l) - 1; ; i-- {
			bit := (code >> uint(i)) & 1
			next := nodes[n].child[bit]
			if i == 0 {
				if next != 0 {
					return nil, errors.Wrapf(squeeze.ErrCorruptStream, "code for symbol %d collides with another code", s)
				}
				nodes[n].child[bit] = ^int32(s)
				break
			}
			switch {
			case next < 0:
				return nil, errors.Wrapf(squeeze.ErrCorruptStream, "code for symbol %d collides with another code", s)
			case next == 0:
				nodes = append(nodes, decodeNode{})
				next = int32(len(nodes) - 1)
				nodes[n].child[bit] = next
			}
			n = int(next)
		}
	}
	return nodes, nil
}
