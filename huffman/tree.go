package huffman

import "sync"

// A Histogram counts how often each byte value occurs.
type Histogram [256]uint64

// Add counts the bytes in p.
func (h *Histogram) Add(p []byte) {
	for _, b := range p {
		h[b]++
	}
}

// A node of a Huffman tree. Leaves have left == -1 and hold a symbol in
// rightOrSymbol; internal nodes hold the indexes of their children.
type node struct {
	count         uint64
	left          int16
	rightOrSymbol int16
}

// nodeLess orders nodes by count, and nodes with equal counts by symbol, so
// that the tree shape only depends on the histogram.
func nodeLess(a, b node) bool {
	if a.count != b.count {
		return a.count < b.count
	}
	return a.rightOrSymbol < b.rightOrSymbol
}

var sortNodesGaps = []int{132, 57, 23, 10, 4, 1}

// sortNodes sorts items with an insertion sort for small inputs and a shell
// sort for larger ones.
func sortNodes(items []node) {
	n := len(items)
	if n < 13 {
		for i := 1; i < n; i++ {
			tmp := items[i]
			j := i
			for ; j > 0 && nodeLess(tmp, items[j-1]); j-- {
				items[j] = items[j-1]
			}
			items[j] = tmp
		}
		return
	}

	g := 0
	if n < 57 {
		g = 2
	}
	for ; g < len(sortNodesGaps); g++ {
		gap := sortNodesGaps[g]
		for i := gap; i < n; i++ {
			j := i
			tmp := items[i]
			for ; j >= gap && nodeLess(tmp, items[j-gap]); j -= gap {
				items[j] = items[j-gap]
			}
			items[j] = tmp
		}
	}
}

// setDepth walks the tree rooted at p0 depth-first and stores the depth of
// each leaf in depth. It reports false, leaving depth partly filled, if any
// leaf is deeper than maxDepth.
func setDepth(p0 int, pool []node, depth *[256]uint8, maxDepth int) bool {
	var stack [MaxMaxCodeLength + 1]int
	level := 0
	p := p0
	stack[0] = -1
	for {
		if pool[p].left >= 0 {
			level++
			if level > maxDepth {
				return false
			}
			stack[level] = int(pool[p].rightOrSymbol)
			p = int(pool[p].left)
			continue
		} else {
			depth[pool[p].rightOrSymbol] = uint8(level)
		}

		for level >= 0 && stack[level] == -1 {
			level--
		}
		if level < 0 {
			return true
		}
		p = stack[level]
		stack[level] = -1
	}
}

var nodePool sync.Pool

// A Tree is a prefix code for byte values: the code length and bit pattern
// of each symbol. Symbols that don't occur have length 0.
type Tree struct {
	lengths [256]uint8
	codes   [256]uint32
}

// BuildTree builds a Huffman code for the symbols counted in h, with no
// code longer than maxLength bits. maxLength must be between 8 and
// MaxMaxCodeLength. If only one symbol occurs, it gets a 1-bit code.
func BuildTree(h *Histogram, maxLength int) *Tree {
	t := new(Tree)

	var symbols []int
	for s, c := range h {
		if c != 0 {
			symbols = append(symbols, s)
		}
	}
	switch len(symbols) {
	case 0:
		return t
	case 1:
		t.lengths[symbols[0]] = 1
		return t
	}

	n := len(symbols)
	treeSize := 2*n + 1
	tree, _ := nodePool.Get().(*[]node)
	if tree == nil || cap(*tree) < treeSize {
		tmp := make([]node, treeSize)
		tree = &tmp
	} else {
		*tree = (*tree)[:treeSize]
	}
	pool := *tree

	// If the tree comes out too deep, raise the smallest counts to
	// countLimit and try again, doubling it each time. Once every
	// count is the same the tree is balanced, and 256 symbols fit in 8
	// levels.
	for countLimit := uint64(1); ; countLimit *= 2 {
		for i, s := range symbols {
			pool[i] = node{count: max(h[s], countLimit), left: -1, rightOrSymbol: int16(s)}
		}
		sortNodes(pool[:n])

		// The nodes are:
		//  [0, n): the sorted leaf nodes that we start with.
		//  [n]: a sentinel.
		//  [n+1, 2n): new parent nodes, added in ascending order of count.
		//  [2n]: a sentinel at the end as well.
		// Taking from the leaves first on equal counts keeps the merge
		// order deterministic.
		sentinel := node{count: ^uint64(0), left: -1, rightOrSymbol: -1}
		pool[n] = sentinel
		pool[n+1] = sentinel
		next := n + 2
		i, j := 0, n+1
		for k := n - 1; k > 0; k-- {
			var left, right int
			if pool[i].count <= pool[j].count {
				left = i
				i++
			} else {
				left = j
				j++
			}
			if pool[i].count <= pool[j].count {
				right = i
				i++
			} else {
				right = j
				j++
			}

			// The sentinel node becomes the parent node.
			pool[next-1] = node{
				count:         pool[left].count + pool[right].count,
				left:          int16(left),
				rightOrSymbol: int16(right),
			}
			pool[next] = sentinel
			next++
		}

		t.lengths = [256]uint8{}
		if setDepth(2*n-1, pool, &t.lengths, maxLength) {
			break
		}
	}
	nodePool.Put(tree)

	t.assignCodes()
	return t
}

// assignCodes gives the symbols canonical codes for their lengths: codes of
// the same length are consecutive in symbol order, and shorter codes come
// numerically before longer ones.
func (t *Tree) assignCodes() {
	var count [MaxMaxCodeLength + 1]uint32
	for _, l := range t.lengths {
		count[l]++
	}
	count[0] = 0

	var nextCode [MaxMaxCodeLength + 1]uint32
	code := uint32(0)
	for l := 1; l <= MaxMaxCodeLength; l++ {
		code = (code + count[l-1]) << 1
		nextCode[l] = code
	}
	for s, l := range t.lengths {
		if l != 0 {
			t.codes[s] = nextCode[l]
			nextCode[l]++
		}
	}
}

// Code returns the code for symbol s and its length in bits. The length is
// 0 if s has no code.
func (t *Tree) Code(s byte) (code uint32, length int) {
	return t.codes[s], int(t.lengths[s])
}

// Cost returns the number of bits needed to encode the symbols counted in
// h with t.
func (t *Tree) Cost(h *Histogram) uint64 {
	var bits uint64
	for s, c := range h {
		bits += c * uint64(t.lengths[s])
	}
	return bits
}
