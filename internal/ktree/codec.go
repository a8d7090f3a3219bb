package ktree

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"math"
)

const (
	// Magic identifies a serialized k-tree (ASCII "KTR1").
	Magic = 0x4B545231
	// Version is the current serialization version.
	Version = 1

	kindInternal = 0
	kindLeaf     = 1
)

// ErrCorrupt is returned when a serialized tree fails to decode.
var ErrCorrupt = errors.New("ktree: corrupt tree data")

// header is the fixed-size preamble of a serialized tree.
type header struct {
	Magic    uint32
	Version  uint32
	Order    uint32
	Dims     uint32
	Distance uint8
	_        [3]byte
	Depth    uint32
	Size     uint64
	Nodes    uint64
}

// checksumWriter forwards writes and keeps a running CRC32 and byte count.
type checksumWriter struct {
	w    io.Writer
	hash hash.Hash32
	n    int64
}

func (cw *checksumWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.hash.Write(p[:n])
	cw.n += int64(n)
	return n, err
}

// WriteTo streams the tree: header, nodes in pre-order (kind, entry count,
// then per entry its object count and vector), and a CRC32 trailer over all
// preceding bytes. All integers and floats are little-endian.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	bw := bufio.NewWriter(w)
	cw := &checksumWriter{w: bw, hash: crc32.NewIEEE()}
	h := header{
		Magic:    Magic,
		Version:  Version,
		Order:    uint32(t.order),
		Dims:     uint32(t.dims),
		Distance: t.distanceName.code(),
		Depth:    uint32(t.depth),
		Size:     uint64(t.size),
		Nodes:    uint64(t.nodeCount()),
	}
	if err := binary.Write(cw, binary.LittleEndian, &h); err != nil {
		return cw.n, err
	}
	if t.root != nil {
		scratch := make([]byte, 8+4*t.dims)
		if err := writeNode(cw, t.root, scratch); err != nil {
			return cw.n, err
		}
	}
	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], cw.hash.Sum32())
	n, err := bw.Write(trailer[:])
	total := cw.n + int64(n)
	if err != nil {
		return total, err
	}
	return total, bw.Flush()
}

func writeNode(w io.Writer, n *node, scratch []byte) error {
	kind := byte(kindInternal)
	if n.leaf {
		kind = kindLeaf
	}
	var head [5]byte
	head[0] = kind
	binary.LittleEndian.PutUint32(head[1:], uint32(len(n.entries)))
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	for i := range n.entries {
		e := &n.entries[i]
		binary.LittleEndian.PutUint64(scratch, uint64(e.count))
		for d, v := range e.vector {
			binary.LittleEndian.PutUint32(scratch[8+4*d:], math.Float32bits(v))
		}
		if _, err := w.Write(scratch); err != nil {
			return err
		}
	}
	if n.leaf {
		return nil
	}
	for i := range n.entries {
		if err := writeNode(w, n.entries[i].child, scratch); err != nil {
			return err
		}
	}
	return nil
}

// Read decodes a tree written by WriteTo, carving vectors out of alloc.
func Read(r io.Reader, alloc *Allocator) (*Tree, error) {
	br := bufio.NewReader(r)
	sum := crc32.NewIEEE()
	body := io.TeeReader(br, sum)

	var h header
	if err := binary.Read(body, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("%w: bad magic %#x", ErrCorrupt, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, h.Version)
	}
	distance, ok := distanceFromCode(h.Distance)
	if !ok {
		return nil, fmt.Errorf("%w: unknown distance %d", ErrCorrupt, h.Distance)
	}
	t, err := New(alloc, int(h.Order), int(h.Dims), WithDistance(distance))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if h.Nodes > 0 {
		d := &decoder{r: body, alloc: alloc, tree: t, scratch: make([]byte, 8+4*t.dims), budget: h.Nodes}
		if t.root, err = d.node(1, int(h.Depth)); err != nil {
			return nil, err
		}
		if d.budget != 0 {
			return nil, fmt.Errorf("%w: %d nodes missing", ErrCorrupt, d.budget)
		}
		t.size = d.objects
		t.depth = int(h.Depth)
	}
	var trailer [4]byte
	if _, err := io.ReadFull(br, trailer[:]); err != nil {
		return nil, fmt.Errorf("%w: trailer: %v", ErrCorrupt, err)
	}
	if got := binary.LittleEndian.Uint32(trailer[:]); got != sum.Sum32() {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	if uint64(t.size) != h.Size {
		return nil, fmt.Errorf("%w: %d objects decoded, header says %d", ErrCorrupt, t.size, h.Size)
	}
	return t, nil
}

type decoder struct {
	r       io.Reader
	alloc   *Allocator
	tree    *Tree
	scratch []byte
	budget  uint64
	objects int
}

func (d *decoder) node(level, depth int) (*node, error) {
	if d.budget == 0 || level > depth {
		return nil, fmt.Errorf("%w: node outside declared shape at level %d", ErrCorrupt, level)
	}
	d.budget--
	var head [5]byte
	if _, err := io.ReadFull(d.r, head[:]); err != nil {
		return nil, fmt.Errorf("%w: node: %v", ErrCorrupt, err)
	}
	leaf := head[0] == kindLeaf
	if head[0] > kindLeaf || leaf != (level == depth) {
		return nil, fmt.Errorf("%w: unexpected node kind %d at level %d", ErrCorrupt, head[0], level)
	}
	count := binary.LittleEndian.Uint32(head[1:])
	if count == 0 || int(count) > d.tree.order {
		return nil, fmt.Errorf("%w: node with %d entries", ErrCorrupt, count)
	}
	n := newNode(leaf, d.tree.order)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(d.r, d.scratch); err != nil {
			return nil, fmt.Errorf("%w: entry: %v", ErrCorrupt, err)
		}
		e := entry{count: int(binary.LittleEndian.Uint64(d.scratch)), vector: d.alloc.Float32s(d.tree.dims)}
		for j := range e.vector {
			e.vector[j] = math.Float32frombits(binary.LittleEndian.Uint32(d.scratch[8+4*j:]))
		}
		if leaf {
			e.object = &Object{Vector: e.vector}
			d.objects++
		}
		n.entries = append(n.entries, e)
	}
	if !leaf {
		for i := range n.entries {
			child, err := d.node(level+1, depth)
			if err != nil {
				return nil, err
			}
			n.entries[i].child = child
		}
	}
	return n, nil
}
