package digest

import (
	"bytes"
	_ "embed"
	"encoding/binary"
	"hash"
	"math/bits"
	"sync"

	"github.com/jzelinskie/whirlpool"
)

//go:generate go run gen_fsb_pi.go

// fsbPi holds the leading bytes of the binary expansion of the fractional
// part of pi (0x243f6a88...). The FSB matrices are cut from it.
//
//go:embed fsb_pi.bin
var fsbPi []byte

// fsbParams is one FSB parameter set.
//
// The compression function reads s input bits (the r-bit chaining value
// followed by one message block), splits them into w selectors of
// log2(n/w) bits and XORs the w selected columns of an r x n quasi-cyclic
// matrix. Each r x r block of the matrix is the truncated circulant of a
// p-bit vector taken from fsbPi.
type fsbParams struct {
	n, w, r, p, s int
	size          int

	once    sync.Once
	vectors [][]byte
}

var (
	fsb160Params = &fsbParams{n: 5 << 18, w: 80, r: 640, p: 653, s: 1120, size: 20}
	fsb256Params = &fsbParams{n: 1 << 21, w: 128, r: 1024, p: 1061, s: 1792, size: 32}
	fsb512Params = &fsbParams{n: 31 << 16, w: 248, r: 1984, p: 1987, s: 3224, size: 64}
)

func (fp *fsbParams) blockSize() int { return (fp.s - fp.r) / 8 }

func (fp *fsbParams) selectorBits() int { return bits.Len(uint(fp.n/fp.w)) - 1 }

// expanded returns, for every matrix block, its p-bit vector followed by
// the first r bits of the same vector. Column c of the block is then the r
// bits starting at bit (p-c) mod p. The table is built once per parameter
// set and shared by every hasher.
func (fp *fsbParams) expanded() [][]byte {
	fp.once.Do(func() {
		stride := fp.p/8 + 1
		total := fp.p + fp.r
		fp.vectors = make([][]byte, fp.n/fp.r)
		for b := range fp.vectors {
			v := fsbPi[b*stride : (b+1)*stride]
			e := make([]byte, (total+7)/8+1)
			for k := range total {
				src := k % fp.p
				if v[src>>3]&(0x80>>(src&7)) != 0 {
					e[k>>3] |= 0x80 >> (k & 7)
				}
			}
			fp.vectors[b] = e
		}
	})
	return fp.vectors
}

// compress replaces state with the compression of state || block.
func (fp *fsbParams) compress(state, block []byte) {
	// Two spare bytes let every selector be read as one 24-bit window.
	in := make([]byte, fp.s/8+2)
	copy(in, state)
	copy(in[len(state):], block)

	width := fp.selectorBits()
	mask := uint32(1)<<width - 1
	perSelector := fp.n / fp.w
	vectors := fp.expanded()

	clear(state)
	for i := range fp.w {
		pos := i * width
		q := pos >> 3
		window := uint32(in[q])<<16 | uint32(in[q+1])<<8 | uint32(in[q+2])
		sel := int((window >> uint(24-width-(pos&7))) & mask)

		col := i*perSelector + sel
		shift := col % fp.r
		start := 0
		if shift != 0 {
			start = fp.p - shift
		}

		e := vectors[col/fp.r]
		off, m := start>>3, uint(start&7)
		if m == 0 {
			for j := range state {
				state[j] ^= e[off+j]
			}
			continue
		}
		for j := range state {
			state[j] ^= e[off+j]<<m | e[off+j+1]>>(8-m)
		}
	}
}

// fsbDigest is a hash.Hash for one FSB parameter set. Messages are padded
// Merkle-Damgard style with a 64-bit big-endian bit length, and the final
// chaining value is passed through Whirlpool and truncated to the output
// size.
type fsbDigest struct {
	params *fsbParams
	state  []byte
	buf    []byte
	n      int
	length uint64
}

func newFSB(fp *fsbParams) hash.Hash {
	return &fsbDigest{
		params: fp,
		state:  make([]byte, fp.r/8),
		buf:    make([]byte, fp.blockSize()),
	}
}

func (d *fsbDigest) Size() int { return d.params.size }

func (d *fsbDigest) BlockSize() int { return len(d.buf) }

func (d *fsbDigest) Reset() {
	clear(d.state)
	d.n = 0
	d.length = 0
}

func (d *fsbDigest) Write(p []byte) (int, error) {
	written := len(p)
	d.length += uint64(written)
	for len(p) > 0 {
		k := copy(d.buf[d.n:], p)
		d.n += k
		p = p[k:]
		if d.n == len(d.buf) {
			d.params.compress(d.state, d.buf)
			d.n = 0
		}
	}
	return written, nil
}

// Sum pads a copy of the running state, so callers may keep writing.
func (d *fsbDigest) Sum(in []byte) []byte {
	c := &fsbDigest{
		params: d.params,
		state:  bytes.Clone(d.state),
		buf:    bytes.Clone(d.buf),
		n:      d.n,
		length: d.length,
	}
	c.pad()

	w := whirlpool.New()
	_, _ = w.Write(c.state)
	return append(in, w.Sum(nil)[:d.params.size]...)
}

func (d *fsbDigest) pad() {
	tail := len(d.buf) - 8
	d.buf[d.n] = 0x80
	d.n++
	if d.n > tail {
		clear(d.buf[d.n:])
		d.params.compress(d.state, d.buf)
		d.n = 0
	}
	clear(d.buf[d.n:tail])
	binary.BigEndian.PutUint64(d.buf[tail:], d.length<<3)
	d.params.compress(d.state, d.buf)
}
