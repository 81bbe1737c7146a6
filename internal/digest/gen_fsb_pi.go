//go:build ignore

// gen_fsb_pi writes fsb_pi.bin: the first 272384 bytes of the binary
// expansion of the fractional part of pi, computed with the Chudnovsky
// series by binary splitting.
//
//	go run gen_fsb_pi.go
package main

import (
	"log"
	"math"
	"math/big"
	"os"
)

const (
	tableBytes = 272384
	guardBits  = 128
	outFile    = "fsb_pi.bin"
)

// split returns P(a,b), Q(a,b) and T(a,b) of the Chudnovsky series.
func split(a, b int64) (p, q, t *big.Int) {
	if b-a == 1 {
		if a == 0 {
			p, q = big.NewInt(1), big.NewInt(1)
		} else {
			p = big.NewInt(6*a - 5)
			p.Mul(p, big.NewInt(2*a-1))
			p.Mul(p, big.NewInt(6*a-1))
			q = big.NewInt(a)
			q.Mul(q, big.NewInt(a))
			q.Mul(q, big.NewInt(a))
			q.Mul(q, big.NewInt(10939058860032000))
		}
		t = new(big.Int).Mul(p, big.NewInt(13591409+545140134*a))
		if a&1 == 1 {
			t.Neg(t)
		}
		return p, q, t
	}

	m := (a + b) / 2
	p1, q1, t1 := split(a, m)
	p2, q2, t2 := split(m, b)

	p = new(big.Int).Mul(p1, p2)
	q = new(big.Int).Mul(q1, q2)
	t = new(big.Int).Mul(t1, q2)
	t.Add(t, new(big.Int).Mul(p1, t2))
	return p, q, t
}

func main() {
	precision := uint(tableBytes*8 + guardBits)
	// Each term contributes about 14.18 decimal digits.
	terms := int64(float64(precision)*math.Log10(2)/14.18) + 2

	_, q, t := split(0, terms)

	root := new(big.Int).Lsh(big.NewInt(10005), 2*precision)
	root.Sqrt(root)

	pi := new(big.Int).Mul(q, big.NewInt(426880))
	pi.Mul(pi, root)
	pi.Quo(pi, t)

	pi.Sub(pi, new(big.Int).Lsh(big.NewInt(3), precision))
	pi.Rsh(pi, guardBits)

	if err := os.WriteFile(outFile, pi.FillBytes(make([]byte, tableBytes)), 0o600); err != nil {
		log.Fatal(err)
	}
}
