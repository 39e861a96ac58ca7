package hnsw

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/chewxy/math32"
)

// encodeQ8 quantizes v to signed 8-bit components with a per-vector
// scale, per §4.A.1: s = max(|v_i|)/127, q_i = round(v_i/s).
func encodeQ8(v []float32) ([]int8, float32) {
	var maxAbs float32
	for _, x := range v {
		if a := math32.Abs(x); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		return make([]int8, len(v)), 0
	}
	scale := maxAbs / 127
	q := make([]int8, len(v))
	for i, x := range v {
		q[i] = int8(math32.Round(x / scale))
	}
	return q, scale
}

// decodeQ8 reconstructs an approximate float32 vector: s·q[i].
func decodeQ8(q []int8, scale float32) []float32 {
	out := make([]float32, len(q))
	for i, x := range q {
		out[i] = float32(x) * scale
	}
	return out
}

// encodeBin packs one sign bit per dimension (bit set when v_i >= 0).
func encodeBin(v []float32) *bitset.BitSet {
	bs := bitset.New(uint(len(v)))
	for i, x := range v {
		if x >= 0 {
			bs.Set(uint(i))
		}
	}
	return bs
}

// decodeBin reconstructs a lossy +1/-1 float32 vector from sign bits.
func decodeBin(bs *bitset.BitSet, d int) []float32 {
	out := make([]float32, d)
	for i := 0; i < d; i++ {
		if bs.Test(uint(i)) {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

// binaryCosineProxy approximates cosine distance between a float32
// query and a sign-bit-packed node vector via Hamming distance: the
// fraction of disagreeing sign bits is proportional to the angle
// between the two vectors for high-dimensional random vectors, per the
// standard LSH sign-random-projection argument. The query is binarized
// with the same sign rule before comparison.
func binaryCosineProxy(query []float32, stored *bitset.BitSet, d int) float32 {
	qbits := encodeBin(query)
	agree := qbits.SymmetricDifferenceCardinality(stored)
	return float32(agree) / float32(d)
}
