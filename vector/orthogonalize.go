package vector

import (
	"math"

	"github.com/bits-and-blooms/bitset"
)

// OrthogonalizeVectors runs Gram-Schmidt over vectors in place. Vector k is
// normalized and then made orthogonal to vectors 0..k-1, renormalizing after
// every subtraction, so the last vector ends up orthogonal to all of its
// predecessors.
//
// Binary vectors cannot be scaled, so vector k is instead pushed towards
// orthogonality by flipping bits, one at a time, while the summed squared
// overlap with its predecessors keeps falling. Bit granularity leaves a
// residual overlap of at most 2/dimension per predecessor in the usual case.
//
// All vectors must share type and dimension. Incompatible input is rejected
// before any vector is modified.
func OrthogonalizeVectors(vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	for _, v := range vectors[1:] {
		if err := checkCompatible(vectors[0], v); err != nil {
			return err
		}
	}
	for k, kth := range vectors {
		kth.Normalize()
		if b, ok := kth.(*Binary); ok {
			b.orthogonalize(vectors[:k])
			continue
		}
		for j := 0; j < k; j++ {
			if err := subtractProjection(kth, vectors[j]); err != nil {
				return err
			}
			kth.Normalize()
		}
	}
	return nil
}

func subtractProjection(v, basis Vector) error {
	if c, ok := v.(*Complex); ok {
		c.subtractProjection(basis.(*Complex))
		return nil
	}
	overlap, err := v.MeasureOverlap(basis)
	if err != nil {
		return err
	}
	return v.Superpose(basis, -overlap, nil)
}

// orthogonalize flips the bit of v that most reduces the summed squared
// dot product with basis, in bipolar form, until no single flip helps.
func (v *Binary) orthogonalize(basis []Vector) {
	if v.zero || len(basis) == 0 {
		return
	}
	d := v.dimension
	var preds []*bitset.BitSet
	var dots []int
	for _, b := range basis {
		o := b.(*Binary)
		if o.zero {
			continue
		}
		bits := o.current()
		preds = append(preds, bits)
		dots = append(dots, d-2*int(v.bits.SymmetricDifferenceCardinality(bits)))
	}
	if len(preds) == 0 {
		return
	}

	// Flipping bit i moves every dot product by 2 towards or away from zero.
	// The squared sum falls by 4*(gain-len(preds)), so a flip must gain more
	// than len(preds) to help.
	for {
		best, bestGain := -1, len(preds)
		for i := 0; i < d; i++ {
			set := v.bits.Test(uint(i))
			gain := 0
			for j, p := range preds {
				if p.Test(uint(i)) == set {
					gain += dots[j]
				} else {
					gain -= dots[j]
				}
			}
			if gain > bestGain {
				best, bestGain = i, gain
			}
		}
		if best < 0 {
			return
		}
		set := v.bits.Test(uint(best))
		for j, p := range preds {
			if p.Test(uint(best)) == set {
				dots[j] -= 2
			} else {
				dots[j] += 2
			}
		}
		v.bits.Flip(uint(best))
	}
}

// NearestVector returns the index of the candidate with the highest overlap
// with v. Ties resolve to the lowest index.
func NearestVector(v Vector, candidates []Vector) (int, error) {
	if len(candidates) == 0 {
		return 0, ErrNoCandidates
	}
	nearest := 0
	best, err := v.MeasureOverlap(candidates[0])
	if err != nil {
		return 0, err
	}
	for i := 1; i < len(candidates); i++ {
		sim, err := v.MeasureOverlap(candidates[i])
		if err != nil {
			return 0, err
		}
		if sim > best {
			best, nearest = sim, i
		}
	}
	return nearest, nil
}

// CompareWithProjection scores v against the subspace spanned by an
// orthonormal basis: the square root of the summed squared overlaps.
func CompareWithProjection(v Vector, basis []Vector) (float64, error) {
	var score float64
	for _, b := range basis {
		sim, err := v.MeasureOverlap(b)
		if err != nil {
			return 0, err
		}
		score += sim * sim
	}
	return math.Sqrt(score), nil
}
