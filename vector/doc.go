// Package vector implements the vector types used to build distributional
// term vectors: dense real vectors, bit-packed binary vectors with a
// fixed-point vote accumulator, and complex vectors.
//
// All three types implement Vector. Vectors are created zeroed, accumulate
// evidence through Superpose and are brought to unit length with Normalize:
//
//	v, _ := vector.New(vector.TypeReal, 200)
//	_ = v.Superpose(docVector, 3, nil)
//	v.Normalize()
//	sim, _ := v.MeasureOverlap(other)
//
// Elemental (random index) vectors are generated from sparse ternary seeds,
// see GenerateRandomVector and GenerateElemental.
package vector
