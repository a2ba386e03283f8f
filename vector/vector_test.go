package vector

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, typ := range []Type{TypeReal, TypeBinary, TypeComplex} {
		t.Run(typ.String(), func(t *testing.T) {
			v, err := New(typ, 64)
			require.NoError(t, err)
			assert.Equal(t, typ, v.Type())
			assert.Equal(t, 64, v.Dimension())
			assert.True(t, v.IsZero())
		})
	}

	_, err := New(TypeReal, 0)
	assert.ErrorIs(t, err, ErrInvalidDimension)

	_, err = New(Type(42), 8)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestParseType(t *testing.T) {
	typ, err := ParseType(" Binary ")
	require.NoError(t, err)
	assert.Equal(t, TypeBinary, typ)

	_, err = ParseType("quaternion")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestRealSuperpose(t *testing.T) {
	v := NewReal(3)
	require.NoError(t, v.Superpose(NewRealFrom([]float32{1, 0, -1}), 2, nil))
	require.NoError(t, v.Superpose(NewRealFrom([]float32{0, 1, 1}), 3, nil))
	assert.Equal(t, []float32{2, 3, 1}, v.Coordinates())

	t.Run("Permutation", func(t *testing.T) {
		v := NewReal(3)
		require.NoError(t, v.Superpose(NewRealFrom([]float32{1, 2, 3}), 1, Permutation{2, 0, 1}))
		assert.Equal(t, []float32{2, 3, 1}, v.Coordinates())
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		v := NewRealFrom([]float32{1, 1})
		err := v.Superpose(NewReal(3), 1, nil)

		var dimErr *ErrDimensionMismatch
		require.ErrorAs(t, err, &dimErr)
		assert.Equal(t, 2, dimErr.Expected)
		assert.Equal(t, 3, dimErr.Actual)
		assert.Equal(t, []float32{1, 1}, v.Coordinates())
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := NewReal(64).Superpose(NewBinary(64, 2), 1, nil)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("InvalidPermutation", func(t *testing.T) {
		err := NewReal(3).Superpose(NewReal(3), 1, Permutation{0, 1})
		assert.ErrorIs(t, err, ErrInvalidPermutation)
		err = NewReal(3).Superpose(NewReal(3), 1, Permutation{0, 1, 3})
		assert.ErrorIs(t, err, ErrInvalidPermutation)
	})
}

func TestNormalize(t *testing.T) {
	rnd := rand.New(rand.NewSource(4711))

	for _, typ := range []Type{TypeReal, TypeBinary, TypeComplex} {
		t.Run(typ.String(), func(t *testing.T) {
			v, err := New(typ, 128)
			require.NoError(t, err)
			for i := 0; i < 5; i++ {
				e, err := GenerateElemental(typ, 128, 10, rnd)
				require.NoError(t, err)
				require.NoError(t, v.Superpose(e, float64(i+1), nil))
			}

			v.Normalize()
			self, err := v.MeasureOverlap(v)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, self, 1e-5)

			once := v.Copy()
			v.Normalize()
			sim, err := v.MeasureOverlap(once)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, sim, 1e-5)
		})
	}
}

func TestNormalizeZero(t *testing.T) {
	for _, typ := range []Type{TypeReal, TypeBinary, TypeComplex} {
		t.Run(typ.String(), func(t *testing.T) {
			v, err := New(typ, 64)
			require.NoError(t, err)

			v.Normalize()
			assert.True(t, v.IsZero())

			sim, err := v.MeasureOverlap(v)
			require.NoError(t, err)
			assert.Equal(t, 0.0, sim)
		})
	}
}

func TestOrderIndependence(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for _, typ := range []Type{TypeReal, TypeBinary, TypeComplex} {
		t.Run(typ.String(), func(t *testing.T) {
			docs := make([]Vector, 20)
			weights := make([]float64, 20)
			for i := range docs {
				e, err := GenerateElemental(typ, 192, 12, rnd)
				require.NoError(t, err)
				docs[i] = e
				weights[i] = float64(rnd.Intn(5) + 1)
			}

			forward, _ := New(typ, 192)
			for i := range docs {
				require.NoError(t, forward.Superpose(docs[i], weights[i], nil))
			}
			shuffled, _ := New(typ, 192)
			for _, i := range rnd.Perm(len(docs)) {
				require.NoError(t, shuffled.Superpose(docs[i], weights[i], nil))
			}

			var a, b bytes.Buffer
			_, err := forward.WriteTo(&a)
			require.NoError(t, err)
			_, err = shuffled.WriteTo(&b)
			require.NoError(t, err)

			switch typ {
			case TypeBinary:
				assert.Equal(t, a.Bytes(), b.Bytes())
			default:
				sim, err := forward.MeasureOverlap(shuffled)
				require.NoError(t, err)
				assert.InDelta(t, 1.0, sim, 1e-5)
			}
		})
	}
}

func TestBinaryVotes(t *testing.T) {
	a := NewBinaryFromWords(64, 2, []uint64{0x00000000ffffffff})
	b := NewBinaryFromWords(64, 2, []uint64{0x0000ffff0000ffff})

	t.Run("Majority", func(t *testing.T) {
		v := NewBinary(64, 2)
		require.NoError(t, v.Superpose(a, 2, nil))
		require.NoError(t, v.Superpose(b, 1, nil))
		v.Normalize()
		assert.Equal(t, []uint64{0x00000000ffffffff}, v.Words())
	})

	t.Run("FractionalWeights", func(t *testing.T) {
		v := NewBinary(64, 2)
		require.NoError(t, v.Superpose(a, 0.26, nil))
		require.NoError(t, v.Superpose(b, 0.25, nil))
		v.Normalize()
		assert.Equal(t, []uint64{0x00000000ffffffff}, v.Words())
	})

	t.Run("TieKeepsBit", func(t *testing.T) {
		v := NewBinary(64, 2)
		require.NoError(t, v.Superpose(a, 1, nil))
		require.NoError(t, v.Superpose(b, 1, nil))
		v.Normalize()
		// Bits 16..31 and 48..63 tie and keep their cleared initial value.
		assert.Equal(t, []uint64{0x000000000000ffff}, v.Words())
	})

	t.Run("BitsUntouchedUntilNormalize", func(t *testing.T) {
		v := NewBinary(64, 2)
		require.NoError(t, v.Superpose(a, 1, nil))
		assert.Equal(t, uint(0), v.bits.Count())
		assert.Equal(t, []uint64{0x00000000ffffffff}, v.Words())
	})

	t.Run("Overlap", func(t *testing.T) {
		sim, err := a.MeasureOverlap(b)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, sim, 1e-9)

		c := NewBinaryFromWords(64, 2, []uint64{^uint64(0x00000000ffffffff)})
		sim, err = a.MeasureOverlap(c)
		require.NoError(t, err)
		assert.InDelta(t, -1.0, sim, 1e-9)

		sim, err = c.MeasureOverlap(a)
		require.NoError(t, err)
		assert.InDelta(t, -1.0, sim, 1e-9)
	})
}

func TestComplexOverlap(t *testing.T) {
	a := NewComplexFrom([]complex64{1, 1i})
	b := NewComplexFrom([]complex64{1i, -1})

	// b = i*a, the magnitude of the inner product ignores the global phase.
	sim, err := a.MeasureOverlap(b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-6)

	rev, err := b.MeasureOverlap(a)
	require.NoError(t, err)
	assert.InDelta(t, sim, rev, 1e-9)
}

func TestSerialization(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))

	for _, typ := range []Type{TypeReal, TypeBinary, TypeComplex} {
		t.Run(typ.String(), func(t *testing.T) {
			v, err := GenerateElemental(typ, 128, 16, rnd)
			require.NoError(t, err)

			var buf bytes.Buffer
			n, err := v.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)

			switch typ {
			case TypeReal:
				assert.Equal(t, 4*128, buf.Len())
			case TypeBinary:
				assert.Equal(t, 8*2, buf.Len())
			case TypeComplex:
				assert.Equal(t, 8*128, buf.Len())
			}

			out, _ := New(typ, 128)
			_, err = out.ReadFrom(&buf)
			require.NoError(t, err)
			sim, err := out.MeasureOverlap(v)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, sim, 1e-5)
		})
	}

	t.Run("Truncated", func(t *testing.T) {
		v := NewReal(8)
		_, err := v.ReadFrom(bytes.NewReader(make([]byte, 10)))
		assert.Error(t, err)
	})
}

func TestGenerateRandomVector(t *testing.T) {
	rnd := rand.New(rand.NewSource(4711))

	seed, err := GenerateRandomVector(10, 200, rnd)
	require.NoError(t, err)
	require.Len(t, seed, 10)
	assert.Equal(t, 5, seed.Positive())
	assert.Equal(t, 5, seed.Negative())

	seen := make(map[int32]bool)
	for _, p := range seed {
		if p < 0 {
			p = -p
		}
		assert.GreaterOrEqual(t, p, int32(1))
		assert.LessOrEqual(t, p, int32(200))
		assert.False(t, seen[p], "position %d drawn twice", p)
		seen[p] = true
	}

	t.Run("OddLength", func(t *testing.T) {
		seed, err := GenerateRandomVector(7, 20, rnd)
		require.NoError(t, err)
		assert.Equal(t, 3, seed.Positive())
		assert.Equal(t, 4, seed.Negative())
	})

	t.Run("FullDimension", func(t *testing.T) {
		seed, err := GenerateRandomVector(16, 16, rnd)
		require.NoError(t, err)
		assert.Len(t, seed, 16)
	})

	t.Run("TooLong", func(t *testing.T) {
		_, err := GenerateRandomVector(21, 20, rnd)
		assert.ErrorIs(t, err, ErrInvalidSeedLength)
	})
}

func TestOrthogonalizeVectors(t *testing.T) {
	t.Run("OrthonormalIsNoop", func(t *testing.T) {
		basis := []Vector{
			NewRealFrom([]float32{1, 0, 0}),
			NewRealFrom([]float32{0, 1, 0}),
			NewRealFrom([]float32{0, 0, 1}),
		}
		require.NoError(t, OrthogonalizeVectors(basis))
		assert.InDeltaSlice(t, []float32{1, 0, 0}, basis[0].(*Real).Coordinates(), 1e-6)
		assert.InDeltaSlice(t, []float32{0, 1, 0}, basis[1].(*Real).Coordinates(), 1e-6)
		assert.InDeltaSlice(t, []float32{0, 0, 1}, basis[2].(*Real).Coordinates(), 1e-6)
	})

	t.Run("LastOrthogonalToPredecessors", func(t *testing.T) {
		rnd := rand.New(rand.NewSource(3))
		for _, typ := range []Type{TypeReal, TypeComplex} {
			vs := make([]Vector, 4)
			for i := range vs {
				e, err := GenerateElemental(typ, 64, 32, rnd)
				require.NoError(t, err)
				vs[i] = e
			}
			require.NoError(t, OrthogonalizeVectors(vs))
			last := vs[len(vs)-1]
			for _, prev := range vs[:len(vs)-1] {
				sim, err := last.MeasureOverlap(prev)
				require.NoError(t, err)
				assert.InDelta(t, 0.0, sim, 1e-4, typ.String())
			}
		}
	})

	t.Run("BinaryLastNearlyOrthogonal", func(t *testing.T) {
		const dim = 256
		rnd := rand.New(rand.NewSource(3))
		vs := make([]Vector, 4)
		before := make([][]uint64, len(vs))
		for i := range vs {
			e, err := GenerateElemental(TypeBinary, dim, dim/2, rnd)
			require.NoError(t, err)
			vs[i] = e
			before[i] = e.(*Binary).Words()
		}
		require.NoError(t, OrthogonalizeVectors(vs))

		assert.Equal(t, before[0], vs[0].(*Binary).Words())
		assert.NotEqual(t, before[3], vs[3].(*Binary).Words())

		last := vs[len(vs)-1]
		for _, prev := range vs[:len(vs)-1] {
			sim, err := last.MeasureOverlap(prev)
			require.NoError(t, err)
			assert.InDelta(t, 0.0, sim, 6.0/dim)
		}
	})

	t.Run("BinaryCorrelatedPair", func(t *testing.T) {
		ones := []uint64{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
		mostly := []uint64{^uint64(0), ^uint64(0), ^uint64(0), 0x0fffffffffffffff}
		a := NewBinaryFromWords(256, 2, ones)
		b := NewBinaryFromWords(256, 2, mostly)

		sim, err := a.MeasureOverlap(b)
		require.NoError(t, err)
		require.InDelta(t, 0.96875, sim, 1e-9)

		require.NoError(t, OrthogonalizeVectors([]Vector{a, b}))
		assert.Equal(t, ones, a.Words())

		sim, err = b.MeasureOverlap(a)
		require.NoError(t, err)
		assert.Equal(t, 0.0, sim)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		a := NewRealFrom([]float32{3, 4})
		b := NewRealFrom([]float32{1, 2})
		c := NewRealFrom([]float32{1, 2, 3})

		err := OrthogonalizeVectors([]Vector{a, b, c})

		var dimErr *ErrDimensionMismatch
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, []float32{3, 4}, a.Coordinates())
		assert.Equal(t, []float32{1, 2}, b.Coordinates())
		assert.Equal(t, []float32{1, 2, 3}, c.Coordinates())
	})
}

func TestNearestVector(t *testing.T) {
	v := NewRealFrom([]float32{1, 1, 0})
	candidates := []Vector{
		NewRealFrom([]float32{0, 0, 1}),
		NewRealFrom([]float32{1, 0.9, 0}),
		NewRealFrom([]float32{1, 0, 0}),
	}

	idx, err := NearestVector(v, candidates)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = NearestVector(v, nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestCompareWithProjection(t *testing.T) {
	basis := []Vector{
		NewRealFrom([]float32{1, 0, 0}),
		NewRealFrom([]float32{0, 1, 0}),
	}

	score, err := CompareWithProjection(NewRealFrom([]float32{1, 1, 0}), basis)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-6)

	score, err = CompareWithProjection(NewRealFrom([]float32{0, 0, 1}), basis)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-6)
}

func TestPermutations(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	p := RandomPermutation(16, rnd)
	inv := InversePermutation(p)

	v := NewRealFrom([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})
	permuted := NewReal(16)
	require.NoError(t, permuted.Superpose(v, 1, p))
	back := NewReal(16)
	require.NoError(t, back.Superpose(permuted, 1, inv))
	assert.Equal(t, v.Coordinates(), back.Coordinates())

	assert.Equal(t, Permutation{1, 2, 3, 0}, ShiftPermutation(4, 1))
	assert.Equal(t, Permutation{3, 0, 1, 2}, ShiftPermutation(4, -1))
}
