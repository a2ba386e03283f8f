package vector

import (
	"encoding/binary"
	"io"
	"math"
	"slices"
)

// Real is a dense vector of float32 coordinates. Overlap is cosine similarity.
type Real struct {
	coords []float32
}

// NewReal creates a zero real vector.
func NewReal(dimension int) *Real {
	return &Real{coords: make([]float32, dimension)}
}

// NewRealFrom creates a real vector holding a copy of coords.
func NewRealFrom(coords []float32) *Real {
	return &Real{coords: slices.Clone(coords)}
}

// Coordinates returns the underlying coordinates. The slice is shared with the vector.
func (v *Real) Coordinates() []float32 { return v.coords }

func (v *Real) Type() Type { return TypeReal }

func (v *Real) Dimension() int { return len(v.coords) }

func (v *Real) IsZero() bool {
	for _, c := range v.coords {
		if c != 0 {
			return false
		}
	}
	return true
}

func (v *Real) Copy() Vector { return NewRealFrom(v.coords) }

func (v *Real) Superpose(other Vector, weight float64, perm Permutation) error {
	if err := checkCompatible(v, other); err != nil {
		return err
	}
	if err := perm.validate(len(v.coords)); err != nil {
		return err
	}
	o := other.(*Real)
	for i, c := range o.coords {
		if c == 0 {
			continue
		}
		j := perm.target(i)
		v.coords[j] = float32(float64(v.coords[j]) + weight*float64(c))
	}
	return nil
}

func (v *Real) Normalize() {
	norm := v.norm()
	if norm == 0 {
		return
	}
	inv := 1 / norm
	for i, c := range v.coords {
		v.coords[i] = float32(float64(c) * inv)
	}
}

func (v *Real) MeasureOverlap(other Vector) (float64, error) {
	if err := checkCompatible(v, other); err != nil {
		return 0, err
	}
	o := other.(*Real)
	var dot, na2, nb2 float64
	for i := range v.coords {
		a := float64(v.coords[i])
		b := float64(o.coords[i])
		dot += a * b
		na2 += a * a
		nb2 += b * b
	}
	if na2 == 0 || nb2 == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2)), nil
}

func (v *Real) norm() float64 {
	var sum float64
	for _, c := range v.coords {
		sum += float64(c) * float64(c)
	}
	return math.Sqrt(sum)
}

// WriteTo writes the coordinates as big-endian IEEE 754 float32 values.
func (v *Real) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 4*len(v.coords))
	for i, c := range v.coords {
		binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(c))
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom reads Dimension() big-endian float32 values.
func (v *Real) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 4*len(v.coords))
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return int64(n), err
	}
	for i := range v.coords {
		v.coords[i] = math.Float32frombits(binary.BigEndian.Uint32(buf[i*4:]))
	}
	return int64(n), nil
}
