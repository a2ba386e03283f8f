package vector

import (
	"encoding/binary"
	"io"
	"math"
	"math/cmplx"
	"slices"
)

// Complex is a dense vector of complex64 coordinates. Overlap is the
// magnitude of the Hermitian inner product divided by the norms.
type Complex struct {
	coords []complex64
}

// NewComplex creates a zero complex vector.
func NewComplex(dimension int) *Complex {
	return &Complex{coords: make([]complex64, dimension)}
}

// NewComplexFrom creates a complex vector holding a copy of coords.
func NewComplexFrom(coords []complex64) *Complex {
	return &Complex{coords: slices.Clone(coords)}
}

// Coordinates returns the underlying coordinates. The slice is shared with the vector.
func (v *Complex) Coordinates() []complex64 { return v.coords }

func (v *Complex) Type() Type { return TypeComplex }

func (v *Complex) Dimension() int { return len(v.coords) }

func (v *Complex) IsZero() bool {
	for _, c := range v.coords {
		if c != 0 {
			return false
		}
	}
	return true
}

func (v *Complex) Copy() Vector { return NewComplexFrom(v.coords) }

func (v *Complex) Superpose(other Vector, weight float64, perm Permutation) error {
	if err := checkCompatible(v, other); err != nil {
		return err
	}
	if err := perm.validate(len(v.coords)); err != nil {
		return err
	}
	o := other.(*Complex)
	w := complex(weight, 0)
	for i, c := range o.coords {
		if c == 0 {
			continue
		}
		j := perm.target(i)
		v.coords[j] = complex64(complex128(v.coords[j]) + w*complex128(c))
	}
	return nil
}

func (v *Complex) Normalize() {
	norm := math.Sqrt(v.squaredNorm())
	if norm == 0 {
		return
	}
	inv := complex(1/norm, 0)
	for i, c := range v.coords {
		v.coords[i] = complex64(complex128(c) * inv)
	}
}

func (v *Complex) MeasureOverlap(other Vector) (float64, error) {
	if err := checkCompatible(v, other); err != nil {
		return 0, err
	}
	o := other.(*Complex)
	na2, nb2 := v.squaredNorm(), o.squaredNorm()
	if na2 == 0 || nb2 == 0 {
		return 0, nil
	}
	return cmplx.Abs(v.inner(o)) / (math.Sqrt(na2) * math.Sqrt(nb2)), nil
}

// inner returns the Hermitian inner product sum(v[i] * conj(o[i])).
func (v *Complex) inner(o *Complex) complex128 {
	var dot complex128
	for i := range v.coords {
		dot += complex128(v.coords[i]) * cmplx.Conj(complex128(o.coords[i]))
	}
	return dot
}

// subtractProjection removes the component of v along the unit vector u.
func (v *Complex) subtractProjection(u *Complex) {
	coeff := v.inner(u)
	for i := range v.coords {
		v.coords[i] = complex64(complex128(v.coords[i]) - coeff*complex128(u.coords[i]))
	}
}

func (v *Complex) squaredNorm() float64 {
	var sum float64
	for _, c := range v.coords {
		re, im := float64(real(c)), float64(imag(c))
		sum += re*re + im*im
	}
	return sum
}

// WriteTo writes each coordinate as a big-endian float32 real part followed
// by a big-endian float32 imaginary part.
func (v *Complex) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 8*len(v.coords))
	for i, c := range v.coords {
		binary.BigEndian.PutUint32(buf[i*8:], math.Float32bits(real(c)))
		binary.BigEndian.PutUint32(buf[i*8+4:], math.Float32bits(imag(c)))
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom reads 2*Dimension() big-endian float32 values.
func (v *Complex) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 8*len(v.coords))
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return int64(n), err
	}
	for i := range v.coords {
		re := math.Float32frombits(binary.BigEndian.Uint32(buf[i*8:]))
		im := math.Float32frombits(binary.BigEndian.Uint32(buf[i*8+4:]))
		v.coords[i] = complex(re, im)
	}
	return int64(n), nil
}
