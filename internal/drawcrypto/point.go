package drawcrypto

import (
	"fmt"

	"github.com/gtank/ristretto255"
)

const PointBytes = 32

// Point is a ristretto255 group element (canonical 32-byte encoding).
type Point struct {
	v ristretto255.Element
}

func PointIdentity() Point {
	var p Point
	p.v.Zero()
	return p
}

func PointBase() Point {
	var p Point
	p.v.Base()
	return p
}

func PointFromBytes(b []byte) (Point, error) {
	if len(b) != PointBytes {
		return Point{}, fmt.Errorf("point: expected %d bytes, got %d", PointBytes, len(b))
	}
	var p Point
	if _, err := p.v.SetCanonicalBytes(b); err != nil {
		return Point{}, fmt.Errorf("point: non-canonical: %w", err)
	}
	return p, nil
}

// PointFromUniformBytes maps 64 uniformly random bytes to a group element.
func PointFromUniformBytes(b []byte) (Point, error) {
	if len(b) != 64 {
		return Point{}, fmt.Errorf("point: expected 64 uniform bytes")
	}
	var p Point
	p.v.FromUniformBytes(b)
	return p, nil
}

func (p Point) Bytes() []byte {
	return p.v.Bytes()
}

func (p Point) IsIdentity() bool {
	return PointEq(p, PointIdentity())
}

func PointEq(a, b Point) bool {
	return a.v.Equal(&b.v) == 1
}

func PointAdd(a, b Point) Point {
	var out Point
	out.v.Add(&a.v, &b.v)
	return out
}

func PointSub(a, b Point) Point {
	var out Point
	out.v.Subtract(&a.v, &b.v)
	return out
}

func MulBase(k Scalar) Point {
	var out Point
	out.v.ScalarBaseMult(&k.v)
	return out
}

func MulPoint(p Point, k Scalar) Point {
	var out Point
	out.v.ScalarMult(&k.v, &p.v)
	return out
}

// MultiScalarMul returns sum(ks[i]*ps[i]) in variable time. Inputs are public.
func MultiScalarMul(ks []Scalar, ps []Point) (Point, error) {
	if len(ks) != len(ps) {
		return Point{}, fmt.Errorf("msm: %d scalars for %d points", len(ks), len(ps))
	}
	if len(ks) == 0 {
		return PointIdentity(), nil
	}
	scalars := make([]*ristretto255.Scalar, len(ks))
	elements := make([]*ristretto255.Element, len(ps))
	for i := range ks {
		scalars[i] = &ks[i].v
		elements[i] = &ps[i].v
	}
	var out Point
	out.v.VarTimeMultiScalarMult(scalars, elements)
	return out, nil
}
