package sphere

import (
	"errors"
	"fmt"
)

// ErrInvalidDivisions is returned when a sphere is requested with fewer
// than one edge subdivision.
var ErrInvalidDivisions = errors.New("sphere: divisions must be at least 1")

// Kind distinguishes the two poles from ordinary section fields.
type Kind uint8

const (
	KindSXY Kind = iota
	KindNorth
	KindSouth
)

// Index identifies one field of the geodesic tiling: the north pole, the
// south pole, or a (section, x, y) cell. Section is one of five
// longitudinal strips; x runs 0..2d-1 pole to pole along the strip and
// y runs 0..d-1 across it.
//
// Index is comparable and safe to use as a map key.
type Index struct {
	Kind    Kind
	S, X, Y int
}

// NorthIndex returns the index of the north pole field.
func NorthIndex() Index { return Index{Kind: KindNorth} }

// SouthIndex returns the index of the south pole field.
func SouthIndex() Index { return Index{Kind: KindSouth} }

// SXYIndex returns the index of the field at (s, x, y).
func SXYIndex(s, x, y int) Index { return Index{Kind: KindSXY, S: s, X: x, Y: y} }

func (i Index) String() string {
	switch i.Kind {
	case KindNorth:
		return "north"
	case KindSouth:
		return "south"
	default:
		return fmt.Sprintf("s%d(%d,%d)", i.S, i.X, i.Y)
	}
}

// FieldCount returns the number of fields of a sphere with d divisions:
// ten fields per squared division plus the two poles.
func FieldCount(d int) int {
	return 10*d*d + 2
}

// Pentagonal reports whether the field has only five neighbours. The
// twelve pentagons are the poles and the two icosahedron vertices owned
// by each section.
func Pentagonal(i Index, d int) bool {
	if i.Kind != KindSXY {
		return true
	}
	return i.Y == 0 && (i.X+1)%d == 0
}

// Flatten maps an index into the dense range [0, FieldCount(d)). North is
// 0, south is 1, section fields follow in (s, x, y) order.
func Flatten(i Index, d int) int {
	switch i.Kind {
	case KindNorth:
		return 0
	case KindSouth:
		return 1
	default:
		return i.S*2*d*d + i.X*d + i.Y + 2
	}
}

// Unflatten is the inverse of Flatten.
func Unflatten(flat, d int) Index {
	switch flat {
	case 0:
		return NorthIndex()
	case 1:
		return SouthIndex()
	}
	n := flat - 2
	s := n / (2 * d * d)
	n -= s * 2 * d * d
	return SXYIndex(s, n/d, n%d)
}
