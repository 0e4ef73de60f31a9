// Package Range_Trees has the types shared by the 2-D range indexes: points, queries, the
// per-axis order and the Index interface.
package Range_Trees

import "cmp"

// Point in the plane. ID breaks ties between points sharing a coordinate and must be unique
// within one constructed index.
type Point struct {
	ID, X, Y uint32
}

// Query is the closed box [XLo,XHi]x[YLo,YHi]. Inverted bounds describe an empty box.
type Query struct {
	XLo, XHi, YLo, YHi uint32
}

// Contains reports whether p lies in the box.
func (u Query) Contains(p Point) bool {
	return u.XLo <= p.X && p.X <= u.XHi && u.YLo <= p.Y && p.Y <= u.YHi
}

// Empty reports whether no point can satisfy the query.
func (u Query) Empty() bool {
	return u.XLo > u.XHi || u.YLo > u.YHi
}

// Axis selects the coordinate that orders points. The order on an axis is by that coordinate,
// then by ID.
type Axis uint8

const (
	X Axis = iota
	Y
)

// Of returns the coordinate of p on the axis.
func (a Axis) Of(p Point) uint32 {
	if a == X {
		return p.X
	}
	return p.Y
}

// Cmp compares p and q by the axis coordinate, ties by ID.
func (a Axis) Cmp(p, q Point) int {
	if c := cmp.Compare(a.Of(p), a.Of(q)); c != 0 {
		return c
	}
	return cmp.Compare(p.ID, q.ID)
}

// Bounds of the query on the axis.
func (a Axis) Bounds(q Query) (lo, hi uint32) {
	if a == X {
		return q.XLo, q.XHi
	}
	return q.YLo, q.YHi
}

func (a Axis) String() string {
	if a == X {
		return "x"
	}
	return "y"
}

// CmpX is X.Cmp, usable directly with slices.SortFunc.
func CmpX(p, q Point) int { return X.Cmp(p, q) }

// CmpY is Y.Cmp, usable directly with slices.SortFunc.
func CmpY(p, q Point) int { return Y.Cmp(p, q) }
