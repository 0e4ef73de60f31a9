// Package Gen produces random point sets and square queries for experiments, and stores them as
// workload files so a run can be repeated.
package Gen

import (
	"errors"
	"fmt"
	"math/rand"

	RT "github.com/g-m-twostay/range-trees"
)

var (
	// ErrInvertedRange is returned by SetRange when hi<lo.
	ErrInvertedRange = errors.New("upper bound smaller than lower bound")
	// ErrQueryTooWide means the query side doesn't fit in the coordinate range.
	ErrQueryTooWide = errors.New("query side greater than coordinate range")
)

// Generator draws coordinates uniformly from [lo,hi]. It isn't safe for concurrent use.
type Generator struct {
	rg     *rand.Rand
	lo, hi uint32
}

// New generator with a deterministic seed and coordinates in [0,1].
func New(seed int64) *Generator {
	return &Generator{rg: rand.New(rand.NewSource(seed)), lo: 0, hi: 1}
}

// SetRange of future coordinates to [lo,hi].
func (u *Generator) SetRange(lo, hi uint32) error {
	if hi < lo {
		return fmt.Errorf("%w: [%d,%d]", ErrInvertedRange, lo, hi)
	}
	u.lo, u.hi = lo, hi
	return nil
}

// Range of coordinates.
func (u *Generator) Range() (lo, hi uint32) {
	return u.lo, u.hi
}

func (u *Generator) coord(lo, hi uint32) uint32 {
	return lo + uint32(u.rg.Int63n(int64(hi-lo)+1))
}

// Points returns n points with ids 1..n.
func (u *Generator) Points(n uint32) []RT.Point {
	pts := make([]RT.Point, n)
	for i := range pts {
		pts[i] = RT.Point{ID: uint32(i + 1), X: u.coord(u.lo, u.hi), Y: u.coord(u.lo, u.hi)}
	}
	return pts
}

// Query returns a square query with the given side length that lies within the range.
func (u *Generator) Query(side uint32) (RT.Query, error) {
	if u.hi-u.lo < side {
		return RT.Query{}, fmt.Errorf("%w: side %d, range [%d,%d]", ErrQueryTooWide, side, u.lo, u.hi)
	}
	x, y := u.coord(u.lo, u.hi-side), u.coord(u.lo, u.hi-side)
	return RT.Query{XLo: x, XHi: x + side, YLo: y, YHi: y + side}, nil
}

// Queries returns k queries of the same side length.
func (u *Generator) Queries(k int, side uint32) ([]RT.Query, error) {
	qs := make([]RT.Query, k)
	for i := range qs {
		q, err := u.Query(side)
		if err != nil {
			return nil, err
		}
		qs[i] = q
	}
	return qs, nil
}
