// Package Baselines has simple range indexes over general purpose ordered containers. They
// scan a 1-D range and filter the other axis, O(log n + m) where m is the size of the 1-D range.
// Scan is the brute force oracle the range trees are checked against.
package Baselines

import (
	RT "github.com/g-m-twostay/range-trees"
)

var (
	_ RT.Index = (*Scan)(nil)
	_ RT.Index = (*BTree)(nil)
	_ RT.Index = (*LLRB)(nil)
	_ RT.Index = (*RBTree)(nil)
)

// Scan checks every point.
type Scan struct {
	pts   []RT.Point
	built bool
}

func (u *Scan) Construct(pts []RT.Point, _ bool) error {
	if u.built {
		return RT.ErrAlreadyBuilt
	}
	u.pts, u.built = pts, true
	return nil
}

func (u *Scan) Report(q RT.Query, found []RT.Point) []RT.Point {
	for _, p := range u.pts {
		if q.Contains(p) {
			found = append(found, p)
		}
	}
	return found
}

func (u *Scan) Len() int {
	return len(u.pts)
}
