package Baselines

import (
	RT "github.com/g-m-twostay/range-trees"
	"github.com/google/btree"
)

const degree = 32

// BTree keeps the points in a B-tree ordered on x.
type BTree struct {
	t *btree.BTreeG[RT.Point]
}

func lessX(a, b RT.Point) bool {
	return RT.CmpX(a, b) < 0
}

func (u *BTree) Construct(pts []RT.Point, _ bool) error {
	if u.t != nil {
		return RT.ErrAlreadyBuilt
	}
	u.t = btree.NewG(degree, lessX)
	for _, p := range pts {
		u.t.ReplaceOrInsert(p)
	}
	return nil
}

func (u *BTree) Report(q RT.Query, found []RT.Point) []RT.Point {
	if u.t == nil || q.Empty() {
		return found
	}
	u.t.AscendGreaterOrEqual(RT.Point{X: q.XLo}, func(p RT.Point) bool {
		if p.X > q.XHi {
			return false
		}
		if q.Contains(p) {
			found = append(found, p)
		}
		return true
	})
	return found
}

func (u *BTree) Len() int {
	if u.t == nil {
		return 0
	}
	return u.t.Len()
}
