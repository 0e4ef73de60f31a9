package Baselines

import (
	RT "github.com/g-m-twostay/range-trees"
	"github.com/petar/GoLLRB/llrb"
)

// yItem orders points on y for the LLRB.
type yItem RT.Point

func (a yItem) Less(than llrb.Item) bool {
	return RT.CmpY(RT.Point(a), RT.Point(than.(yItem))) < 0
}

// LLRB keeps the points in a left-leaning red-black tree ordered on y.
type LLRB struct {
	t *llrb.LLRB
}

func (u *LLRB) Construct(pts []RT.Point, _ bool) error {
	if u.t != nil {
		return RT.ErrAlreadyBuilt
	}
	u.t = llrb.New()
	for _, p := range pts {
		u.t.ReplaceOrInsert(yItem(p))
	}
	return nil
}

func (u *LLRB) Report(q RT.Query, found []RT.Point) []RT.Point {
	if u.t == nil || q.Empty() {
		return found
	}
	u.t.AscendGreaterOrEqual(yItem{Y: q.YLo}, func(i llrb.Item) bool {
		p := RT.Point(i.(yItem))
		if p.Y > q.YHi {
			return false
		}
		if q.Contains(p) {
			found = append(found, p)
		}
		return true
	})
	return found
}

func (u *LLRB) Len() int {
	if u.t == nil {
		return 0
	}
	return u.t.Len()
}
