package Baselines

import (
	"github.com/emirpasic/gods/trees/redblacktree"
	RT "github.com/g-m-twostay/range-trees"
)

func cmpX(a, b interface{}) int {
	return RT.CmpX(a.(RT.Point), b.(RT.Point))
}

// RBTree keeps the points in a red-black tree ordered on x.
type RBTree struct {
	t *redblacktree.Tree
}

func (u *RBTree) Construct(pts []RT.Point, _ bool) error {
	if u.t != nil {
		return RT.ErrAlreadyBuilt
	}
	u.t = redblacktree.NewWith(cmpX)
	for _, p := range pts {
		u.t.Put(p, struct{}{})
	}
	return nil
}

func (u *RBTree) Report(q RT.Query, found []RT.Point) []RT.Point {
	if u.t == nil || q.Empty() {
		return found
	}
	return report(u.t.Root, q, found)
}

// report walks the subtree at n in order, skipping subtrees entirely outside [XLo,XHi].
// Recursive, the depth is bounded by the red-black height.
func report(n *redblacktree.Node, q RT.Query, found []RT.Point) []RT.Point {
	if n == nil {
		return found
	}
	p := n.Key.(RT.Point)
	if p.X >= q.XLo {
		found = report(n.Left, q, found)
	}
	if q.Contains(p) {
		found = append(found, p)
	}
	if p.X <= q.XHi {
		found = report(n.Right, q, found)
	}
	return found
}

func (u *RBTree) Len() int {
	if u.t == nil {
		return 0
	}
	return u.t.Size()
}
