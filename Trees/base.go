package Trees

import (
	"fmt"
	"io"
	"math/bits"
	"strings"
	"unsafe"

	RT "github.com/g-m-twostay/range-trees"
	"github.com/g-m-twostay/range-trees/Logger"
	"golang.org/x/exp/constraints"
)

var log = Logger.New("Trees")

// A node in the arena. Index 0 is nil; ifs[0] is a placeholder and never a real node.
// p is the parent index, 0 for the root. It's only used for walking upwards.
type info[S constraints.Unsigned] struct {
	l, r, p S
}

// base is a static balanced search tree over pts ordered on ax. Node i holds pts[i-1], and because
// the tree is built from the sorted pts, the index order of the nodes is their in-order as well:
// i<j iff pts[i-1] is before pts[j-1] on ax.
type base[S constraints.Unsigned] struct {
	root S
	ax   RT.Axis
	ifs  []info[S] // len(ifs)=len(pts)+1
	pts  []RT.Point
}

// newBase builds the tree over pts, which must already be sorted on ax. pts is owned by the tree afterwards.
func newBase[S constraints.Unsigned](ax RT.Axis, pts []RT.Point) base[S] {
	root, ifs := buildIfs(S(len(pts)))
	return base[S]{root: root, ax: ax, ifs: ifs, pts: pts}
}

// fits reports whether n nodes can be addressed by S.
func fits[S constraints.Unsigned](n int) bool {
	return uint64(n) <= uint64(^S(0))
}

func (u *base[S]) at(i S) RT.Point {
	return u.pts[i-1]
}

// Len is the number of points in the tree.
func (u *base[S]) Len() int {
	return len(u.pts)
}

// depth of node i, the root has depth 1.
func (u *base[S]) depth(i S) (d int) {
	for ; i != 0; i = u.ifs[i].p {
		d++
	}
	return
}

// Height of the tree, 0 when it's empty.
func (u *base[S]) Height() (h int) {
	for i := range len(u.pts) {
		if n := S(i + 1); u.ifs[n].l == 0 && u.ifs[n].r == 0 {
			h = max(h, u.depth(n))
		}
	}
	return
}

// successor of v: the first node whose coordinate on ax is >= v, or 0.
func (u *base[S]) successor(v uint32) (s S) {
	for cur := u.root; cur != 0; {
		if u.ax.Of(u.at(cur)) >= v {
			s = cur
			cur = u.ifs[cur].l
		} else {
			cur = u.ifs[cur].r
		}
	}
	return
}

// predecessor of v: the last node whose coordinate on ax is <= v, or 0.
func (u *base[S]) predecessor(v uint32) (p S) {
	for cur := u.root; cur != 0; {
		if u.ax.Of(u.at(cur)) <= v {
			p = cur
			cur = u.ifs[cur].r
		} else {
			cur = u.ifs[cur].l
		}
	}
	return
}

// bounds of q on ax as the successor of the lower bound and the predecessor of the upper bound.
// ok is false when no node falls in between.
func (u *base[S]) bounds(q RT.Query) (s, p S, ok bool) {
	lo, hi := u.ax.Bounds(q)
	if s = u.successor(lo); s == 0 {
		return
	}
	if p = u.predecessor(hi); p == 0 || s > p {
		return
	}
	return s, p, true
}

// lca of s and p, s<=p: the first node on the way down from the root that lies between them.
func (u *base[S]) lca(s, p S) S {
	for cur := u.root; cur != 0; {
		if cur < s {
			cur = u.ifs[cur].r
		} else if cur > p {
			cur = u.ifs[cur].l
		} else {
			return cur
		}
	}
	return 0
}

// walk reports the lca of s and p and every node on the two paths below it that's inside q. The
// roots of the canonical subtrees hanging off those paths between s and p are handed to sub.
func (u *base[S]) walk(q RT.Query, s, p S, found []RT.Point, sub func(S, []RT.Point) []RT.Point) []RT.Point {
	a := u.lca(s, p)
	if pt := u.at(a); q.Contains(pt) {
		found = append(found, pt)
	}
	if a != s {
		for cur := u.ifs[a].l; ; {
			if pt := u.at(cur); q.Contains(pt) {
				found = append(found, pt)
			}
			if s <= cur {
				if r := u.ifs[cur].r; r != 0 {
					found = sub(r, found)
				}
				if s == cur {
					break
				}
				cur = u.ifs[cur].l
			} else {
				cur = u.ifs[cur].r
			}
		}
	}
	if a != p {
		for cur := u.ifs[a].r; ; {
			if pt := u.at(cur); q.Contains(pt) {
				found = append(found, pt)
			}
			if cur <= p {
				if l := u.ifs[cur].l; l != 0 {
					found = sub(l, found)
				}
				if p == cur {
					break
				}
				cur = u.ifs[cur].r
			} else {
				cur = u.ifs[cur].l
			}
		}
	}
	return found
}

// span of the subtree at i. A subtree covers a contiguous run of indexes.
func (u *base[S]) span(i S) []RT.Point {
	lo, hi := i, i
	for u.ifs[lo].l != 0 {
		lo = u.ifs[lo].l
	}
	for u.ifs[hi].r != 0 {
		hi = u.ifs[hi].r
	}
	return u.pts[lo-1 : hi]
}

// report every point of the tree inside q, reporting canonical subtrees whole. Only valid when
// the tree already satisfies q on the other axis, as secondary trees do.
func (u *base[S]) report(q RT.Query, found []RT.Point) []RT.Point {
	if s, p, ok := u.bounds(q); ok {
		found = u.walk(q, s, p, found, func(i S, found []RT.Point) []RT.Point {
			return append(found, u.span(i)...)
		})
	}
	return found
}

// inOrder traversal of the subtree at i with an explicit stack. Stops early if f returns false.
// st is a reusable buffer and is returned for the next call.
func (u *base[S]) inOrder(i S, f func(RT.Point) bool, st []S) []S {
	curI := i
	for st = st[:0]; curI != 0; curI = u.ifs[curI].l {
		st = append(st, curI)
	}
	for len(st) > 0 {
		curI, st = st[len(st)-1], st[:len(st)-1]
		if !f(u.at(curI)) {
			break
		}
		for curI = u.ifs[curI].r; curI != 0; curI = u.ifs[curI].l {
			st = append(st, curI)
		}
	}
	return st
}

// Print the tree sideways to w, right subtree on top, one node per line. For debugging only.
func (u *base[S]) Print(w io.Writer) error {
	return u.print(w, u.root, 0)
}

func (u *base[S]) print(w io.Writer, i S, level int) error {
	if i == 0 {
		return nil
	}
	if err := u.print(w, u.ifs[i].r, level+1); err != nil {
		return err
	}
	var parent uint32
	if pi := u.ifs[i].p; pi != 0 {
		parent = u.at(pi).ID
	}
	pt := u.at(i)
	if _, err := fmt.Fprintf(w, "%s(id=%d, x=%d, y=%d, parent=%d)\n", strings.Repeat("        ", level), pt.ID, pt.X, pt.Y, parent); err != nil {
		return err
	}
	return u.print(w, u.ifs[i].l, level+1)
}

// overflowMid is equivalent to (a+b)/2 but deals with overflow.
func overflowMid[S constraints.Unsigned](a, b S) S {
	d := a + b
	overflowed := d < a
	c := (^S(0)) >> S(*(*byte)(unsafe.Pointer(&overflowed)))
	return d>>1 | ^c
}

// buildIfs of n nodes as a balanced tree whose in-order is 1..n. Every range [l,r] is split at its
// midpoint; children get their parent set as they're attached.
// Time: O(n); Space: O(log n) besides the result.
func buildIfs[S constraints.Unsigned](n S) (root S, ifs []info[S]) {
	ifs = make([]info[S], int(n)+1)
	if n == 0 {
		return
	}
	st := make([][3]S, 0, bits.Len64(uint64(n))+1) //[left,right,mid]
	root = overflowMid(S(1), n)
	st = append(st, [3]S{1, n, root})
	for len(st) > 0 {
		top := st[len(st)-1]
		st = st[:len(st)-1]
		if top[0] < top[2] {
			nr := top[2] - 1
			l := overflowMid(top[0], nr)
			ifs[top[2]].l, ifs[l].p = l, top[2]
			st = append(st, [3]S{top[0], nr, l})
		}
		if top[2] < top[1] {
			nl := top[2] + 1
			r := overflowMid(nl, top[1])
			ifs[top[2]].r, ifs[r].p = r, top[2]
			st = append(st, [3]S{nl, top[1], r})
		}
	}
	return
}
