package Trees

import (
	"cmp"
	"fmt"
	"slices"

	RT "github.com/g-m-twostay/range-trees"
	"golang.org/x/exp/constraints"
)

// cascade is an entry of a node's y sorted array. l and r are the positions in the left and right
// child's arrays of the first entry that isn't before this one on y.
type cascade[S constraints.Unsigned] struct {
	RT.Point
	l, r S
}

// FcTree is a range tree on x whose nodes keep y sorted arrays linked to their children's arrays
// by fractional cascading, so one binary search at the top locates the y bound everywhere below.
// Queries take O(log n + k). The zero value is an empty, unbuilt tree. A built tree is read only.
type FcTree[S constraints.Unsigned] struct {
	base[S]
	cas   [][]cascade[S] // cas[i] holds every point of the subtree at i; cas[0] is unused.
	built bool
}

// Construct the tree from pts, which is sorted in place. There's a single O(n log n)
// construction, so the naive flag is ignored.
func (u *FcTree[S]) Construct(pts []RT.Point, _ bool) error {
	if u.built {
		return RT.ErrAlreadyBuilt
	}
	if !fits[S](len(pts)) {
		return fmt.Errorf("%w: %d points", RT.ErrTooLarge, len(pts))
	}
	log.Debugf("constructing FcTree of %d points", len(pts))

	slices.SortFunc(pts, RT.CmpX)
	u.base = newBase[S](RT.X, slices.Clone(pts))
	u.cas = make([][]cascade[S], len(u.ifs))
	if u.root != 0 {
		slices.SortFunc(pts, RT.CmpY)
		top := make([]cascade[S], len(pts))
		for i, p := range pts {
			top[i].Point = p
		}
		u.cas[u.root] = top
		if err := u.cascade(); err != nil {
			u.base, u.cas = base[S]{}, nil
			return err
		}
	}
	u.built = true
	return nil
}

// cascade pushes every array down to the children, recording in each entry how many entries
// before it went to either side.
func (u *FcTree[S]) cascade() error {
	st := []S{u.root}
	for len(st) > 0 {
		i := st[len(st)-1]
		st = st[:len(st)-1]
		cur, mid := u.ifs[i], u.at(i)
		for _, c := range [2]S{cur.l, cur.r} {
			if c == 0 {
				continue
			}
			if u.cas[c] != nil {
				pt := u.at(c)
				return fmt.Errorf("%w: node id=%d x=%d y=%d", RT.ErrSecondaryBuilt, pt.ID, pt.X, pt.Y)
			}
			u.cas[c] = make([]cascade[S], 0, len(u.span(c)))
			st = append(st, c)
		}
		var nl, nr S
		for k := range u.cas[i] {
			e := &u.cas[i][k]
			e.l, e.r = nl, nr
			if c := RT.CmpX(e.Point, mid); c < 0 {
				u.cas[cur.l] = append(u.cas[cur.l], cascade[S]{Point: e.Point})
				nl++
			} else if c > 0 {
				u.cas[cur.r] = append(u.cas[cur.r], cascade[S]{Point: e.Point})
				nr++
			}
		}
	}
	return nil
}

// Report appends the points inside q to found.
func (u *FcTree[S]) Report(q RT.Query, found []RT.Point) []RT.Point {
	s, p, ok := u.bounds(q)
	if !ok {
		return found
	}
	a := u.lca(s, p)
	if pt := u.at(a); q.Contains(pt) {
		found = append(found, pt)
	}
	top := u.cas[a]
	k, _ := slices.BinarySearchFunc(top, q.YLo, func(e cascade[S], y uint32) int {
		return cmp.Compare(e.Y, y)
	})
	if k == len(top) {
		return found
	}
	if a != s {
		found = u.leftPath(q, s, u.ifs[a].l, top[k].l, found)
	}
	if a != p {
		found = u.rightPath(q, p, u.ifs[a].r, top[k].r, found)
	}
	return found
}

// leftPath walks from cur down to s. k is the position of the first entry in cas[cur] with
// y>=q.YLo; it's carried down through the offsets instead of searched again.
func (u *FcTree[S]) leftPath(q RT.Query, s, cur, k S, found []RT.Point) []RT.Point {
	for int(k) < len(u.cas[cur]) {
		if pt := u.at(cur); q.Contains(pt) {
			found = append(found, pt)
		}
		e := u.cas[cur][k]
		if s <= cur {
			if r := u.ifs[cur].r; r != 0 {
				found = u.scan(r, e.r, q.YHi, found)
			}
			if s == cur {
				break
			}
			cur, k = u.ifs[cur].l, e.l
		} else {
			cur, k = u.ifs[cur].r, e.r
		}
	}
	return found
}

// rightPath mirrors leftPath towards p.
func (u *FcTree[S]) rightPath(q RT.Query, p, cur, k S, found []RT.Point) []RT.Point {
	for int(k) < len(u.cas[cur]) {
		if pt := u.at(cur); q.Contains(pt) {
			found = append(found, pt)
		}
		e := u.cas[cur][k]
		if cur <= p {
			if l := u.ifs[cur].l; l != 0 {
				found = u.scan(l, e.l, q.YHi, found)
			}
			if p == cur {
				break
			}
			cur, k = u.ifs[cur].r, e.r
		} else {
			cur, k = u.ifs[cur].l, e.l
		}
	}
	return found
}

// scan cas[i] from k while y<=hi.
func (u *FcTree[S]) scan(i, k S, hi uint32, found []RT.Point) []RT.Point {
	for _, e := range u.cas[i][k:] {
		if e.Y > hi {
			break
		}
		found = append(found, e.Point)
	}
	return found
}

// ReportPoints is Report into a new slice.
func (u *FcTree[S]) ReportPoints(q RT.Query) []RT.Point {
	return u.Report(q, nil)
}
