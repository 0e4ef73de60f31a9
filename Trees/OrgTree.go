package Trees

import (
	"fmt"
	"math/bits"
	"slices"

	RT "github.com/g-m-twostay/range-trees"
	"golang.org/x/exp/constraints"
)

// OrgTree is the classic 2-D range tree: a balanced tree on x where every node also owns a
// balanced tree on y over the points of its subtree. Queries take O(log² n + k).
// The zero value is an empty, unbuilt tree. A built tree is read only, so concurrent Report
// calls are safe.
type OrgTree[S constraints.Unsigned] struct {
	base[S]
	sec   []base[S] // sec[i] belongs to node i; sec[0] is unused.
	built bool
}

// Construct the tree from pts, which is sorted in place. With naive set, the secondary tree of
// every node is built by collecting and sorting its subtree in O(n log² n) total; otherwise the
// points are sorted on y once and partitioned down the tree in O(n log n).
func (u *OrgTree[S]) Construct(pts []RT.Point, naive bool) (err error) {
	if u.built {
		return RT.ErrAlreadyBuilt
	}
	if !fits[S](len(pts)) {
		return fmt.Errorf("%w: %d points", RT.ErrTooLarge, len(pts))
	}
	log.Debugf("constructing OrgTree of %d points, naive=%t", len(pts), naive)

	slices.SortFunc(pts, RT.CmpX)
	u.base = newBase[S](RT.X, slices.Clone(pts))
	u.sec = make([]base[S], len(u.ifs))
	if naive {
		err = u.buildSecNaive()
	} else {
		slices.SortFunc(pts, RT.CmpY)
		err = u.buildSecSmart(slices.Clone(pts))
	}
	if err != nil {
		u.base, u.sec = base[S]{}, nil
		return err
	}
	u.built = true
	return nil
}

// setSec hands the y sorted pts to node i as its secondary tree.
func (u *OrgTree[S]) setSec(i S, pts []RT.Point) error {
	if u.sec[i].root != 0 {
		pt := u.at(i)
		return fmt.Errorf("%w: node id=%d x=%d y=%d", RT.ErrSecondaryBuilt, pt.ID, pt.X, pt.Y)
	}
	u.sec[i] = newBase[S](RT.Y, pts)
	return nil
}

func (u *OrgTree[S]) buildSecNaive() error {
	var st []S
	for i := range len(u.pts) {
		n := S(i + 1)
		var sub []RT.Point
		st = u.inOrder(n, func(p RT.Point) bool {
			sub = append(sub, p)
			return true
		}, st)
		slices.SortFunc(sub, RT.CmpY)
		if err := u.setSec(n, sub); err != nil {
			return err
		}
	}
	return nil
}

type secJob[S constraints.Unsigned] struct {
	i   S
	pts []RT.Point
}

// buildSecSmart from the points of the whole tree sorted on y. Each node keeps the list it's given
// and splits it by x around its own point for its children, which keeps both halves sorted on y.
func (u *OrgTree[S]) buildSecSmart(pts []RT.Point) error {
	if u.root == 0 {
		return nil
	}
	st := make([]secJob[S], 0, bits.Len(uint(len(pts))))
	for st = append(st, secJob[S]{u.root, pts}); len(st) > 0; {
		top := st[len(st)-1]
		st = st[:len(st)-1]
		if err := u.setSec(top.i, top.pts); err != nil {
			return err
		}
		cur, mid := u.ifs[top.i], u.at(top.i)
		var ls, rs []RT.Point
		if cur.l != 0 {
			ls = make([]RT.Point, 0, len(u.span(cur.l)))
		}
		if cur.r != 0 {
			rs = make([]RT.Point, 0, len(u.span(cur.r)))
		}
		for _, p := range top.pts {
			if c := RT.CmpX(p, mid); c < 0 {
				ls = append(ls, p)
			} else if c > 0 {
				rs = append(rs, p)
			}
		}
		if cur.l != 0 {
			st = append(st, secJob[S]{cur.l, ls})
		}
		if cur.r != 0 {
			st = append(st, secJob[S]{cur.r, rs})
		}
	}
	return nil
}

// Report appends the points inside q to found. Canonical subtrees on x are answered by their
// secondary trees on y.
func (u *OrgTree[S]) Report(q RT.Query, found []RT.Point) []RT.Point {
	if s, p, ok := u.bounds(q); ok {
		found = u.walk(q, s, p, found, func(i S, found []RT.Point) []RT.Point {
			return u.sec[i].report(q, found)
		})
	}
	return found
}

// ReportPoints is Report into a new slice.
func (u *OrgTree[S]) ReportPoints(q RT.Query) []RT.Point {
	return u.Report(q, nil)
}
