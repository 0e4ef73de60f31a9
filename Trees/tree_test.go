package Trees

import (
	"bytes"
	"errors"
	"fmt"
	"math/bits"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"testing"

	RT "github.com/g-m-twostay/range-trees"
)

var rg = *rand.New(rand.NewSource(0))

const (
	tPtsN     = 2000
	tQryN     = 300
	tCoordMax = 500
)

func randPoints(n int, coordMax uint32) []RT.Point {
	pts := make([]RT.Point, n)
	for i := range pts {
		pts[i] = RT.Point{ID: uint32(i + 1), X: uint32(rg.Int63n(int64(coordMax) + 1)), Y: uint32(rg.Int63n(int64(coordMax) + 1))}
	}
	return pts
}

func randQuery(coordMax uint32) RT.Query {
	a, b := uint32(rg.Int63n(int64(coordMax)+1)), uint32(rg.Int63n(int64(coordMax)+1))
	c, d := uint32(rg.Int63n(int64(coordMax)+1)), uint32(rg.Int63n(int64(coordMax)+1))
	return RT.Query{XLo: min(a, b), XHi: max(a, b), YLo: min(c, d), YHi: max(c, d)}
}

func brute(pts []RT.Point, q RT.Query) (found []RT.Point) {
	for _, p := range pts {
		if q.Contains(p) {
			found = append(found, p)
		}
	}
	return
}

// sameSet compares two results ignoring order; a duplicate in either one is a mismatch.
func sameSet(a, b []RT.Point) bool {
	if len(a) != len(b) {
		return false
	}
	a, b = slices.Clone(a), slices.Clone(b)
	byID := func(p, q RT.Point) int { return int(p.ID) - int(q.ID) }
	slices.SortFunc(a, byID)
	slices.SortFunc(b, byID)
	return slices.Equal(a, b)
}

type builder struct {
	name string
	new  func() RT.Index
}

var builders = []builder{
	{"naive", func() RT.Index { return new(orgNaive) }},
	{"smart", func() RT.Index { return new(OrgTree[uint32]) }},
	{"fc", func() RT.Index { return new(FcTree[uint32]) }},
}

// orgNaive always constructs with the naive secondary trees.
type orgNaive struct {
	OrgTree[uint32]
}

func (u *orgNaive) Construct(pts []RT.Point, _ bool) error {
	return u.OrgTree.Construct(pts, true)
}

func build(t *testing.T, b builder, pts []RT.Point) RT.Index {
	t.Helper()
	idx := b.new()
	if err := idx.Construct(slices.Clone(pts), false); err != nil {
		t.Fatalf("%s: construct failed: %v", b.name, err)
	}
	return idx
}

func TestBuildIfs(t *testing.T) {
	for n := range uint16(300) {
		root, ifs := buildIfs(n)
		if len(ifs) != int(n)+1 {
			t.Fatalf("n=%d: len(ifs)=%d", n, len(ifs))
		}
		if n == 0 {
			if root != 0 {
				t.Errorf("empty tree has root %d", root)
			}
			continue
		}
		if ifs[root].p != 0 {
			t.Errorf("n=%d: root has parent %d", n, ifs[root].p)
		}
		u := base[uint16]{root: root, ifs: ifs, pts: make([]RT.Point, n)}
		for i := range u.pts {
			u.pts[i].ID = uint32(i + 1)
		}
		var order []uint32
		u.inOrder(root, func(p RT.Point) bool {
			order = append(order, p.ID)
			return true
		}, nil)
		for i, id := range order {
			if id != uint32(i+1) {
				t.Fatalf("n=%d: in-order position %d is %d", n, i, id)
			}
		}
		for i := uint16(1); i <= n; i++ {
			if l := ifs[i].l; l != 0 && ifs[l].p != i {
				t.Errorf("n=%d: left child %d of %d has parent %d", n, l, i, ifs[l].p)
			}
			if r := ifs[i].r; r != 0 && ifs[r].p != i {
				t.Errorf("n=%d: right child %d of %d has parent %d", n, r, i, ifs[r].p)
			}
		}
		if h := u.Height(); h != bits.Len16(n) {
			t.Errorf("n=%d: height %d, want %d", n, h, bits.Len16(n))
		}
	}
}

func TestBuildIfs_Overflow(t *testing.T) {
	root, ifs := buildIfs(uint8(255))
	if root != 128 {
		t.Errorf("root is %d, want 128", root)
	}
	seen := make(map[uint8]struct{})
	for i := 1; i < len(ifs); i++ {
		for _, c := range [2]uint8{ifs[i].l, ifs[i].r} {
			if c == 0 {
				continue
			}
			if _, in := seen[c]; in {
				t.Fatalf("node %d has two parents", c)
			}
			seen[c] = struct{}{}
		}
	}
	if len(seen) != 254 {
		t.Errorf("%d nodes are children, want 254", len(seen))
	}
}

func TestConcrete(t *testing.T) {
	pts := []RT.Point{{ID: 1, X: 1, Y: 1}, {ID: 2, X: 3, Y: 2}, {ID: 3, X: 2, Y: 5}, {ID: 4, X: 5, Y: 4}, {ID: 5, X: 4, Y: 3}}
	want := []RT.Point{{ID: 2, X: 3, Y: 2}, {ID: 5, X: 4, Y: 3}}
	for _, b := range builders {
		idx := build(t, b, pts)
		if got := idx.Report(RT.Query{XLo: 2, XHi: 4, YLo: 2, YHi: 4}, nil); !sameSet(got, want) {
			t.Errorf("%s: got %v, want %v", b.name, got, want)
		}
	}
}

func TestBoundary(t *testing.T) {
	pts := []RT.Point{{ID: 1, X: 1, Y: 1}, {ID: 2, X: 3, Y: 2}, {ID: 3, X: 2, Y: 5}, {ID: 4, X: 5, Y: 4}, {ID: 5, X: 4, Y: 3}}
	for _, b := range builders {
		idx := build(t, b, pts)
		got := idx.Report(RT.Query{XLo: 0, XHi: 5, YLo: 0, YHi: 4}, nil)
		if !slices.Contains(got, RT.Point{ID: 4, X: 5, Y: 4}) {
			t.Errorf("%s: point on the upper corner is missing from %v", b.name, got)
		}
		got = idx.Report(RT.Query{XLo: 0, XHi: 4, YLo: 0, YHi: 4}, nil)
		if slices.Contains(got, RT.Point{ID: 4, X: 5, Y: 4}) {
			t.Errorf("%s: point beyond XHi reported in %v", b.name, got)
		}
		got = idx.Report(RT.Query{XLo: 1, XHi: 1, YLo: 1, YHi: 1}, nil)
		if !sameSet(got, []RT.Point{{ID: 1, X: 1, Y: 1}}) {
			t.Errorf("%s: point on the lower corner: got %v", b.name, got)
		}
	}
}

func TestEmpty(t *testing.T) {
	for _, b := range builders {
		idx := build(t, b, nil)
		if idx.Len() != 0 {
			t.Errorf("%s: empty tree has length %d", b.name, idx.Len())
		}
		for range 20 {
			if got := idx.Report(randQuery(tCoordMax), nil); len(got) != 0 {
				t.Errorf("%s: empty tree reported %v", b.name, got)
			}
		}
		if got := idx.Report(RT.Query{XHi: ^uint32(0), YHi: ^uint32(0)}, nil); len(got) != 0 {
			t.Errorf("%s: empty tree reported %v", b.name, got)
		}
	}
	var unbuilt OrgTree[uint32]
	if got := unbuilt.ReportPoints(RT.Query{XHi: 10, YHi: 10}); len(got) != 0 {
		t.Errorf("unbuilt tree reported %v", got)
	}
	var unbuiltFc FcTree[uint32]
	if got := unbuiltFc.ReportPoints(RT.Query{XHi: 10, YHi: 10}); len(got) != 0 {
		t.Errorf("unbuilt tree reported %v", got)
	}
}

func TestSingleton(t *testing.T) {
	p := RT.Point{ID: 7, X: 10, Y: 20}
	for _, b := range builders {
		idx := build(t, b, []RT.Point{p})
		for range 200 {
			q := randQuery(30)
			got := idx.Report(q, nil)
			if q.Contains(p) != (len(got) == 1) || len(got) > 1 || (len(got) == 1 && got[0] != p) {
				t.Errorf("%s: query %+v got %v", b.name, q, got)
			}
		}
	}
}

func TestInverted(t *testing.T) {
	pts := randPoints(200, 50)
	for _, b := range builders {
		idx := build(t, b, pts)
		for _, q := range []RT.Query{{XLo: 30, XHi: 10, YLo: 0, YHi: 50}, {XLo: 0, XHi: 50, YLo: 40, YHi: 5}} {
			if got := idx.Report(q, nil); len(got) != 0 {
				t.Errorf("%s: inverted query %+v got %v", b.name, q, got)
			}
		}
	}
}

func TestRandom(t *testing.T) {
	for _, coordMax := range []uint32{10, tCoordMax, 1 << 20} {
		pts := randPoints(tPtsN, coordMax)
		idxs := make([]RT.Index, len(builders))
		for i, b := range builders {
			idxs[i] = build(t, b, pts)
			if idxs[i].Len() != len(pts) {
				t.Errorf("%s: length %d, want %d", b.name, idxs[i].Len(), len(pts))
			}
		}
		for range tQryN {
			q := randQuery(coordMax)
			want := brute(pts, q)
			for i, b := range builders {
				if got := idxs[i].Report(q, nil); !sameSet(got, want) {
					t.Fatalf("%s: coordMax=%d query %+v: got %d points, want %d", b.name, coordMax, q, len(got), len(want))
				}
			}
		}
	}
}

func TestSmallSizes(t *testing.T) {
	for n := range 40 {
		pts := randPoints(n, 8)
		for _, b := range builders {
			idx := build(t, b, pts)
			for range 50 {
				q := randQuery(8)
				if got, want := idx.Report(q, nil), brute(pts, q); !sameSet(got, want) {
					t.Fatalf("%s: n=%d query %+v: got %v, want %v", b.name, n, q, got, want)
				}
			}
		}
	}
}

func TestTies(t *testing.T) {
	sameX, sameY := make([]RT.Point, 300), make([]RT.Point, 300)
	for i := range sameX {
		sameX[i] = RT.Point{ID: uint32(300 - i), X: 5, Y: uint32(rg.Intn(20))}
		sameY[i] = RT.Point{ID: uint32(i + 1), X: uint32(rg.Intn(20)), Y: 5}
	}
	same := make([]RT.Point, 100)
	for i := range same {
		same[i] = RT.Point{ID: uint32(i + 1), X: 3, Y: 3}
	}
	for _, pts := range [][]RT.Point{sameX, sameY, same} {
		for _, b := range builders {
			idx := build(t, b, pts)
			if got := idx.Report(RT.Query{XHi: 100, YHi: 100}, nil); !sameSet(got, pts) {
				t.Errorf("%s: whole plane got %d points, want %d", b.name, len(got), len(pts))
			}
			for range 100 {
				q := randQuery(20)
				if got, want := idx.Report(q, nil), brute(pts, q); !sameSet(got, want) {
					t.Fatalf("%s: query %+v: got %d points, want %d", b.name, q, len(got), len(want))
				}
			}
		}
	}
}

func TestConstruct_SortsInPlace(t *testing.T) {
	pts := randPoints(100, 50)
	var tree OrgTree[uint32]
	if err := tree.Construct(pts, true); err != nil {
		t.Fatal(err)
	}
	if !slices.IsSortedFunc(pts, RT.CmpX) {
		t.Error("naive construction should leave points sorted on x")
	}
	if !slices.IsSortedFunc(tree.pts, RT.CmpX) {
		t.Error("primary points aren't sorted on x")
	}
	clear(pts)
	if got := tree.ReportPoints(RT.Query{XHi: 50, YHi: 50}); len(got) != 100 {
		t.Errorf("tree depends on the caller's slice, got %d points", len(got))
	}
}

func TestIdempotent(t *testing.T) {
	pts := randPoints(500, 100)
	for _, b := range builders {
		idx := build(t, b, pts)
		for range 20 {
			q := randQuery(100)
			first := idx.Report(q, nil)
			for range 3 {
				if got := idx.Report(q, nil); !sameSet(got, first) {
					t.Fatalf("%s: query %+v changed from %v to %v", b.name, q, first, got)
				}
			}
		}
	}
}

func TestReport_Appends(t *testing.T) {
	pts := randPoints(100, 20)
	sentinel := RT.Point{ID: 1 << 31}
	for _, b := range builders {
		idx := build(t, b, pts)
		q := randQuery(20)
		got := idx.Report(q, []RT.Point{sentinel})
		if len(got) == 0 || got[0] != sentinel {
			t.Fatalf("%s: Report dropped existing content", b.name)
		}
		if !sameSet(got[1:], brute(pts, q)) {
			t.Errorf("%s: query %+v: wrong appended result", b.name, q)
		}
	}
}

func TestConstruct_Twice(t *testing.T) {
	for _, b := range builders {
		idx := build(t, b, randPoints(10, 10))
		if err := idx.Construct(randPoints(10, 10), false); !errors.Is(err, RT.ErrAlreadyBuilt) {
			t.Errorf("%s: second construction returned %v", b.name, err)
		}
		empty := build(t, b, nil)
		if err := empty.Construct(nil, false); !errors.Is(err, RT.ErrAlreadyBuilt) {
			t.Errorf("%s: second construction of empty tree returned %v", b.name, err)
		}
	}
}

func TestConstruct_TooLarge(t *testing.T) {
	pts := randPoints(256, 10)
	var org OrgTree[uint8]
	if err := org.Construct(slices.Clone(pts), false); !errors.Is(err, RT.ErrTooLarge) {
		t.Errorf("OrgTree[uint8] of 256 points returned %v", err)
	}
	var fc FcTree[uint8]
	if err := fc.Construct(slices.Clone(pts), false); !errors.Is(err, RT.ErrTooLarge) {
		t.Errorf("FcTree[uint8] of 256 points returned %v", err)
	}
	pts = pts[:255]
	org, fc = OrgTree[uint8]{}, FcTree[uint8]{}
	if err := org.Construct(slices.Clone(pts), false); err != nil {
		t.Fatal(err)
	}
	if err := fc.Construct(slices.Clone(pts), false); err != nil {
		t.Fatal(err)
	}
	for range 50 {
		q := randQuery(10)
		want := brute(pts, q)
		if got := org.ReportPoints(q); !sameSet(got, want) {
			t.Fatalf("OrgTree[uint8] query %+v wrong", q)
		}
		if got := fc.ReportPoints(q); !sameSet(got, want) {
			t.Fatalf("FcTree[uint8] query %+v wrong", q)
		}
	}
}

func TestSecondary_Twice(t *testing.T) {
	var org OrgTree[uint32]
	if err := org.Construct(randPoints(30, 10), false); err != nil {
		t.Fatal(err)
	}
	if err := org.setSec(org.root, nil); !errors.Is(err, RT.ErrSecondaryBuilt) {
		t.Errorf("rebuilding a secondary tree returned %v", err)
	}
	if err := org.buildSecNaive(); !errors.Is(err, RT.ErrSecondaryBuilt) {
		t.Errorf("rebuilding naive secondary trees returned %v", err)
	}
	var fc FcTree[uint32]
	if err := fc.Construct(randPoints(30, 10), false); err != nil {
		t.Fatal(err)
	}
	if err := fc.cascade(); !errors.Is(err, RT.ErrSecondaryBuilt) {
		t.Errorf("cascading twice returned %v", err)
	}
}

func TestSecondary_Equivalent(t *testing.T) {
	pts := randPoints(tPtsN, 40)
	var naive, smart OrgTree[uint32]
	if err := naive.Construct(slices.Clone(pts), true); err != nil {
		t.Fatal(err)
	}
	if err := smart.Construct(slices.Clone(pts), false); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(naive.pts, smart.pts) {
		t.Fatal("primary trees differ")
	}
	for i := 1; i < len(naive.sec); i++ {
		a, b := naive.sec[i], smart.sec[i]
		if a.root != b.root || !slices.Equal(a.pts, b.pts) || !slices.Equal(a.ifs, b.ifs) {
			t.Fatalf("secondary trees of node %d differ", i)
		}
		if !slices.IsSortedFunc(a.pts, RT.CmpY) {
			t.Fatalf("secondary tree of node %d isn't sorted on y", i)
		}
		if len(a.pts) != len(naive.span(uint32(i))) {
			t.Fatalf("secondary tree of node %d has %d points, subtree has %d", i, len(a.pts), len(naive.span(uint32(i))))
		}
	}
}

func TestFcTree_Offsets(t *testing.T) {
	pts := randPoints(tPtsN, 60)
	var fc FcTree[uint32]
	if err := fc.Construct(pts, false); err != nil {
		t.Fatal(err)
	}
	lowerBound := func(a []cascade[uint32], p RT.Point) uint32 {
		i, _ := slices.BinarySearchFunc(a, p, func(e cascade[uint32], p RT.Point) int { return RT.CmpY(e.Point, p) })
		return uint32(i)
	}
	for i := 1; i < len(fc.cas); i++ {
		node := uint32(i)
		arr := fc.cas[node]
		if len(arr) != len(fc.span(node)) {
			t.Fatalf("node %d has %d entries, subtree has %d points", node, len(arr), len(fc.span(node)))
		}
		if !slices.IsSortedFunc(arr, func(a, b cascade[uint32]) int { return RT.CmpY(a.Point, b.Point) }) {
			t.Fatalf("array of node %d isn't sorted on y", node)
		}
		l, r := fc.ifs[node].l, fc.ifs[node].r
		if len(arr) != 1+len(fc.cas[l])+len(fc.cas[r]) { // cas[0] is empty
			t.Fatalf("array of node %d isn't the union of its children and itself", node)
		}
		for k, e := range arr {
			if k > 0 && (e.l < arr[k-1].l || e.r < arr[k-1].r) {
				t.Fatalf("offsets of node %d decrease at %d", node, k)
			}
			if l != 0 && e.l != lowerBound(fc.cas[l], e.Point) {
				t.Fatalf("left offset of node %d entry %d is %d, want %d", node, k, e.l, lowerBound(fc.cas[l], e.Point))
			}
			if r != 0 && e.r != lowerBound(fc.cas[r], e.Point) {
				t.Fatalf("right offset of node %d entry %d is %d, want %d", node, k, e.r, lowerBound(fc.cas[r], e.Point))
			}
		}
	}
}

func TestConcurrentReport(t *testing.T) {
	pts := randPoints(tPtsN, tCoordMax)
	qs := make([]RT.Query, tQryN)
	for i := range qs {
		qs[i] = randQuery(tCoordMax)
	}
	for _, b := range builders {
		idx := build(t, b, pts)
		var wg sync.WaitGroup
		errs := make(chan RT.Query, len(qs))
		for w := range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := w; i < len(qs); i += 4 {
					if !sameSet(idx.Report(qs[i], nil), brute(pts, qs[i])) {
						errs <- qs[i]
					}
				}
			}()
		}
		wg.Wait()
		close(errs)
		for q := range errs {
			t.Errorf("%s: concurrent query %+v wrong", b.name, q)
		}
	}
}

func TestPrint(t *testing.T) {
	pts := randPoints(31, 100)
	var fc FcTree[uint32]
	if err := fc.Construct(pts, false); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := fc.Print(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 31 {
		t.Fatalf("printed %d lines, want 31", len(lines))
	}
	root := fc.at(fc.root)
	if want := fmt.Sprintf("(id=%d, x=%d, y=%d, parent=0)", root.ID, root.X, root.Y); lines[15] != want {
		t.Errorf("root line is %q", lines[15])
	}
	if !strings.HasPrefix(lines[0], strings.Repeat(" ", 32)+"(") {
		t.Errorf("rightmost leaf isn't indented 4 levels: %q", lines[0])
	}
}
