package Range_Trees

import (
	"slices"
	"testing"
)

func TestAxis_Cmp(t *testing.T) {
	a, b, c := Point{ID: 1, X: 5, Y: 2}, Point{ID: 2, X: 5, Y: 1}, Point{ID: 3, X: 4, Y: 2}
	if X.Cmp(a, b) >= 0 || X.Cmp(b, a) <= 0 {
		t.Error("equal x should be ordered by id")
	}
	if X.Cmp(c, a) >= 0 {
		t.Error("smaller x should come first")
	}
	if Y.Cmp(b, a) >= 0 || Y.Cmp(a, c) >= 0 {
		t.Error("wrong order on y")
	}
	if X.Cmp(a, a) != 0 || Y.Cmp(b, b) != 0 {
		t.Error("a point should equal itself")
	}
	pts := []Point{a, b, c}
	slices.SortFunc(pts, CmpY)
	if !slices.Equal(pts, []Point{b, a, c}) {
		t.Errorf("sorted on y: %v", pts)
	}
	slices.SortFunc(pts, CmpX)
	if !slices.Equal(pts, []Point{c, a, b}) {
		t.Errorf("sorted on x: %v", pts)
	}
}

func TestQuery_Contains(t *testing.T) {
	q := Query{XLo: 2, XHi: 4, YLo: 2, YHi: 4}
	for _, p := range []Point{{X: 2, Y: 2}, {X: 4, Y: 4}, {X: 3, Y: 4}} {
		if !q.Contains(p) {
			t.Errorf("%+v should contain %+v", q, p)
		}
	}
	for _, p := range []Point{{X: 1, Y: 2}, {X: 5, Y: 4}, {X: 3, Y: 5}, {X: 3, Y: 1}} {
		if q.Contains(p) {
			t.Errorf("%+v shouldn't contain %+v", q, p)
		}
	}
	if q.Empty() {
		t.Errorf("%+v isn't empty", q)
	}
	if !(Query{XLo: 3, XHi: 2}).Empty() || !(Query{YLo: 1}).Empty() {
		t.Error("inverted queries are empty")
	}
	if lo, hi := Y.Bounds(q); lo != 2 || hi != 4 {
		t.Errorf("y bounds %d %d", lo, hi)
	}
}
