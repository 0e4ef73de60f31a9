// Package Bench times construction and querying of the range indexes and checks that every
// kind agrees on the results.
package Bench

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	RT "github.com/g-m-twostay/range-trees"
	"github.com/g-m-twostay/range-trees/Gen"
	"github.com/g-m-twostay/range-trees/Logger"
	"github.com/rcrowley/go-metrics"
)

// ErrMismatch means two kinds of index returned different results for the same query.
var ErrMismatch = errors.New("results differ")

// Result of one measurement.
type Result struct {
	Kind string
	Op   string // "construct" or "query"
	N    uint32 // number of points
	Side uint32 // query side, 0 for construction
	Mean time.Duration
	K    float64 // mean result size
}

// Experiment runs measurements on generated data. Timings are also kept in a go-metrics
// registry under "<op>.<kind>.<n>.<side>".
type Experiment struct {
	cfg *Config
	gen *Gen.Generator
	reg metrics.Registry
	log Logger.Logger
}

// New experiment with points drawn from [1,cfg.CoordMax].
func New(cfg *Config) (*Experiment, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g := Gen.New(cfg.Seed)
	if err := g.SetRange(1, cfg.CoordMax); err != nil {
		return nil, err
	}
	return &Experiment{cfg: cfg, gen: g, reg: metrics.NewRegistry(), log: Logger.New("Bench")}, nil
}

// Registry holding the timers and result size histograms.
func (e *Experiment) Registry() metrics.Registry {
	return e.reg
}

// Generator used for the data.
func (e *Experiment) Generator() *Gen.Generator {
	return e.gen
}

// side of a query covering frac of the coordinate range [1,CoordMax].
func (e *Experiment) side(frac float64) uint32 {
	return uint32(frac * float64(e.cfg.CoordMax-1))
}

func metricName(op, kind string, n, side uint32) string {
	return fmt.Sprintf("%s.%s.%d.%d", op, kind, n, side)
}

// build a fresh index of the kind over a copy of pts.
func (e *Experiment) build(kind string, pts []RT.Point) (*Built, time.Duration, error) {
	b, err := NewIndex(kind)
	if err != nil {
		return nil, 0, err
	}
	pts = slices.Clone(pts)
	start := time.Now()
	if err = b.Build(pts); err != nil {
		return nil, 0, fmt.Errorf("constructing %s: %w", kind, err)
	}
	return b, time.Since(start), nil
}

// ConstructTime measures the construction of every configured kind for each data length.
func (e *Experiment) ConstructTime(lens []uint32) ([]Result, error) {
	e.log.Info("start construction time test with various data length")
	var rs []Result
	for _, n := range lens {
		e.log.Infof("start with data length=%d", n)
		pts := e.gen.Points(n)
		for _, kind := range e.cfg.Kinds {
			_, d, err := e.build(kind, pts)
			if err != nil {
				return rs, err
			}
			t := metrics.GetOrRegisterTimer(metricName("construct", kind, n, 0), e.reg)
			t.Update(d)
			e.log.Infof("construction of %s with data length=%d, running time=%v", kind, n, d)
			rs = append(rs, Result{Kind: kind, Op: "construct", N: n, Mean: d})
		}
	}
	return rs, nil
}

// queryTime runs every query against b and records the timings.
func (e *Experiment) queryTime(b *Built, qs []RT.Query, n, side uint32) Result {
	t := metrics.GetOrRegisterTimer(metricName("query", b.Kind, n, side), e.reg)
	h := metrics.GetOrRegisterHistogram(metricName("k", b.Kind, n, side), e.reg, metrics.NewUniformSample(1028))
	var found []RT.Point
	for _, q := range qs {
		start := time.Now()
		found = b.Report(q, found[:0])
		t.UpdateSince(start)
		h.Update(int64(len(found)))
	}
	r := Result{Kind: b.Kind, Op: "query", N: n, Side: side, Mean: time.Duration(t.Mean()), K: h.Mean()}
	e.log.Infof("query of %s with data length=%d, range=%d, k=%.1f, running time=%v", b.Kind, n, side, r.K, r.Mean)
	return r
}

// QueryTimeDataLength measures queries of side QueryRange of the coordinate range for each data length.
func (e *Experiment) QueryTimeDataLength(lens []uint32) ([]Result, error) {
	e.log.Info("start query time test with various data length")
	side := e.side(e.cfg.QueryRange)
	var rs []Result
	for _, n := range lens {
		e.log.Infof("start with data length=%d", n)
		pts := e.gen.Points(n)
		qs, err := e.gen.Queries(e.cfg.Repeat, side)
		if err != nil {
			return rs, err
		}
		for _, kind := range e.cfg.Kinds {
			b, _, err := e.build(kind, pts)
			if err != nil {
				return rs, err
			}
			rs = append(rs, e.queryTime(b, qs, n, side))
		}
	}
	return rs, nil
}

// QueryTimeQueryRange measures queries of each side fraction on n points.
func (e *Experiment) QueryTimeQueryRange(n uint32, fracs []float64) ([]Result, error) {
	e.log.Infof("start query time test with various query range, data length=%d", n)
	pts := e.gen.Points(n)
	bs := make([]*Built, len(e.cfg.Kinds))
	for i, kind := range e.cfg.Kinds {
		b, _, err := e.build(kind, pts)
		if err != nil {
			return nil, err
		}
		bs[i] = b
	}
	var rs []Result
	for _, frac := range fracs {
		side := e.side(frac)
		e.log.Infof("start with query range=%d", side)
		qs, err := e.gen.Queries(e.cfg.Repeat, side)
		if err != nil {
			return rs, err
		}
		for _, b := range bs {
			rs = append(rs, e.queryTime(b, qs, n, side))
		}
	}
	return rs, nil
}

// Verify builds every configured kind over the workload and checks their results against a
// brute force scan.
func (e *Experiment) Verify(w *Gen.Workload) error {
	ref, _, err := e.build(KindScan, w.Points)
	if err != nil {
		return err
	}
	want := make([]uint64, len(w.Queries))
	var found []RT.Point
	for i, q := range w.Queries {
		found = ref.Report(q, found[:0])
		want[i] = Digest(found)
	}
	for _, kind := range e.cfg.Kinds {
		b, _, err := e.build(kind, w.Points)
		if err != nil {
			return err
		}
		for i, q := range w.Queries {
			if found = b.Report(q, found[:0]); Digest(found) != want[i] {
				return fmt.Errorf("%w: %s on query %d %+v", ErrMismatch, kind, i, q)
			}
		}
		e.log.Infof("%s agrees on %d queries over %d points", kind, len(w.Queries), len(w.Points))
	}
	return nil
}

// Parallel runs qs against b from the given number of goroutines and returns the result size of
// every query.
func (e *Experiment) Parallel(b *Built, qs []RT.Query, workers int) []int {
	workers = max(workers, 1)
	ks := haxmap.New[int, int](uintptr(max(len(qs), 8)))
	t := metrics.GetOrRegisterTimer(fmt.Sprintf("parallel.%s.%d", b.Kind, workers), e.reg)
	start := time.Now()
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var found []RT.Point
			for i := w; i < len(qs); i += workers {
				found = b.Report(qs[i], found[:0])
				ks.Set(i, len(found))
			}
		}()
	}
	wg.Wait()
	t.UpdateSince(start)
	e.log.Infof("%d queries on %s from %d workers took %v", len(qs), b.Kind, workers, time.Since(start))

	counts := make([]int, len(qs))
	ks.ForEach(func(i, k int) bool {
		counts[i] = k
		return true
	})
	return counts
}
