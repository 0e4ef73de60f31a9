package Gen

import (
	"errors"
	"fmt"
	"os"

	RT "github.com/g-m-twostay/range-trees"
	"github.com/ugorji/go/codec"
)

// ErrCorrupt means a workload couldn't have been written by MarshalBinary.
var ErrCorrupt = errors.New("corrupt workload")

// Workload is a point set together with the queries to run against it.
type Workload struct {
	Points  []RT.Point
	Queries []RT.Query
}

// MarshalBinary encodes the Workload as msgpack.
func (w *Workload) MarshalBinary() (out []byte, err error) {
	var mh codec.MsgpackHandle
	enc := codec.NewEncoderBytes(&out, &mh)
	err = enc.Encode(len(w.Points))
	if err != nil {
		return
	}
	for _, p := range w.Points {
		err = enc.Encode([3]uint32{p.ID, p.X, p.Y})
		if err != nil {
			return
		}
	}
	err = enc.Encode(len(w.Queries))
	if err != nil {
		return
	}
	for _, q := range w.Queries {
		err = enc.Encode([4]uint32{q.XLo, q.XHi, q.YLo, q.YHi})
		if err != nil {
			return
		}
	}
	return
}

// UnmarshalBinary decodes a Workload generated by MarshalBinary.
func (w *Workload) UnmarshalBinary(in []byte) (err error) {
	var mh codec.MsgpackHandle
	dec := codec.NewDecoderBytes(in, &mh)
	n := 0
	err = dec.Decode(&n)
	if err != nil {
		return
	}
	// every entry takes at least 4 bytes
	if n < 0 || n > len(in)/4 {
		return fmt.Errorf("%w: %d points in %d bytes", ErrCorrupt, n, len(in))
	}
	w.Points = make([]RT.Point, n)
	for i := range w.Points {
		var a [3]uint32
		err = dec.Decode(&a)
		if err != nil {
			return
		}
		w.Points[i] = RT.Point{ID: a[0], X: a[1], Y: a[2]}
	}
	err = dec.Decode(&n)
	if err != nil {
		return
	}
	if n < 0 || n > len(in)/4 {
		return fmt.Errorf("%w: %d queries in %d bytes", ErrCorrupt, n, len(in))
	}
	w.Queries = make([]RT.Query, n)
	for i := range w.Queries {
		var a [4]uint32
		err = dec.Decode(&a)
		if err != nil {
			return
		}
		w.Queries[i] = RT.Query{XLo: a[0], XHi: a[1], YLo: a[2], YHi: a[3]}
	}
	return
}

// Save the workload to a file.
func (w *Workload) Save(path string) error {
	b, err := w.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// LoadWorkload from a file written by Save.
func LoadWorkload(path string) (*Workload, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	w := new(Workload)
	if err = w.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return w, nil
}

// NewWorkload draws n points and k queries of the given side from g.
func NewWorkload(g *Generator, n uint32, k int, side uint32) (*Workload, error) {
	pts := g.Points(n)
	qs, err := g.Queries(k, side)
	if err != nil {
		return nil, err
	}
	return &Workload{Points: pts, Queries: qs}, nil
}
