package Bench

import (
	"errors"
	"fmt"
	"sort"

	RT "github.com/g-m-twostay/range-trees"
	"github.com/g-m-twostay/range-trees/Baselines"
	"github.com/g-m-twostay/range-trees/Trees"
)

// ErrUnknownKind is returned for an index kind that isn't registered.
var ErrUnknownKind = errors.New("unknown index kind")

const (
	KindOrgNaive = "org-naive"
	KindOrgSmart = "org-smart"
	KindFc       = "fc"
	KindScan     = "scan"
	KindBTree    = "btree"
	KindLLRB     = "llrb"
	KindRBTree   = "rbtree"
)

type kind struct {
	new   func() RT.Index
	naive bool
}

var kinds = map[string]kind{
	KindOrgNaive: {func() RT.Index { return new(Trees.OrgTree[uint32]) }, true},
	KindOrgSmart: {func() RT.Index { return new(Trees.OrgTree[uint32]) }, false},
	KindFc:       {func() RT.Index { return new(Trees.FcTree[uint32]) }, false},
	KindScan:     {func() RT.Index { return new(Baselines.Scan) }, false},
	KindBTree:    {func() RT.Index { return new(Baselines.BTree) }, false},
	KindLLRB:     {func() RT.Index { return new(Baselines.LLRB) }, false},
	KindRBTree:   {func() RT.Index { return new(Baselines.RBTree) }, false},
}

// Kinds lists every registered kind, sorted.
func Kinds() []string {
	ks := make([]string, 0, len(kinds))
	for k := range kinds {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Built is an index together with the construction strategy of its kind.
type Built struct {
	RT.Index
	Kind  string
	naive bool
}

// NewIndex returns an unbuilt index of the kind.
func NewIndex(name string) (*Built, error) {
	k, ok := kinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return &Built{Index: k.new(), Kind: name, naive: k.naive}, nil
}

// Build the index from pts with the kind's construction strategy.
func (b *Built) Build(pts []RT.Point) error {
	return b.Construct(pts, b.naive)
}
