// Package Trees implements static 2-D range trees over an index arena.
//
// Nodes live in a slice and refer to each other by index; index 0 is nil. Every tree is built
// once from points sorted on its axis by splitting at the midpoint, so its height is
// ceil(log2(n+1)) and its in-order is the sorted order. The index type S bounds the number of
// points: a tree indexed by uint16 holds at most 65535 of them.
//
// Both trees are safe for concurrent Report calls once Construct has returned. Construction is
// iterative and recursion elsewhere is bounded by the tree height.
package Trees

import RT "github.com/g-m-twostay/range-trees"

var (
	_ RT.Index = (*OrgTree[uint32])(nil)
	_ RT.Index = (*FcTree[uint32])(nil)
)
