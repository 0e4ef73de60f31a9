package Range_Trees

import "errors"

var (
	// ErrAlreadyBuilt is returned when Construct is called on an index that was already built.
	ErrAlreadyBuilt = errors.New("index already constructed")
	// ErrSecondaryBuilt means a node's secondary structure was about to be populated twice.
	ErrSecondaryBuilt = errors.New("secondary structure of node already constructed")
	// ErrTooLarge means the point count doesn't fit the index type of the tree.
	ErrTooLarge = errors.New("too many points for index type")
)

// Index answers orthogonal range queries over a static point set.
type Index interface {
	// Construct the index from pts. pts is reordered in place. naive selects the slower
	// secondary construction where an implementation has one and is ignored otherwise.
	// Constructing twice fails with ErrAlreadyBuilt.
	Construct(pts []Point, naive bool) error
	// Report appends every point inside q to found and returns it. The order is unspecified.
	// An index that isn't built reports nothing.
	Report(q Query, found []Point) []Point
	// Len is the number of indexed points.
	Len() int
}
