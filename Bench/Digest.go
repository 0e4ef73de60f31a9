package Bench

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	RT "github.com/g-m-twostay/range-trees"
)

// Digest of a result set that doesn't depend on the order of pts. Equal sets give equal digests.
func Digest(pts []RT.Point) (d uint64) {
	var b [12]byte
	for _, p := range pts {
		binary.LittleEndian.PutUint32(b[0:], p.ID)
		binary.LittleEndian.PutUint32(b[4:], p.X)
		binary.LittleEndian.PutUint32(b[8:], p.Y)
		d += xxhash.Sum64(b[:])
	}
	return d ^ uint64(len(pts))
}
