package spatial

import (
	"github.com/dhconnelly/rtreego"
)

// Nearest returns the snapshot index of the obstacle closest to (x, y) and
// the squared distance to it, 0 when the point is on or inside the obstacle.
// ok is false for an empty index.
func (t *Index) Nearest(x, y float64) (index int, dist2 float64, ok bool) {
	if t.tree == nil {
		return -1, 0, false
	}
	obj := t.tree.NearestNeighbor(rtreego.Point{x, y})
	if obj == nil {
		return -1, 0, false
	}
	e := obj.(*entry)
	return e.index, t.items[e.index].Distance2(x, y), true
}
