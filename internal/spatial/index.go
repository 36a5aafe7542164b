// Package spatial provides a read-only R-tree over a fixed obstacle snapshot.
//
// The tree is bulk loaded once and never mutated afterwards, so a single
// Index can be queried from any number of goroutines without locking. A
// changed obstacle set needs a new Index.
//
// Queries use the inclusive envelope test (model.EnvelopeIntersects): a query
// box that only touches an obstacle's edge counts as a hit. This makes the
// index a conservative pre-filter; exact placement acceptance stays with
// the strict test in package engine.
package spatial

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// DefaultNodeSize is the maximum number of entries per node.
const DefaultNodeSize = 16

// entry is one obstacle as stored in the tree.
type entry struct {
	box   rtreego.Rect
	index int
}

// Bounds implements the rtreego.Spatial interface
func (e *entry) Bounds() rtreego.Rect {
	return e.box
}

// Index is an immutable R-tree. Its zero value is an empty index.
type Index struct {
	tree     *rtreego.Rtree
	items    []model.Rect
	nodeSize int
}

// Build bulk loads an index with DefaultNodeSize.
func Build(obstacles []model.Rect) *Index {
	return BuildWithNodeSize(obstacles, DefaultNodeSize)
}

// BuildWithNodeSize bulk loads an index whose nodes hold at most nodeSize
// entries. Sizes below 2 fall back to DefaultNodeSize. The obstacle slice is
// copied, so later changes by the caller do not reach the index.
func BuildWithNodeSize(obstacles []model.Rect, nodeSize int) *Index {
	if nodeSize < 2 {
		nodeSize = DefaultNodeSize
	}
	t := &Index{
		items:    append([]model.Rect(nil), obstacles...),
		nodeSize: nodeSize,
	}
	if len(t.items) == 0 {
		return t
	}

	objs := make([]rtreego.Spatial, len(t.items))
	for i, r := range t.items {
		objs[i] = &entry{box: toRtree(r), index: i}
	}
	t.tree = rtreego.NewTree(2, nodeSize/2, nodeSize, objs...)
	return t
}

// toRtree converts r to rtreego's box type. Zero-extent boxes are allowed;
// NewRectFromPoints only fails on a dimension mismatch.
func toRtree(r model.Rect) rtreego.Rect {
	box, _ := rtreego.NewRectFromPoints(rtreego.Point{r.MinX, r.MinY}, rtreego.Point{r.MaxX, r.MaxY})
	return box
}

// widen grows the normalized q by one ulp on every side. rtreego treats
// shared edges as disjoint, so the widened box reaches obstacles that only
// touch q. Search filters the candidates with the exact test.
func widen(q model.Rect) rtreego.Rect {
	return toRtree(model.Rect{
		MinX: math.Nextafter(math.Min(q.MinX, q.MaxX), math.Inf(-1)),
		MinY: math.Nextafter(math.Min(q.MinY, q.MaxY), math.Inf(-1)),
		MaxX: math.Nextafter(math.Max(q.MinX, q.MaxX), math.Inf(1)),
		MaxY: math.Nextafter(math.Max(q.MinY, q.MaxY), math.Inf(1)),
	})
}

// Len returns the number of indexed obstacles.
func (t *Index) Len() int {
	return len(t.items)
}

// Obstacle returns the i-th obstacle of the snapshot the index was built from.
func (t *Index) Obstacle(i int) model.Rect {
	return t.items[i]
}

// Bounds returns the envelope of all obstacles; ok is false for an empty index.
func (t *Index) Bounds() (model.Rect, bool) {
	if len(t.items) == 0 {
		return model.Rect{}, false
	}
	box := t.items[0]
	for _, r := range t.items[1:] {
		box = box.Union(r)
	}
	return box, true
}

// Search calls fn with the snapshot index of every obstacle whose envelope
// intersects q, touching included. Returning false from fn stops the search.
func (t *Index) Search(q model.Rect, fn func(i int) bool) {
	if t.tree == nil {
		return
	}
	stopped := false
	t.tree.SearchIntersect(widen(q), func(_ []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
		if stopped {
			return true, true
		}
		e := obj.(*entry)
		if !model.EnvelopeIntersects(t.items[e.index], q) {
			return true, false
		}
		stopped = !fn(e.index)
		return true, stopped
	})
}

// HasCollision reports whether any obstacle envelope intersects q. It stops
// at the first hit.
func (t *Index) HasCollision(q model.Rect) bool {
	found := false
	t.Search(q, func(int) bool {
		found = true
		return false
	})
	return found
}

// Intersecting returns the snapshot indices of all obstacles whose envelopes
// intersect q, in ascending order.
func (t *Index) Intersecting(q model.Rect) []int {
	var hits []int
	t.Search(q, func(i int) bool {
		hits = append(hits, i)
		return true
	})
	sort.Ints(hits)
	return hits
}
