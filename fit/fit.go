// Package fit is the embedding surface of CarpetFit. Rectangles cross it as
// (min_x, min_y, max_x, max_y) tuples and positions as (x, y) pairs; the
// functions here only convert them and delegate to the engine and the
// spatial index.
package fit

import (
	"github.com/piwi3910/CarpetFit/internal/engine"
	"github.com/piwi3910/CarpetFit/internal/model"
	"github.com/piwi3910/CarpetFit/internal/spatial"
)

var (
	defaultEngine = engine.New(model.DefaultSettings(), nil)
	indexCache    = spatial.NewCache(8, spatial.DefaultNodeSize)
)

func rects(tuples [][4]float64) []model.Rect {
	out := make([]model.Rect, len(tuples))
	for i, b := range tuples {
		out[i] = model.RectFromBounds(b)
	}
	return out
}

// GridSearch returns the first collision-free anchor for carpet on a
// gridSize x gridSize lattice over the sheet, scanning x outer and y inner.
// ok is false when no anchor fits.
func GridSearch(carpet [4]float64, obstacles [][4]float64, sheetWidth, sheetHeight float64, gridSize int) (pos [2]float64, ok bool) {
	res := defaultEngine.GridSearch(model.RectFromBounds(carpet), rects(obstacles), sheetWidth, sheetHeight, gridSize)
	if !res.Found {
		return [2]float64{}, false
	}
	return [2]float64{res.Position.X, res.Position.Y}, true
}

// BatchCollisionCheck tests carpet at every position and returns one result
// per position, in order. true means the carpet fits there.
func BatchCollisionCheck(carpet [4]float64, positions [][2]float64, obstacles [][4]float64, sheetWidth, sheetHeight float64) []bool {
	ps := make([]model.Position, len(positions))
	for i, p := range positions {
		ps[i] = model.Position{X: p[0], Y: p[1]}
	}
	return defaultEngine.BatchCheck(model.RectFromBounds(carpet), ps, rects(obstacles), sheetWidth, sheetHeight)
}

// SpatialIndex answers overlap queries against a fixed obstacle set.
// Touching an obstacle's edge counts as a collision here, unlike in
// GridSearch and BatchCollisionCheck. A nil or zero SpatialIndex is empty.
type SpatialIndex struct {
	idx *spatial.Index
}

// NewSpatialIndex bulk loads obstacles into a read-only index. Indexes for
// recently seen obstacle sets are reused.
func NewSpatialIndex(obstacles [][4]float64) *SpatialIndex {
	return &SpatialIndex{idx: indexCache.Get(rects(obstacles))}
}

// QueryCollisions reports whether test intersects or touches any obstacle.
// Corners are taken as given: a test box with min > max on an axis is not
// normalized, so (15, 15, 5, 5) does not hit (0, 0, 10, 10).
func (s *SpatialIndex) QueryCollisions(test [4]float64) bool {
	if s == nil || s.idx == nil {
		return false
	}
	return s.idx.HasCollision(model.RectFromBounds(test))
}

// Len returns the number of indexed obstacles.
func (s *SpatialIndex) Len() int {
	if s == nil || s.idx == nil {
		return 0
	}
	return s.idx.Len()
}
