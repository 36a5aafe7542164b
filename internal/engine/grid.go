package engine

import (
	"go.uber.org/zap"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// Lattice is the grid of candidate anchor positions for one search. Index k
// maps to row i = k / Size and column j = k % Size, so enumeration runs with
// x outer and y inner.
type Lattice struct {
	Size  int
	XStep float64
	YStep float64
}

// NewLattice spreads size x size anchors from (0, 0) up to the last anchor at
// which the carpet still ends on the sheet's far edges. With size <= 1 the
// only anchor is (0, 0); with size <= 0 there are none.
func NewLattice(carpet model.Rect, sheetWidth, sheetHeight float64, size int) Lattice {
	l := Lattice{Size: max(size, 0)}
	if size > 1 {
		l.XStep = (sheetWidth - carpet.Width()) / float64(size-1)
		l.YStep = (sheetHeight - carpet.Height()) / float64(size-1)
	}
	return l
}

// Len returns the number of anchors, Size squared.
func (l Lattice) Len() int {
	return l.Size * l.Size
}

// At returns the anchor with row-major index k.
func (l Lattice) At(k int) model.Position {
	i := k / l.Size
	j := k % l.Size
	return model.Position{X: float64(i) * l.XStep, Y: float64(j) * l.YStep}
}


// GridSearch returns the first lattice anchor, in row-major order, at which
// the carpet fits. Spans are evaluated concurrently; each records its own
// first fit and the minimum over spans is the answer, so the result always
// equals a sequential scan.
func (e *Engine) GridSearch(carpet model.Rect, obstacles []model.Rect, sheetWidth, sheetHeight float64, gridSize int) model.SearchResult {
	lattice := NewLattice(carpet, sheetWidth, sheetHeight, gridSize)
	result := model.SearchResult{Index: -1, Candidates: lattice.Len()}

	workers := e.workers()
	spans := splitSpans(lattice.Len(), workers)
	firsts := make([]int, len(spans))

	runSpans(spans, workers, func(i int, s span) {
		firsts[i] = -1
		for k := s.lo; k < s.hi; k++ {
			if Fits(carpet, lattice.At(k), obstacles, sheetWidth, sheetHeight) {
				firsts[i] = k
				return
			}
		}
	})

	// Spans are in index order, so the first span with a hit holds the minimum.
	for _, k := range firsts {
		if k >= 0 {
			result.Index = k
			result.Position = lattice.At(k)
			result.Found = true
			break
		}
	}

	e.logger.Debug("grid search",
		zap.Int("grid_size", gridSize),
		zap.Int("candidates", result.Candidates),
		zap.Int("obstacles", len(obstacles)),
		zap.Bool("found", result.Found),
		zap.Int("index", result.Index),
	)
	return result
}
