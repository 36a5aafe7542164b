package engine

import (
	"go.uber.org/zap"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// BatchCheck evaluates Fits for every position. The result has the same
// length as positions and result[k] answers positions[k], whatever order the
// workers finish in.
func (e *Engine) BatchCheck(carpet model.Rect, positions []model.Position, obstacles []model.Rect, sheetWidth, sheetHeight float64) []bool {
	results := make([]bool, len(positions))
	workers := e.workers()

	runSpans(splitSpans(len(positions), workers), workers, func(_ int, s span) {
		for k := s.lo; k < s.hi; k++ {
			results[k] = Fits(carpet, positions[k], obstacles, sheetWidth, sheetHeight)
		}
	})

	e.logger.Debug("batch collision check",
		zap.Int("positions", len(positions)),
		zap.Int("obstacles", len(obstacles)),
		zap.Int("workers", workers),
	)
	return results
}
