// Package engine answers where a carpet fits among already placed obstacles.
// Every candidate position is tested against the obstacle list directly; see
// package spatial for an indexed alternative suited to large obstacle sets.
package engine

import (
	"go.uber.org/zap"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// Engine evaluates candidate placements on a fixed-size worker pool.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	Settings model.Settings
	logger   *zap.Logger
}

// New returns an Engine. A nil logger disables logging.
func New(settings model.Settings, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Settings: settings, logger: logger}
}

func (e *Engine) workers() int {
	return workerCount(e.Settings.Workers)
}

// Fits reports whether carpet, with its min corner moved to pos, lies inside
// the sheet and overlaps none of the obstacles. Flush contact is allowed.
func Fits(carpet model.Rect, pos model.Position, obstacles []model.Rect, sheetWidth, sheetHeight float64) bool {
	test := carpet.MoveTo(pos)
	if !test.Within(sheetWidth, sheetHeight) {
		return false
	}
	for _, obstacle := range obstacles {
		if model.Intersects(test, obstacle) {
			return false
		}
	}
	return true
}
