package engine

import (
	"fmt"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// GridScenario names one lattice size to search with.
type GridScenario struct {
	Name     string
	GridSize int
}

// CompareScenarios runs a grid search for each scenario and returns the
// results in scenario order. Coarser lattices answer faster but can miss
// gaps a finer one finds; comparing them shows where that happens.
func (e *Engine) CompareScenarios(scenarios []GridScenario, carpet model.Rect, obstacles []model.Rect, sheetWidth, sheetHeight float64) []model.GridComparison {
	results := make([]model.GridComparison, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, model.GridComparison{
			Name:     s.Name,
			GridSize: s.GridSize,
			Search:   e.GridSearch(carpet, obstacles, sheetWidth, sheetHeight, s.GridSize),
		})
	}
	return results
}

// ScenariosForSizes names one scenario per grid size.
func ScenariosForSizes(sizes []int) []GridScenario {
	scenarios := make([]GridScenario, len(sizes))
	for i, size := range sizes {
		scenarios[i] = GridScenario{Name: fmt.Sprintf("Grid %dx%d", size, size), GridSize: size}
	}
	return scenarios
}

// BuildDefaultScenarios generates what-if alternatives around base: the
// current size, half as fine and twice as fine.
func BuildDefaultScenarios(base int) []GridScenario {
	scenarios := []GridScenario{{Name: "Current Settings", GridSize: base}}

	if half := base / 2; half >= 1 && half != base {
		scenarios = append(scenarios, GridScenario{Name: fmt.Sprintf("Coarse %dx%d", half, half), GridSize: half})
	}
	if base >= 1 {
		scenarios = append(scenarios, GridScenario{Name: fmt.Sprintf("Fine %dx%d", base*2, base*2), GridSize: base * 2})
	}
	return scenarios
}
