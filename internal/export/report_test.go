package export

import (
	"github.com/piwi3910/CarpetFit/internal/model"
)

// buildTestReport creates a realistic run report for testing.
func buildTestReport() model.Report {
	sheet := model.NewSheet("Living Room", 800, 600)
	sheet.Margins = model.Margins{Left: 20}
	sheet.Exclusions = []model.Zone{{Label: "Radiator", X: 300, Y: 560, Width: 200, Height: 40}}

	obstacles := sheet.ExclusionObstacles()
	obstacles = append(obstacles,
		model.NewObstacle("Sofa", model.NewRect(20, 0, 700, 200)),
		model.NewObstacle("Table", model.NewRect(100, 300, 250, 400)),
	)

	carpet := model.NewCarpet("Runner", model.NewRect(0, 0, 100, 50))
	search := model.SearchResult{Found: true, Position: model.Position{X: 700, Y: 0}, Index: 56, Candidates: 64}
	placed, _ := search.Placed(carpet.Bounds)

	return model.Report{
		ID:        "test",
		CreatedAt: "2026-01-01T00:00:00Z",
		Sheet:     sheet,
		Carpet:    carpet,
		Obstacles: obstacles,
		GridSize:  8,
		Search:    &search,
		Placement: &placed,
		Batch: []model.BatchResult{
			{Position: model.Position{X: 0, Y: 0}, Fits: false},
			{Position: model.Position{X: 700, Y: 300}, Fits: true},
			{Position: model.Position{X: 400, Y: 450}, Fits: true},
		},
		Queries: []model.QueryResult{
			{Rect: model.NewRect(5, 5, 15, 15), Collides: true, Hits: []int{0}},
			{Rect: model.NewRect(750, 500, 760, 510), Collides: false},
		},
		Nearest: []model.NearestResult{
			{Point: model.Position{X: 750, Y: 300}, Found: true, Obstacle: 2, Label: "Sofa", Distance: 111.8},
		},
		Index:    &model.IndexStats{Obstacles: 4, NodeSize: 16, CacheMisses: 1},
		Comparisons: []model.GridComparison{
			{Name: "Current Settings", GridSize: 8, Search: search},
			{Name: "Coarse 4x4", GridSize: 4, Search: model.SearchResult{Index: -1, Candidates: 16}},
		},
		Warnings: []string{"Line 4: Invalid x 'abc'"},
	}
}
