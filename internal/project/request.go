package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// Request describes one run: a sheet, the carpet to place, the obstacles
// already on the sheet, and the questions to answer about them.
type Request struct {
	Sheet      model.Sheet  `json:"sheet" yaml:"sheet"`
	Carpet     model.Carpet `json:"carpet" yaml:"carpet"`
	CarpetFile string       `json:"carpet_file,omitempty" yaml:"carpet_file,omitempty"` // DXF; its largest shape replaces Carpet

	Obstacles     []model.Obstacle `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
	ObstacleFiles []string         `json:"obstacle_files,omitempty" yaml:"obstacle_files,omitempty"` // CSV, Excel or DXF
	Snapshot      string           `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`

	// GridSize overrides the configured lattice size when set. An explicit 0
	// gives an empty lattice, so the search finds nothing.
	GridSize  *int             `json:"grid_size,omitempty" yaml:"grid_size,omitempty"`
	Positions []model.Position `json:"positions,omitempty" yaml:"positions,omitempty"`
	Queries   []model.Rect     `json:"queries,omitempty" yaml:"queries,omitempty"`
	Nearest   []model.Position `json:"nearest,omitempty" yaml:"nearest,omitempty"`

	// Compare adds searches at half and double the grid size to the report;
	// CompareGridSizes adds searches at the listed sizes.
	Compare          bool  `json:"compare,omitempty" yaml:"compare,omitempty"`
	CompareGridSizes []int `json:"compare_grid_sizes,omitempty" yaml:"compare_grid_sizes,omitempty"`
}

// LoadRequest reads a request file. Relative obstacle_files, snapshot and
// carpet_file paths are resolved against the directory holding the request.
func LoadRequest(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, fmt.Errorf("failed to read request file: %w", err)
	}
	var req Request
	if err := decode(path, data, &req); err != nil {
		return Request{}, fmt.Errorf("failed to parse request file: %w", err)
	}

	base := filepath.Dir(path)
	for i, f := range req.ObstacleFiles {
		req.ObstacleFiles[i] = resolve(base, f)
	}
	if req.Snapshot != "" {
		req.Snapshot = resolve(base, req.Snapshot)
	}
	if req.CarpetFile != "" {
		req.CarpetFile = resolve(base, req.CarpetFile)
	}
	return req, nil
}

// SaveReport writes a run report as JSON or YAML.
func SaveReport(path string, report model.Report) error {
	return writeFile(path, report)
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
