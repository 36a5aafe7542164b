// Package runner answers a request end to end: it gathers obstacles from the
// request, its snapshot and its obstacle files, then runs the grid search,
// the batch check and the index queries against them.
package runner

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piwi3910/CarpetFit/internal/engine"
	"github.com/piwi3910/CarpetFit/internal/importer"
	"github.com/piwi3910/CarpetFit/internal/model"
	"github.com/piwi3910/CarpetFit/internal/project"
	"github.com/piwi3910/CarpetFit/internal/spatial"
)

// Runner holds the engine and the index cache shared by all runs. It is safe
// for concurrent use.
type Runner struct {
	config model.AppConfig
	engine *engine.Engine
	cache  *spatial.Cache
	logger *zap.Logger
}

// New builds a Runner from the application config. A nil logger disables
// logging.
func New(cfg model.AppConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)

	return &Runner{
		config: cfg,
		engine: engine.New(settings, logger.Named("engine")),
		cache:  spatial.NewCache(cfg.IndexCacheSize, settings.IndexNodeSize),
		logger: logger,
	}
}

// Settings returns the engine settings in effect.
func (r *Runner) Settings() model.Settings {
	return r.engine.Settings
}

// Run executes req. Unreadable snapshots, carpet files, or obstacle files
// that yield nothing are errors; bad rows inside an obstacle file become
// report warnings. Finding no position is a normal result.
func (r *Runner) Run(req project.Request) (model.Report, error) {
	start := time.Now()
	report := model.Report{
		ID:        uuid.New().String(),
		CreatedAt: start.UTC().Format(time.RFC3339),
		Sheet:     req.Sheet,
		Carpet:    req.Carpet,
	}

	var snap *project.Snapshot
	if req.Snapshot != "" {
		loaded, err := project.ImportSnapshot(req.Snapshot)
		if err != nil {
			return model.Report{}, err
		}
		snap = &loaded
		r.logger.Debug("snapshot loaded",
			zap.String("path", req.Snapshot),
			zap.String("id", loaded.ID),
			zap.Int("obstacles", len(loaded.Obstacles)),
		)
	}

	if !sheetSized(report.Sheet) && snap != nil && snap.Sheet != nil && sheetSized(*snap.Sheet) {
		report.Sheet = *snap.Sheet
	}
	if !sheetSized(report.Sheet) {
		report.Sheet.Width = r.config.DefaultSheetWidth
		report.Sheet.Height = r.config.DefaultSheetHeight
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Sheet size missing, using default %.0f x %.0f mm", report.Sheet.Width, report.Sheet.Height))
	}

	if req.CarpetFile != "" {
		carpet, warnings, err := importer.ImportCarpetDXF(req.CarpetFile)
		if err != nil {
			return model.Report{}, fmt.Errorf("failed to import carpet %s: %w", filepath.Base(req.CarpetFile), err)
		}
		report.Carpet = carpet
		report.Warnings = append(report.Warnings, prefixed(req.CarpetFile, warnings)...)
	}
	if report.Carpet.ID == "" {
		report.Carpet.ID = uuid.New().String()[:8]
	}
	if report.Carpet.Bounds.Area() == 0 {
		report.Warnings = append(report.Warnings, "Carpet has zero area")
	}

	obstacles, warnings, err := r.collectObstacles(req, report.Sheet, snap)
	if err != nil {
		return model.Report{}, err
	}
	report.Obstacles = obstacles
	report.Warnings = append(report.Warnings, warnings...)
	rects := model.ObstacleRects(obstacles)

	carpet := report.Carpet.Bounds
	sheetW, sheetH := report.Sheet.Width, report.Sheet.Height

	report.GridSize = r.engine.Settings.GridSize
	if req.GridSize != nil {
		report.GridSize = *req.GridSize
	}
	search := r.engine.GridSearch(carpet, rects, sheetW, sheetH, report.GridSize)
	report.Search = &search
	if placed, ok := search.Placed(carpet); ok {
		report.Placement = &placed
	}

	if len(req.Positions) > 0 {
		fits := r.engine.BatchCheck(carpet, req.Positions, rects, sheetW, sheetH)
		report.Batch = make([]model.BatchResult, len(fits))
		for i, ok := range fits {
			report.Batch[i] = model.BatchResult{Position: req.Positions[i], Fits: ok}
		}
	}

	var scenarios []engine.GridScenario
	if req.Compare {
		scenarios = engine.BuildDefaultScenarios(report.GridSize)
	}
	scenarios = append(scenarios, engine.ScenariosForSizes(req.CompareGridSizes)...)
	if len(scenarios) > 0 {
		report.Comparisons = r.engine.CompareScenarios(scenarios, carpet, rects, sheetW, sheetH)
	}

	if len(req.Queries) > 0 || len(req.Nearest) > 0 {
		r.answerIndexQueries(&report, req, rects)
	}

	r.logger.Info("run complete",
		zap.String("report", report.ID),
		zap.Int("obstacles", len(obstacles)),
		zap.Bool("found", search.Found),
		zap.Int("batch", len(report.Batch)),
		zap.Int("queries", len(report.Queries)),
		zap.Int("nearest", len(report.Nearest)),
		zap.Int("warnings", len(report.Warnings)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

// collectObstacles returns the sheet exclusions followed by the inline,
// snapshot and file obstacles, in that order.
func (r *Runner) collectObstacles(req project.Request, sheet model.Sheet, snap *project.Snapshot) ([]model.Obstacle, []string, error) {
	obstacles := sheet.ExclusionObstacles()
	var warnings []string

	for _, o := range req.Obstacles {
		if o.ID == "" {
			o.ID = uuid.New().String()[:8]
		}
		obstacles = append(obstacles, o)
	}

	if snap != nil {
		obstacles = append(obstacles, snap.Obstacles...)
	}

	for _, path := range req.ObstacleFiles {
		result := importer.Import(path)
		if !result.OK() {
			if len(result.Obstacles) == 0 {
				return nil, nil, importError(path, result)
			}
			r.logger.Warn("obstacle file imported with errors",
				zap.String("path", path),
				zap.Int("errors", len(result.Errors)),
			)
		}
		obstacles = append(obstacles, result.Obstacles...)
		warnings = append(warnings, prefixed(path, result.Errors)...)
		warnings = append(warnings, prefixed(path, result.Warnings)...)
		r.logger.Debug("obstacle file imported",
			zap.String("path", path),
			zap.Int("obstacles", len(result.Obstacles)),
			zap.Int("errors", len(result.Errors)),
		)
	}
	return obstacles, warnings, nil
}

// answerIndexQueries runs the overlap and nearest queries against a cached
// index of rects.
func (r *Runner) answerIndexQueries(report *model.Report, req project.Request, rects []model.Rect) {
	idx, hit := r.cache.Lookup(rects)
	stats := r.cache.Stats()
	report.Index = &model.IndexStats{
		Obstacles:   idx.Len(),
		NodeSize:    r.cache.NodeSize(),
		CacheHit:    hit,
		CacheHits:   stats.Hits,
		CacheMisses: stats.Misses,
	}
	if extent, ok := idx.Bounds(); ok {
		report.Index.Extent = &extent
	}

	for _, q := range req.Queries {
		hits := idx.Intersecting(q)
		report.Queries = append(report.Queries, model.QueryResult{
			Rect:     q,
			Collides: len(hits) > 0,
			Hits:     hits,
		})
	}

	for _, p := range req.Nearest {
		res := model.NearestResult{Point: p, Obstacle: -1}
		if i, d2, ok := idx.Nearest(p.X, p.Y); ok {
			res.Found = true
			res.Obstacle = i
			res.Label = report.Obstacles[i].Label
			res.Bounds = idx.Obstacle(i)
			res.Distance = math.Sqrt(d2)
		}
		report.Nearest = append(report.Nearest, res)
	}
}

// ImportSnapshot reads an obstacle file into a snapshot. Row errors are
// returned as warnings unless nothing could be imported.
func ImportSnapshot(path string) (project.Snapshot, []string, error) {
	result := importer.Import(path)
	if len(result.Obstacles) == 0 {
		return project.Snapshot{}, nil, importError(path, result)
	}
	warnings := append(prefixed(path, result.Errors), prefixed(path, result.Warnings)...)
	return project.NewSnapshot(filepath.Base(path), result.Obstacles), warnings, nil
}

// importError describes an import that produced no obstacles.
func importError(path string, result importer.ImportResult) error {
	if len(result.Errors) > 0 {
		return fmt.Errorf("failed to import %s: %s", filepath.Base(path), result.Errors[0])
	}
	return fmt.Errorf("no obstacles found in %s", filepath.Base(path))
}

func sheetSized(s model.Sheet) bool {
	return s.Width > 0 && s.Height > 0
}

func prefixed(path string, msgs []string) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = filepath.Base(path) + ": " + m
	}
	return out
}
