package model

import "github.com/google/uuid"

// Point2D represents a 2D coordinate in mm.
type Point2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the axis-aligned bounds of the outline.
func (o Outline) BoundingBox() Rect {
	if len(o) == 0 {
		return Rect{}
	}
	r := Rect{MinX: o[0].X, MinY: o[0].Y, MaxX: o[0].X, MaxY: o[0].Y}
	for _, p := range o[1:] {
		if p.X < r.MinX {
			r.MinX = p.X
		}
		if p.Y < r.MinY {
			r.MinY = p.Y
		}
		if p.X > r.MaxX {
			r.MaxX = p.X
		}
		if p.Y > r.MaxY {
			r.MaxY = p.Y
		}
	}
	return r
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Obstacle is a previously placed footprint on the sheet.
type Obstacle struct {
	ID     string `json:"id" yaml:"id"`
	Label  string `json:"label" yaml:"label"`
	Bounds Rect   `json:"bounds" yaml:"bounds"`
}

func NewObstacle(label string, bounds Rect) Obstacle {
	return Obstacle{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Bounds: bounds,
	}
}

// ObstacleRects returns the bounds of each obstacle, preserving order.
func ObstacleRects(obstacles []Obstacle) []Rect {
	rects := make([]Rect, len(obstacles))
	for i, o := range obstacles {
		rects[i] = o.Bounds
	}
	return rects
}

// Carpet is the footprint being placed. Non-rectangular carpets keep their
// Outline for display; only Bounds takes part in collision checks.
type Carpet struct {
	ID      string  `json:"id" yaml:"id"`
	Label   string  `json:"label" yaml:"label"`
	Bounds  Rect    `json:"bounds" yaml:"bounds"`
	Outline Outline `json:"outline,omitempty" yaml:"outline,omitempty"`
}

func NewCarpet(label string, bounds Rect) Carpet {
	return Carpet{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Bounds: bounds,
	}
}

// Margins reserves strips along the sheet edges that carpets may not cover.
type Margins struct {
	Top    float64 `json:"top" yaml:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
}

// Zone defines a rectangular keep-out area on the sheet (clamp, fixture, defect).
type Zone struct {
	Label  string  `json:"label" yaml:"label"`
	X      float64 `json:"x" yaml:"x"`           // Distance from left edge (mm)
	Y      float64 `json:"y" yaml:"y"`           // Distance from bottom edge (mm)
	Width  float64 `json:"width" yaml:"width"`   // Zone width (mm)
	Height float64 `json:"height" yaml:"height"` // Zone height (mm)
}

// Sheet is the bounded container carpets are placed in.
type Sheet struct {
	Label      string  `json:"label" yaml:"label"`
	Width      float64 `json:"width" yaml:"width"`   // mm
	Height     float64 `json:"height" yaml:"height"` // mm
	Margins    Margins `json:"margins" yaml:"margins"`
	Exclusions []Zone  `json:"exclusions,omitempty" yaml:"exclusions,omitempty"`
}

func NewSheet(label string, w, h float64) Sheet {
	return Sheet{Label: label, Width: w, Height: h}
}

// ExclusionObstacles converts margins and keep-out zones into obstacles, so
// they take part in the same collision tests as placed carpets. Margins come
// first (bottom, top, left, right), then zones in declaration order.
func (s Sheet) ExclusionObstacles() []Obstacle {
	var out []Obstacle
	if s.Margins.Bottom > 0 {
		out = append(out, NewObstacle("margin-bottom", RectFromSize(0, 0, s.Width, s.Margins.Bottom)))
	}
	if s.Margins.Top > 0 {
		out = append(out, NewObstacle("margin-top", RectFromSize(0, s.Height-s.Margins.Top, s.Width, s.Margins.Top)))
	}
	if s.Margins.Left > 0 {
		out = append(out, NewObstacle("margin-left", RectFromSize(0, 0, s.Margins.Left, s.Height)))
	}
	if s.Margins.Right > 0 {
		out = append(out, NewObstacle("margin-right", RectFromSize(s.Width-s.Margins.Right, 0, s.Margins.Right, s.Height)))
	}
	for _, z := range s.Exclusions {
		out = append(out, NewObstacle(z.Label, RectFromSize(z.X, z.Y, z.Width, z.Height)))
	}
	return out
}

// ExclusionRects returns the bounds of ExclusionObstacles.
func (s Sheet) ExclusionRects() []Rect {
	return ObstacleRects(s.ExclusionObstacles())
}

// Settings holds engine and index tuning.
type Settings struct {
	Workers       int `json:"workers" yaml:"workers"`                 // 0 = one per CPU
	GridSize      int `json:"grid_size" yaml:"grid_size"`             // Lattice points per axis
	IndexNodeSize int `json:"index_node_size" yaml:"index_node_size"` // Max entries per R-tree node
}

func DefaultSettings() Settings {
	return Settings{
		Workers:       0,
		GridSize:      50,
		IndexNodeSize: 16,
	}
}

// SearchResult is the outcome of a grid search. Found is false when no
// lattice point is in bounds and collision-free; that is not an error.
type SearchResult struct {
	Position   Position `json:"position" yaml:"position"`
	Found      bool     `json:"found" yaml:"found"`
	Index      int      `json:"index" yaml:"index"`           // Row-major lattice index of Position, -1 if not found
	Candidates int      `json:"candidates" yaml:"candidates"` // Lattice points evaluated
}

// Placed returns the carpet bounds at the found position.
func (sr SearchResult) Placed(carpet Rect) (Rect, bool) {
	if !sr.Found {
		return Rect{}, false
	}
	return carpet.MoveTo(sr.Position), true
}
