package model

import "math"

// Rect is an axis-aligned bounding box in sheet coordinates (mm).
// Callers must keep MinX <= MaxX and MinY <= MaxY; nothing here validates it.
type Rect struct {
	MinX float64 `json:"min_x" yaml:"min_x"`
	MinY float64 `json:"min_y" yaml:"min_y"`
	MaxX float64 `json:"max_x" yaml:"max_x"`
	MaxY float64 `json:"max_y" yaml:"max_y"`
}

// NewRect builds a Rect from its min and max corners.
func NewRect(minX, minY, maxX, maxY float64) Rect {
	return Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// RectFromSize builds a Rect anchored at (x, y) with the given size.
func RectFromSize(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// Position is the target for a footprint's own min corner.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Area returns Width * Height.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{
		MinX: r.MinX + dx,
		MinY: r.MinY + dy,
		MaxX: r.MaxX + dx,
		MaxY: r.MaxY + dy,
	}
}

// MoveTo returns r translated so that its min corner sits on p.
func (r Rect) MoveTo(p Position) Rect {
	return r.Translate(p.X-r.MinX, p.Y-r.MinY)
}

// Intersects reports whether a and b overlap with positive area.
// Rectangles that only share an edge or a corner do not intersect, so two
// carpets may be placed flush against each other.
func Intersects(a, b Rect) bool {
	return !(a.MaxX <= b.MinX ||
		b.MaxX <= a.MinX ||
		a.MaxY <= b.MinY ||
		b.MaxY <= a.MinY)
}

// Intersects is the method form of Intersects.
func (r Rect) Intersects(other Rect) bool {
	return Intersects(r, other)
}

// EnvelopeIntersects is the inclusive overlap test used by the spatial index:
// touching edges count. It must not replace Intersects for placement
// acceptance, which would reject flush placements.
func EnvelopeIntersects(a, b Rect) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX &&
		a.MinY <= b.MaxY && a.MaxY >= b.MinY
}

// Within reports whether r lies inside [0, width] x [0, height].
// Edges lying exactly on the sheet boundary are inside.
func (r Rect) Within(width, height float64) bool {
	return !(r.MinX < 0 || r.MinY < 0 || r.MaxX > width || r.MaxY > height)
}

// Union returns the smallest Rect containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, other.MinX),
		MinY: math.Min(r.MinY, other.MinY),
		MaxX: math.Max(r.MaxX, other.MaxX),
		MaxY: math.Max(r.MaxY, other.MaxY),
	}
}

// Center returns the midpoint of r.
func (r Rect) Center() (float64, float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Distance2 returns the squared distance from (x, y) to the closest point on
// or inside r. Points inside r have distance 0.
func (r Rect) Distance2(x, y float64) float64 {
	nearestX := math.Max(r.MinX, math.Min(x, r.MaxX))
	nearestY := math.Max(r.MinY, math.Min(y, r.MaxY))
	dx := x - nearestX
	dy := y - nearestY
	return dx*dx + dy*dy
}

// Bounds returns r as a (min_x, min_y, max_x, max_y) tuple.
func (r Rect) Bounds() [4]float64 {
	return [4]float64{r.MinX, r.MinY, r.MaxX, r.MaxY}
}

// RectFromBounds converts a (min_x, min_y, max_x, max_y) tuple.
func RectFromBounds(b [4]float64) Rect {
	return Rect{MinX: b[0], MinY: b[1], MaxX: b[2], MaxY: b[3]}
}
