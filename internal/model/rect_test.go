package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntersects_Overlapping(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 15, 15)
	assert.True(t, Intersects(a, b))
	assert.True(t, a.Intersects(b))
}

func TestIntersects_Disjoint(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(20, 20, 30, 30)
	assert.False(t, Intersects(a, b))
}

func TestIntersects_SharedEdgeDoesNotCount(t *testing.T) {
	a := NewRect(0, 0, 10, 10)

	assert.False(t, Intersects(a, NewRect(10, 0, 20, 10)), "right neighbour")
	assert.False(t, Intersects(a, NewRect(-10, 0, 0, 10)), "left neighbour")
	assert.False(t, Intersects(a, NewRect(0, 10, 10, 20)), "upper neighbour")
	assert.False(t, Intersects(a, NewRect(0, -10, 10, 0)), "lower neighbour")
	assert.False(t, Intersects(a, NewRect(10, 10, 20, 20)), "corner neighbour")
}

func TestIntersects_Containment(t *testing.T) {
	outer := NewRect(0, 0, 100, 100)
	inner := NewRect(40, 40, 60, 60)
	assert.True(t, Intersects(outer, inner))
	assert.True(t, Intersects(inner, outer))
}

func TestIntersects_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		a := randomRect(rng)
		b := randomRect(rng)
		assert.Equal(t, Intersects(a, b), Intersects(b, a), "a=%v b=%v", a, b)
	}
}

func TestEnvelopeIntersects_TouchingCounts(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(10, 0, 20, 10)
	assert.True(t, EnvelopeIntersects(a, b))
	assert.False(t, Intersects(a, b), "placement test stays strict")
	assert.False(t, EnvelopeIntersects(a, NewRect(10.001, 0, 20, 10)))
}

func TestTranslate_DoesNotMutate(t *testing.T) {
	r := NewRect(1, 2, 3, 4)
	moved := r.Translate(10, 20)

	assert.Equal(t, NewRect(11, 22, 13, 24), moved)
	assert.Equal(t, NewRect(1, 2, 3, 4), r)
}

func TestTranslate_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		r := randomRect(rng)
		dx := float64(rng.Intn(2000) - 1000)
		dy := float64(rng.Intn(2000) - 1000)
		assert.Equal(t, r, r.Translate(dx, dy).Translate(-dx, -dy))
	}
}

func TestMoveTo(t *testing.T) {
	r := NewRect(10, 20, 110, 70)
	moved := r.MoveTo(Position{X: 0, Y: 0})
	assert.Equal(t, NewRect(0, 0, 100, 50), moved)
	assert.InDelta(t, r.Width(), moved.Width(), 1e-9)
	assert.InDelta(t, r.Height(), moved.Height(), 1e-9)
}

func TestWithin(t *testing.T) {
	assert.True(t, NewRect(0, 0, 800, 600).Within(800, 600), "exactly the sheet")
	assert.True(t, NewRect(700, 550, 800, 600).Within(800, 600), "flush with far corner")
	assert.False(t, NewRect(-0.5, 0, 10, 10).Within(800, 600))
	assert.False(t, NewRect(0, -0.5, 10, 10).Within(800, 600))
	assert.False(t, NewRect(750, 0, 850, 10).Within(800, 600))
	assert.False(t, NewRect(0, 550, 10, 650).Within(800, 600))
}

func TestDistance2(t *testing.T) {
	r := NewRect(100, 100, 150, 150)

	assert.InDelta(t, 400.0, r.Distance2(80, 125), 1e-9, "20mm to the left")
	assert.InDelta(t, 400.0, r.Distance2(125, 80), 1e-9, "20mm below")
	assert.InDelta(t, 800.0, r.Distance2(80, 80), 1e-9, "diagonal")
	assert.InDelta(t, 0.0, r.Distance2(125, 125), 1e-9, "inside")
	assert.InDelta(t, 0.0, r.Distance2(100, 125), 1e-9, "on edge")
}

func TestUnionAndCenter(t *testing.T) {
	u := NewRect(0, 0, 10, 10).Union(NewRect(5, -5, 20, 8))
	assert.Equal(t, NewRect(0, -5, 20, 10), u)

	cx, cy := u.Center()
	assert.InDelta(t, 10.0, cx, 1e-9)
	assert.InDelta(t, 2.5, cy, 1e-9)
	assert.InDelta(t, 300.0, u.Area(), 1e-9)
}

func TestBoundsRoundTrip(t *testing.T) {
	b := [4]float64{1, 2, 3, 4}
	assert.Equal(t, b, RectFromBounds(b).Bounds())
}

func randomRect(rng *rand.Rand) Rect {
	x := float64(rng.Intn(200))
	y := float64(rng.Intn(200))
	return RectFromSize(x, y, float64(rng.Intn(50)), float64(rng.Intn(50)))
}
