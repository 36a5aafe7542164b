package spatial

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CarpetFit/internal/model"
)

func randomRects(rng *rand.Rand, n int, extent, maxSize float64) []model.Rect {
	rects := make([]model.Rect, n)
	for i := range rects {
		x := rng.Float64() * extent
		y := rng.Float64() * extent
		rects[i] = model.RectFromSize(x, y, rng.Float64()*maxSize, rng.Float64()*maxSize)
	}
	return rects
}

func linearHits(obstacles []model.Rect, q model.Rect) []int {
	var hits []int
	for i, o := range obstacles {
		if model.EnvelopeIntersects(o, q) {
			hits = append(hits, i)
		}
	}
	return hits
}

func TestIndex_TwoObstacleScenario(t *testing.T) {
	idx := Build([]model.Rect{
		model.NewRect(0, 0, 10, 10),
		model.NewRect(50, 50, 60, 60),
	})

	assert.True(t, idx.HasCollision(model.NewRect(5, 5, 15, 15)))
	assert.False(t, idx.HasCollision(model.NewRect(20, 20, 30, 30)))
}

func TestIndex_TouchingCounts(t *testing.T) {
	idx := Build([]model.Rect{model.NewRect(0, 0, 10, 10)})

	assert.True(t, idx.HasCollision(model.NewRect(10, 0, 20, 10)), "shared edge")
	assert.True(t, idx.HasCollision(model.NewRect(10, 10, 20, 20)), "shared corner")
	assert.False(t, idx.HasCollision(model.NewRect(10.001, 0, 20, 10)))
}

func TestIndex_Empty(t *testing.T) {
	idx := Build(nil)

	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.HasCollision(model.NewRect(-1e9, -1e9, 1e9, 1e9)))
	_, ok := idx.Bounds()
	assert.False(t, ok)
	_, _, ok = idx.Nearest(0, 0)
	assert.False(t, ok)

}

func TestIndex_ZeroValueIsEmpty(t *testing.T) {
	var zero Index

	assert.Equal(t, 0, zero.Len())
	assert.False(t, zero.HasCollision(model.NewRect(0, 0, 1, 1)))
	assert.Empty(t, zero.Intersecting(model.NewRect(-10, -10, 10, 10)))
	_, ok := zero.Bounds()
	assert.False(t, ok)
	_, _, ok = zero.Nearest(0, 0)
	assert.False(t, ok)
}

func TestIndex_InvertedQueryIsNotNormalized(t *testing.T) {
	idx := Build([]model.Rect{model.NewRect(0, 0, 10, 10)})

	assert.False(t, idx.HasCollision(model.NewRect(15, 15, 5, 5)))
	assert.True(t, idx.HasCollision(model.NewRect(6, 6, 4, 4)), "obstacle spans the inverted box")
}

func TestIndex_ZeroExtentObstacle(t *testing.T) {
	idx := Build([]model.Rect{model.NewRect(5, 5, 5, 5)})

	assert.True(t, idx.HasCollision(model.NewRect(0, 0, 10, 10)))
	assert.False(t, idx.HasCollision(model.NewRect(6, 6, 10, 10)))
}

func TestIndex_AgreesWithLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, nodeSize := range []int{2, 4, 16} {
		for _, n := range []int{1, 3, 17, 100, 500} {
			obstacles := randomRects(rng, n, 1000, 60)
			idx := BuildWithNodeSize(obstacles, nodeSize)
			require.Equal(t, n, idx.Len())

			for q := 0; q < 200; q++ {
				query := randomRects(rng, 1, 1000, 120)[0]
				want := linearHits(obstacles, query)

				assert.Equal(t, want, idx.Intersecting(query), "node size %d, n %d", nodeSize, n)
				assert.Equal(t, len(want) > 0, idx.HasCollision(query))
			}
		}
	}
}

func TestIndex_QueryIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	idx := Build(randomRects(rng, 200, 500, 40))
	q := model.NewRect(100, 100, 180, 160)

	first := idx.HasCollision(q)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, idx.HasCollision(q))
	}
}

func TestIndex_SearchStopsEarly(t *testing.T) {
	obstacles := make([]model.Rect, 50)
	for i := range obstacles {
		obstacles[i] = model.RectFromSize(float64(i), 0, 1, 1)
	}
	idx := Build(obstacles)

	calls := 0
	idx.Search(model.NewRect(0, 0, 100, 1), func(int) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestIndex_CopiesInput(t *testing.T) {
	obstacles := []model.Rect{model.NewRect(0, 0, 10, 10)}
	idx := Build(obstacles)
	obstacles[0] = model.NewRect(100, 100, 110, 110)

	assert.True(t, idx.HasCollision(model.NewRect(5, 5, 6, 6)))
	assert.Equal(t, model.NewRect(0, 0, 10, 10), idx.Obstacle(0))
}

func TestIndex_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	obstacles := randomRects(rng, 300, 800, 30)
	idx := Build(obstacles)

	want := obstacles[0]
	for _, o := range obstacles[1:] {
		want = want.Union(o)
	}
	got, ok := idx.Bounds()
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestIndex_SmallNodeSizeFallsBack(t *testing.T) {
	idx := BuildWithNodeSize([]model.Rect{model.NewRect(0, 0, 1, 1)}, 1)
	assert.Equal(t, DefaultNodeSize, idx.nodeSize)
	assert.True(t, idx.HasCollision(model.NewRect(0, 0, 1, 1)))
}

func TestIndex_TouchingAcrossManyNodes(t *testing.T) {
	obstacles := make([]model.Rect, 0, 400)
	for i := 0; i < 20; i++ {
		for j := 0; j < 20; j++ {
			obstacles = append(obstacles, model.RectFromSize(float64(i)*10, float64(j)*10, 5, 5))
		}
	}
	idx := BuildWithNodeSize(obstacles, 4)

	for i, o := range obstacles {
		edge := model.NewRect(o.MaxX, o.MinY, o.MaxX+1, o.MaxY)
		assert.Equal(t, []int{i}, idx.Intersecting(edge), "right edge of %d", i)
	}
}
