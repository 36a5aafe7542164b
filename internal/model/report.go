package model

// BatchResult answers one position of a batch collision check.
type BatchResult struct {
	Position Position `json:"position" yaml:"position"`
	Fits     bool     `json:"fits" yaml:"fits"`
}

// QueryResult answers one spatial index query. Hits lists the obstacles
// whose envelopes touch or overlap Rect.
type QueryResult struct {
	Rect     Rect  `json:"rect" yaml:"rect"`
	Collides bool  `json:"collides" yaml:"collides"`
	Hits     []int `json:"hits,omitempty" yaml:"hits,omitempty"`
}

// NearestResult names the obstacle closest to Point.
type NearestResult struct {
	Point    Position `json:"point" yaml:"point"`
	Found    bool     `json:"found" yaml:"found"`
	Obstacle int      `json:"obstacle" yaml:"obstacle"` // Index into Report.Obstacles
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Bounds   Rect     `json:"bounds" yaml:"bounds"`
	Distance float64  `json:"distance" yaml:"distance"`
}

// IndexStats describes the spatial index a request was answered with.
type IndexStats struct {
	Obstacles   int   `json:"obstacles" yaml:"obstacles"`
	Extent      *Rect `json:"extent,omitempty" yaml:"extent,omitempty"` // Envelope of all obstacles
	NodeSize    int   `json:"node_size" yaml:"node_size"`
	CacheHit    bool  `json:"cache_hit" yaml:"cache_hit"`
	CacheHits   int   `json:"cache_hits" yaml:"cache_hits"`
	CacheMisses int   `json:"cache_misses" yaml:"cache_misses"`
}

// Report is everything a run produced for one request.
type Report struct {
	ID        string     `json:"id" yaml:"id"`
	CreatedAt string     `json:"created_at" yaml:"created_at"`
	Sheet     Sheet      `json:"sheet" yaml:"sheet"`
	Carpet    Carpet     `json:"carpet" yaml:"carpet"`
	Obstacles []Obstacle `json:"obstacles" yaml:"obstacles"` // Margins and zones included, in collision order

	GridSize  int           `json:"grid_size" yaml:"grid_size"`
	Search    *SearchResult `json:"search,omitempty" yaml:"search,omitempty"`
	Placement *Rect         `json:"placement,omitempty" yaml:"placement,omitempty"`

	Batch   []BatchResult   `json:"batch,omitempty" yaml:"batch,omitempty"`
	Queries []QueryResult   `json:"queries,omitempty" yaml:"queries,omitempty"`
	Nearest []NearestResult `json:"nearest,omitempty" yaml:"nearest,omitempty"`
	Index   *IndexStats     `json:"index,omitempty" yaml:"index,omitempty"`

	Comparisons []GridComparison `json:"comparisons,omitempty" yaml:"comparisons,omitempty"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// FitCount returns how many batch positions fit.
func (r Report) FitCount() int {
	n := 0
	for _, b := range r.Batch {
		if b.Fits {
			n++
		}
	}
	return n
}

// GridComparison is the search result for one named lattice size.
type GridComparison struct {
	Name     string       `json:"name" yaml:"name"`
	GridSize int          `json:"grid_size" yaml:"grid_size"`
	Search   SearchResult `json:"search" yaml:"search"`
}
