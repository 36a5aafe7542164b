package project

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/CarpetFit/internal/model"
)

// SnapshotVersion is written into every exported snapshot.
const SnapshotVersion = "1.0.0"

// Snapshot is a saved obstacle set. Requests can reference one instead of
// listing obstacles inline, so the same set is indexed once and reused. Sheet,
// when set, stands in for a request that gives no sheet size.
type Snapshot struct {
	Version   string           `json:"version" yaml:"version"`
	ID        string           `json:"id" yaml:"id"`
	CreatedAt string           `json:"created_at" yaml:"created_at"`
	Source    string           `json:"source,omitempty" yaml:"source,omitempty"`
	Sheet     *model.Sheet     `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Obstacles []model.Obstacle `json:"obstacles" yaml:"obstacles"`
}

// NewSnapshot stamps obstacles with a fresh ID and the current time.
func NewSnapshot(source string, obstacles []model.Obstacle) Snapshot {
	if obstacles == nil {
		obstacles = []model.Obstacle{}
	}
	return Snapshot{
		Version:   SnapshotVersion,
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Source:    source,
		Obstacles: obstacles,
	}
}

// ExportSnapshot writes a snapshot to path as JSON or YAML.
func ExportSnapshot(path string, snap Snapshot) error {
	if snap.Version == "" {
		snap.Version = SnapshotVersion
	}
	return writeFile(path, snap)
}

// ImportSnapshot reads a snapshot written by ExportSnapshot.
func ImportSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	var snap Snapshot
	if err := decode(path, data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot file: %w", err)
	}
	if snap.Version == "" {
		return Snapshot{}, fmt.Errorf("invalid snapshot file: missing version field")
	}
	// Ensure Obstacles is never nil
	if snap.Obstacles == nil {
		snap.Obstacles = []model.Obstacle{}
	}
	return snap, nil
}
