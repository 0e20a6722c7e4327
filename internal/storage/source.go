// internal/storage/source.go
package storage

import "zonewarden.io/internal/models"

// SnapshotSource indicates where a zone snapshot was read from
type SnapshotSource string

const (
	SourceDatabase SnapshotSource = "DB" // Read from the store (L3)
	SourceRedis    SnapshotSource = "L2" // Read from the Redis cache (L2)
	SourceMemory   SnapshotSource = "L1" // Read from the memory cache (L1)
)

// String returns a human-readable representation of the snapshot source
func (s SnapshotSource) String() string {
	return string(s)
}

// SnapshotResult is a zone's records together with the layer that served them
type SnapshotResult struct {
	Records []models.Record `json:"records"`
	Source  SnapshotSource  `json:"source"`
}
