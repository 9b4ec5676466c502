package automation

import "context"

// EntitySnapshot pairs a monitored client with its flattened state.
type EntitySnapshot struct {
	ClientID uint
	Values   Snapshot
}

// SnapshotSource loads the entities relevant to one source type. The
// engine is agnostic to how a snapshot is computed; implementations live
// in internal/monitor.
type SnapshotSource interface {
	SourceType() string
	LoadSnapshots(ctx context.Context) ([]EntitySnapshot, error)
}
