package port

import (
	"context"

	"github.com/sroursolar/invoicegen/internal/domain/invoice"
)

// SnapshotRepository defines persistence operations for the shared snapshot
// slot. The slot holds at most one serialized DraftSnapshot: the form fully
// overwrites it on submit and the preview surface reads it back.
type SnapshotRepository interface {
	// Save overwrites the slot with the given snapshot
	Save(ctx context.Context, snapshot *invoice.DraftSnapshot) error

	// Load reads the slot. It returns (nil, nil) when no snapshot has been
	// submitted yet; the preview surface supplies sample defaults in that case.
	Load(ctx context.Context) (*invoice.DraftSnapshot, error)
}
