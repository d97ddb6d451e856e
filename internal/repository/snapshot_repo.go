package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/sroursolar/invoicegen/internal/domain/invoice"
)

// DefaultSlot is the storage slot the form writes and the preview reads,
// carried over from the browser key the surfaces originally shared.
const DefaultSlot = "invoiceData"

// SnapshotRepository persists the serialized draft snapshot in a single
// named slot. The writer fully overwrites the slot on submit; the reader
// loads it once when the preview mounts.
type SnapshotRepository struct {
	db     *sql.DB
	slot   string
	logger *zap.Logger
}

// NewSnapshotRepository creates a snapshot repository bound to the given slot
func NewSnapshotRepository(db *sql.DB, slot string, logger *zap.Logger) *SnapshotRepository {
	if slot == "" {
		slot = DefaultSlot
	}
	return &SnapshotRepository{
		db:     db,
		slot:   slot,
		logger: logger,
	}
}

// Save overwrites the slot with the given snapshot
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *invoice.DraftSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	query := `
		INSERT INTO snapshots (slot, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, r.slot, string(payload)); err != nil {
		r.logger.Error("Failed to save snapshot", zap.Error(err), zap.String("slot", r.slot))
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.logger.Info("Snapshot saved",
		zap.String("slot", r.slot),
		zap.Int("invoice_number", snapshot.Meta.Number))
	return nil
}

// Load reads the slot. It returns (nil, nil) when nothing has been submitted
// yet so callers can fall back to sample defaults.
func (r *SnapshotRepository) Load(ctx context.Context) (*invoice.DraftSnapshot, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, "SELECT payload FROM snapshots WHERE slot = ?", r.slot).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to load snapshot", zap.Error(err), zap.String("slot", r.slot))
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snapshot invoice.DraftSnapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to deserialize snapshot: %w", err)
	}
	return &snapshot, nil
}
