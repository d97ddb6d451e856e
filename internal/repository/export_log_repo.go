package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ExportRecord is one completed background export
type ExportRecord struct {
	ID            int64     `json:"id"`
	InvoiceNumber int       `json:"invoice_number"`
	Format        string    `json:"format"`
	FilePath      string    `json:"file_path"`
	CreatedAt     time.Time `json:"created_at"`
}

// ExportLogRepository records where generated documents were written
type ExportLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExportLogRepository creates a new export log repository
func NewExportLogRepository(db *sql.DB, logger *zap.Logger) *ExportLogRepository {
	return &ExportLogRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a completed export
func (r *ExportLogRepository) Create(ctx context.Context, record *ExportRecord) error {
	query := `
		INSERT INTO export_log (invoice_number, format, file_path) VALUES (?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, record.InvoiceNumber, record.Format, record.FilePath)
	if err != nil {
		r.logger.Error("Failed to record export", zap.Error(err))
		return fmt.Errorf("failed to record export: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	record.ID = id
	return nil
}

// List returns the most recent exports, newest first
func (r *ExportLogRepository) List(ctx context.Context, limit int) ([]*ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, invoice_number, format, file_path, created_at
		FROM export_log ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	records := make([]*ExportRecord, 0, limit)
	for rows.Next() {
		var rec ExportRecord
		if err := rows.Scan(&rec.ID, &rec.InvoiceNumber, &rec.Format, &rec.FilePath, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
