package port

import (
	"context"

	"github.com/sroursolar/invoicegen/internal/domain/invoice"
)

// ExportQueue accepts a submitted snapshot for background document
// generation. The handoff is fire-and-forget: the caller receives a single
// completion or failure signal through the queue's own logging, with no
// partial-progress or cancellation semantics.
type ExportQueue interface {
	Enqueue(snapshot *invoice.DraftSnapshot)
}

// FileStorage defines file output operations for generated documents
type FileStorage interface {
	Save(ctx context.Context, path string, content []byte) error
	Exists(ctx context.Context, path string) bool
	GetFullPath(relativePath string) string
}
