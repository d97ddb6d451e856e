// Package export generates invoice documents from preview models: a PDF (the
// primary, always-available path), an XLSX workbook, and a PNG thumbnail of
// the PDF's first page.
package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sroursolar/invoicegen/internal/application/port"
	"github.com/sroursolar/invoicegen/internal/domain/invoice"
	"github.com/sroursolar/invoicegen/internal/preview"
)

// Format identifies an export document format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatPNG  Format = "png"
)

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPNG:
		return "image/png"
	default:
		return "application/pdf"
	}
}

// Document is a rendered export artifact
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportLog records completed exports
type ExportLog interface {
	Create(ctx context.Context, record *Record) error
}

// Record is one completed export handed to the log
type Record struct {
	InvoiceNumber int
	Format        string
	FilePath      string
}

// Exporter renders snapshots into documents and optionally persists them
type Exporter struct {
	files  port.FileStorage
	logger *zap.Logger
}

// NewExporter creates a document exporter
func NewExporter(files port.FileStorage, logger *zap.Logger) *Exporter {
	return &Exporter{
		files:  files,
		logger: logger,
	}
}

// Render produces the document for a snapshot in the requested format. The
// suggested filename is derived from the invoice number. A PNG render that
// fails (the rasterizer is the least portable path) falls back to the PDF
// itself rather than failing the user action.
func (e *Exporter) Render(snapshot *invoice.DraftSnapshot, format Format) (*Document, error) {
	model := preview.Build(snapshot)

	switch format {
	case FormatXLSX:
		content, err := RenderXLSX(model)
		if err != nil {
			return nil, err
		}
		return &Document{
			Filename:    fmt.Sprintf("invoice-%d.xlsx", snapshot.Meta.Number),
			ContentType: format.ContentType(),
			Content:     content,
		}, nil

	case FormatPNG:
		pdfBytes, err := RenderPDF(model)
		if err != nil {
			return nil, err
		}
		content, err := RenderThumbnail(pdfBytes)
		if err != nil {
			e.logger.Warn("Thumbnail rendering failed, falling back to PDF",
				zap.Error(err),
				zap.Int("invoice_number", snapshot.Meta.Number))
			return &Document{
				Filename:    fmt.Sprintf("invoice-%d.pdf", snapshot.Meta.Number),
				ContentType: FormatPDF.ContentType(),
				Content:     pdfBytes,
			}, nil
		}
		return &Document{
			Filename:    fmt.Sprintf("invoice-%d.png", snapshot.Meta.Number),
			ContentType: format.ContentType(),
			Content:     content,
		}, nil

	default:
		content, err := RenderPDF(model)
		if err != nil {
			return nil, err
		}
		return &Document{
			Filename:    fmt.Sprintf("invoice-%d.pdf", snapshot.Meta.Number),
			ContentType: FormatPDF.ContentType(),
			Content:     content,
		}, nil
	}
}

// Save renders the snapshot and writes the document to the output directory,
// returning the written path
func (e *Exporter) Save(ctx context.Context, snapshot *invoice.DraftSnapshot, format Format) (string, error) {
	doc, err := e.Render(snapshot, format)
	if err != nil {
		return "", err
	}

	if err := e.files.Save(ctx, doc.Filename, doc.Content); err != nil {
		return "", err
	}
	return e.files.GetFullPath(doc.Filename), nil
}
