package export

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sroursolar/invoicegen/internal/domain/invoice"
)

// Worker generates documents for submitted snapshots in the background. The
// handoff is fire-and-forget: the form session enqueues the frozen snapshot
// and moves on; completion or failure is a single log signal plus an export
// log record. There is no partial-progress or cancellation contract.
type Worker struct {
	exporter *Exporter
	log      ExportLog
	format   Format

	jobs   chan *invoice.DraftSnapshot
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
	logger *zap.Logger
}

// NewWorker creates an export worker that saves documents in the given format
func NewWorker(exporter *Exporter, log ExportLog, format Format, queueSize int, logger *zap.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = 8
	}
	return &Worker{
		exporter: exporter,
		log:      log,
		format:   format,
		jobs:     make(chan *invoice.DraftSnapshot, queueSize),
		stop:     make(chan struct{}),
		logger:   logger,
	}
}

// Name returns the worker name for lifecycle logging
func (w *Worker) Name() string {
	return "export-worker"
}

// Start launches the processing loop
func (w *Worker) Start(ctx context.Context) error {
	w.wg.Add(1)
	go w.loop(ctx)
	w.logger.Info("Worker started", zap.String("name", w.Name()))
	return nil
}

// Stop shuts the worker down after draining in-flight work
func (w *Worker) Stop() {
	w.once.Do(func() {
		close(w.stop)
	})
	w.wg.Wait()
	w.logger.Info("Worker stopped", zap.String("name", w.Name()))
}

// Enqueue hands a snapshot to the worker. A full queue drops the job with a
// warning rather than blocking the submit path; the user can still export
// through the synchronous download endpoints.
func (w *Worker) Enqueue(snapshot *invoice.DraftSnapshot) {
	select {
	case w.jobs <- snapshot:
	default:
		w.logger.Warn("Export queue full, dropping job",
			zap.Int("invoice_number", snapshot.Meta.Number))
	}
}

func (w *Worker) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case snapshot := <-w.jobs:
			w.process(ctx, snapshot)
		case <-w.stop:
			// Drain whatever was queued before shutdown
			for {
				select {
				case snapshot := <-w.jobs:
					w.process(ctx, snapshot)
				default:
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) process(ctx context.Context, snapshot *invoice.DraftSnapshot) {
	format := w.format
	path, err := w.exporter.Save(ctx, snapshot, format)
	if err != nil {
		// Fall back to the guaranteed PDF path before giving up
		if format != FormatPDF {
			w.logger.Warn("Export failed, retrying as PDF",
				zap.String("format", string(format)),
				zap.Error(err))
			format = FormatPDF
			path, err = w.exporter.Save(ctx, snapshot, format)
		}
		if err != nil {
			w.logger.Error("Export failed",
				zap.Int("invoice_number", snapshot.Meta.Number),
				zap.Error(err))
			return
		}
	}

	if w.log != nil {
		record := &Record{
			InvoiceNumber: snapshot.Meta.Number,
			Format:        string(format),
			FilePath:      path,
		}
		if err := w.log.Create(ctx, record); err != nil {
			w.logger.Warn("Failed to record export", zap.Error(err))
		}
	}

	w.logger.Info("Invoice exported",
		zap.Int("invoice_number", snapshot.Meta.Number),
		zap.String("path", path))
}
