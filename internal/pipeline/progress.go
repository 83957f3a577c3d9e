package pipeline

import (
	"context"
	"time"

	"github.com/akolanti/IngestAPI/internal/domain/docModel"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

// Reporter receives stage transitions and percentages. Implementations must
// never fail the pipeline: a reporting error is logged and swallowed.
type Reporter interface {
	Report(ctx context.Context, documentId string, stage docModel.Stage, percent int, details string)
}

// Each stage owns a fixed percent band; sub-progress interpolates linearly
// inside the band by item count. Percent is stage-weighted, never
// time-based, so it is monotonic by construction.
var stageBands = map[docModel.Stage][2]int{
	docModel.StageDownloading: {0, 5},
	docModel.StageDetecting:   {5, 10},
	docModel.StageParsing:     {10, 30},
	docModel.StageChunking:    {30, 40},
	docModel.StageVision:      {40, 70},
	docModel.StageEmbedding:   {70, 90},
	docModel.StageStoring:     {90, 100},
	docModel.StageDone:        {100, 100},
}

// StagePercent maps (stage, itemsDone/itemsTotal) to an absolute percent.
// itemsTotal <= 0 means the stage has no item granularity and reports its
// band floor.
func StagePercent(stage docModel.Stage, itemsDone int, itemsTotal int) int {
	band, ok := stageBands[stage]
	if !ok {
		return 0
	}
	lo, hi := band[0], band[1]
	if itemsTotal <= 0 {
		return lo
	}
	if itemsDone > itemsTotal {
		itemsDone = itemsTotal
	}
	return lo + (hi-lo)*itemsDone/itemsTotal
}

// progressTracker wraps a Reporter with per-run monotonicity: within one
// run a later report can never lower the observed percent.
type progressTracker struct {
	reporter    Reporter
	documentId  string
	lastPercent int
}

func newProgressTracker(reporter Reporter, documentId string) *progressTracker {
	return &progressTracker{reporter: reporter, documentId: documentId}
}

func (t *progressTracker) report(ctx context.Context, stage docModel.Stage, itemsDone int, itemsTotal int, details string) {
	percent := StagePercent(stage, itemsDone, itemsTotal)
	if percent < t.lastPercent {
		percent = t.lastPercent
	}
	t.lastPercent = percent
	t.reporter.Report(ctx, t.documentId, stage, percent, details)
}

// storeReporter persists progress into the document status store. Each
// write is its own commit so an external watcher always sees either the
// previous or the new row, never a torn one.
type storeReporter struct {
	docs   docModel.DocumentStore
	logger *logger_i.Logger
}

// NewStoreReporter builds the default Reporter backed by the document
// status store.
func NewStoreReporter(docs docModel.DocumentStore) Reporter {
	return &storeReporter{
		docs:   docs,
		logger: logger_i.NewLogger("ProgressReporter"),
	}
}

func (r *storeReporter) Report(ctx context.Context, documentId string, stage docModel.Stage, percent int, details string) {
	doc, found := r.docs.GetDocument(ctx, documentId)
	if !found {
		r.logger.Warn("progress report for unknown document", "documentId", documentId)
		return
	}

	doc.ProcessingStage = stage
	doc.ProgressPercent = percent
	doc.StageDetails = details
	doc.UpdatedAt = time.Now()

	if err := r.docs.SaveDocument(ctx, doc); err != nil {
		//reporting must never block or fail the run
		r.logger.Error("failed to persist progress", "documentId", documentId, "stage", stage, "error", err)
	}
}
