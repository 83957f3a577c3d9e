package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/IngestAPI/internal/config"
	"github.com/akolanti/IngestAPI/internal/domain/commonModels"
	"github.com/akolanti/IngestAPI/internal/domain/docModel"
	"github.com/akolanti/IngestAPI/internal/domain/jobModel"
	"github.com/akolanti/IngestAPI/internal/pipeline/chunk"
	"github.com/akolanti/IngestAPI/internal/pipeline/detect"
	"github.com/akolanti/IngestAPI/internal/pipeline/parse"
	"github.com/akolanti/IngestAPI/internal/pipeline/vectorDB"
	"github.com/akolanti/IngestAPI/pkg/logger_i"
)

// run drives one document through the stage sequence. It returns the chunk
// count on success; any error is already wrapped with the stage it happened
// in. The document row is updated as stages advance, the job record is the
// caller's to update.
func (s *service) run(ctx context.Context, job jobModel.IngestionJob) (int, error) {
	log := s.logger.With("traceId", job.TraceId, "jobId", job.Id, "documentId", job.DocumentId)
	tracker := newProgressTracker(s.reporter, job.DocumentId)

	doc, found := s.docs.GetDocument(ctx, job.DocumentId)
	if !found {
		return 0, fmt.Errorf("document %s not found", job.DocumentId)
	}
	doc.Status = docModel.DocStatusProcessing
	doc.ErrorMessage = ""
	doc.UpdatedAt = time.Now()
	if err := s.docs.SaveDocument(ctx, doc); err != nil {
		return 0, fmt.Errorf("marking document processing: %w", err)
	}

	// downloading
	tracker.report(ctx, docModel.StageDownloading, 0, 0, "downloading source file")
	data, err := s.fetcher.Fetch(ctx, doc.FileURL)
	if err != nil {
		return 0, stageFailure(docModel.StageDownloading, &FetchError{URL: doc.FileURL, Err: err})
	}
	log.Debug("fetched source", "bytes", len(data))

	// detecting
	tracker.report(ctx, docModel.StageDetecting, 0, 0, "detecting file format")
	fileType, mime := detect.FileType(data, doc.FileName)
	if fileType == commonModels.Unknown {
		return 0, stageFailure(docModel.StageDetecting, &UnsupportedFormatError{Detected: mime})
	}
	doc.FileType = string(fileType)
	doc.UpdatedAt = time.Now()
	if err := s.docs.SaveDocument(ctx, doc); err != nil {
		log.Warn("failed to persist detected file type", "error", err)
	}

	// parsing
	tracker.report(ctx, docModel.StageParsing, 0, 0, "parsing "+string(fileType))
	parser, ok := parse.ForType(fileType)
	if !ok {
		return 0, stageFailure(docModel.StageParsing, &UnsupportedFormatError{Detected: mime})
	}
	blocks, err := parser.Parse(data, doc.FileName)
	if err != nil {
		return 0, stageFailure(docModel.StageParsing, &ParseError{FileType: string(fileType), Err: err})
	}

	// chunking
	tracker.report(ctx, docModel.StageChunking, 0, 0, "chunking content")
	chunks := chunk.ByTitle(log, blocks)
	if len(chunks) == 0 {
		return 0, stageFailure(docModel.StageChunking, ErrNoChunks)
	}
	log.Debug("chunked document", "blocks", len(blocks), "chunks", len(chunks))

	// vision
	if err := s.summarizeChunks(ctx, log, tracker, chunks); err != nil {
		return 0, stageFailure(docModel.StageVision, err)
	}

	// embedding
	if err := s.embedChunks(ctx, log, tracker, chunks); err != nil {
		return 0, stageFailure(docModel.StageEmbedding, err)
	}

	// storing
	namespace := vectorDB.ResolveNamespace(job.UserId, job.TopicId)
	tracker.report(ctx, docModel.StageStoring, 0, 0, "writing vectors")
	err = retryWithBackoff(ctx, log, config.MaxRetryAttempts, config.RetryBaseDelay, func() error {
		if err := s.vectorDB.EnsureNamespace(ctx, namespace); err != nil {
			return err
		}
		return s.vectorDB.UpsertBatch(ctx, namespace, job.DocumentId, chunks)
	})
	if err != nil {
		return 0, stageFailure(docModel.StageStoring, &StoreError{Namespace: namespace, Err: err})
	}

	// done
	tracker.report(ctx, docModel.StageDone, 0, 0, "")
	doc, found = s.docs.GetDocument(ctx, job.DocumentId)
	if found {
		doc.Status = docModel.DocStatusDone
		doc.ChunkCount = len(chunks)
		doc.ProgressPercent = 100
		doc.ProcessingStage = docModel.StageDone
		doc.UpdatedAt = time.Now()
		if err := s.docs.SaveDocument(ctx, doc); err != nil {
			log.Error("failed to persist final document state", "error", err)
		}
	}

	log.Info("document ingested", "chunks", len(chunks), "namespace", namespace)
	return len(chunks), nil
}

// summarizeChunks runs the vision model over table and image chunks,
// replacing (or enriching) their text in place. A chunk whose summary fails
// gets a placeholder so retrieval still surfaces its location; the stage
// only fails when no item could be summarized at all.
func (s *service) summarizeChunks(ctx context.Context, log *logger_i.Logger, tracker *progressTracker, chunks []commonModels.Chunk) error {
	var items []int
	for i, c := range chunks {
		if c.SourceType == commonModels.ChunkTable || c.SourceType == commonModels.ChunkImageSummary {
			items = append(items, i)
		}
	}
	if len(items) == 0 {
		tracker.report(ctx, docModel.StageVision, 0, 0, "no visual content")
		return nil
	}

	failures := 0
	var lastErr error
	for done, i := range items {
		tracker.report(ctx, docModel.StageVision, done, len(items), fmt.Sprintf("summarizing visual content %d/%d", done+1, len(items)))

		surrounding := surroundingText(chunks, i)
		var summary string
		var err error
		switch chunks[i].SourceType {
		case commonModels.ChunkImageSummary:
			summary, err = s.summarizer.SummarizeImage(ctx, chunks[i], surrounding)
		case commonModels.ChunkTable:
			summary, err = s.summarizer.SummarizeTable(ctx, chunks[i], surrounding)
		}

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures++
			lastErr = &SummarizeError{Item: i, Err: err}
			log.Warn("summary failed, using placeholder", "chunk", i, "error", err)
			if chunks[i].SourceType == commonModels.ChunkImageSummary {
				chunks[i].Text = fmt.Sprintf("[Image on page %d]", chunks[i].Page)
			}
			continue
		}

		switch chunks[i].SourceType {
		case commonModels.ChunkImageSummary:
			chunks[i].Text = summary
		case commonModels.ChunkTable:
			chunks[i].Text = chunks[i].Text + "\n\nSummary: " + summary
		}
	}
	tracker.report(ctx, docModel.StageVision, len(items), len(items), "summarizing visual content")

	if failures == len(items) {
		return fmt.Errorf("all %d visual items failed: %w", len(items), lastErr)
	}
	return nil
}

// surroundingText gathers text from the nearest preceding text chunks to
// give the vision model document context, capped at VisionContextChars.
func surroundingText(chunks []commonModels.Chunk, idx int) string {
	var parts []string
	total := 0
	for i := idx - 1; i >= 0 && len(parts) < 3; i-- {
		if chunks[i].SourceType != commonModels.ChunkText {
			continue
		}
		parts = append([]string{chunks[i].Text}, parts...)
		total += len(chunks[i].Text)
		if total >= config.VisionContextChars {
			break
		}
	}
	joined := strings.Join(parts, "\n")
	if len(joined) > config.VisionContextChars {
		joined = joined[len(joined)-config.VisionContextChars:]
	}
	return joined
}

// embedChunks embeds chunks one request batch at a time, advancing the
// percent band as each batch lands. The section title is prefixed so
// headings weigh into similarity.
func (s *service) embedChunks(ctx context.Context, log *logger_i.Logger, tracker *progressTracker, chunks []commonModels.Chunk) error {
	tracker.report(ctx, docModel.StageEmbedding, 0, len(chunks), "embedding chunks")

	for start := 0; start < len(chunks); start += config.EmbeddingBatchSize {
		end := min(start+config.EmbeddingBatchSize, len(chunks))
		batch := start / config.EmbeddingBatchSize

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, embeddingText(c))
		}

		var vectors [][]float32
		err := retryWithBackoff(ctx, log, config.MaxRetryAttempts, config.RetryBaseDelay, func() error {
			var embedErr error
			vectors, embedErr = s.embedder.BatchEmbedding(ctx, texts)
			return embedErr
		})
		if err != nil {
			return &EmbedError{Batch: batch, Err: err}
		}
		if len(vectors) != len(texts) {
			return &EmbedError{Batch: batch, Err: errors.New("vector count does not match chunk count")}
		}

		for i := range vectors {
			chunks[start+i].Embedding = vectors[i]
		}
		tracker.report(ctx, docModel.StageEmbedding, end, len(chunks), fmt.Sprintf("embedded %d/%d chunks", end, len(chunks)))
	}
	return nil
}

func embeddingText(c commonModels.Chunk) string {
	if c.SectionTitle != "" {
		return "Section: " + c.SectionTitle + "\n" + c.Text
	}
	return c.Text
}
