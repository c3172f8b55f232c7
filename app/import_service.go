package app

import (
	"context"
	"io"

	"fleetops/adapters/excel"
	"fleetops/domain/firstmile"
	"fleetops/internal"
	"fleetops/internal/errors"
	"fleetops/internal/importer"
)

// ParseResult is the reviewable outcome of parsing one file
type ParseResult struct {
	Batch       *firstmile.ImportBatch `json:"batch"`
	Summary     importer.Summary       `json:"summary"`
	BoundFields []firstmile.Field      `json:"bound_fields"`
}

// ImportService runs the first-mile spreadsheet import: parse and
// normalize a file, then commit the reviewed batch.
type ImportService struct {
	reader     *excel.DataReader
	normalizer *importer.Normalizer
	committer  *BatchCommitter
	logger     *internal.Logger
}

// NewImportService wires the reader, normalizer and committer together
func NewImportService(reader *excel.DataReader, normalizer *importer.Normalizer, committer *BatchCommitter, logger *internal.Logger) *ImportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ImportService{
		reader:     reader,
		normalizer: normalizer,
		committer:  committer,
		logger:     logger,
	}
}

// Parse reads and normalizes a spreadsheet completely before returning.
// A file that is not a spreadsheet yields a PARSE_FAILED error and no batch.
func (s *ImportService) Parse(ctx context.Context, filename string, src io.Reader) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet, err := s.reader.Read(filename, src)
	if err != nil {
		return nil, err
	}
	return s.normalize(sheet), nil
}

// ParseFile is Parse for a file on disk
func (s *ImportService) ParseFile(ctx context.Context, path string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet, err := s.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.normalize(sheet), nil
}

func (s *ImportService) normalize(sheet *excel.SheetData) *ParseResult {
	index, tasks, summary := s.normalizer.Normalize(sheet.Header(), sheet.DataRows())

	s.logger.Info("[ImportService] Parsed %s: %d rows (%d valid, %d invalid, %d date fallbacks)",
		sheet.Filename, summary.Total, summary.Valid, summary.Invalid, summary.DateFallbacks)
	if summary.DateFallbacks > 0 {
		s.logger.Warn("[ImportService] %s: %d rows had unreadable dates and were given today's date",
			sheet.Filename, summary.DateFallbacks)
	}

	return &ParseResult{
		Batch: &firstmile.ImportBatch{
			Filename: sheet.Filename,
			Header:   index,
			Tasks:    tasks,
		},
		Summary:     summary,
		BoundFields: index.Bound(),
	}
}

// Commit persists the valid rows of batch
func (s *ImportService) Commit(ctx context.Context, batch *firstmile.ImportBatch, progress ProgressFunc) (*CommitResult, error) {
	if s.committer == nil {
		return nil, errors.InternalError("no task store is configured for committing imports")
	}
	return s.committer.Commit(ctx, batch.Tasks, progress)
}
