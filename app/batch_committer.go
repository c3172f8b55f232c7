package app

import (
	"context"
	"fmt"
	"time"

	"fleetops/domain/core"
	"fleetops/domain/firstmile"
	"fleetops/internal"
	"fleetops/internal/errors"
	"fleetops/internal/importer"
	"fleetops/ports"
)

const (
	// DefaultChunkSize matches the store's per-transaction write ceiling
	DefaultChunkSize = 500

	// ParsedProgress is reported once parsing is done and before any chunk
	// is written; chunk commits fill the remaining range up to 100.
	ParsedProgress = 10.0
)

// ProgressFunc receives a completion percentage in [0, 100]
type ProgressFunc func(percent float64)

// CommitResult describes how far a commit got. It is returned on failure
// too, in which case it counts only the chunks that were persisted.
type CommitResult struct {
	BatchID         core.BatchID `json:"batch_id"`
	ChunksTotal     int          `json:"chunks_total"`
	ChunksCommitted int          `json:"chunks_committed"`
	TasksCommitted  int          `json:"tasks_committed"`
	InvalidSkipped  int          `json:"invalid_skipped"`
}

// BatchCommitter writes the valid rows of an import batch chunk by chunk
type BatchCommitter struct {
	repo      ports.TaskRepository
	chunkSize int
	now       func() time.Time
	logger    *internal.Logger
}

// NewBatchCommitter creates a committer. chunkSize <= 0 means DefaultChunkSize.
func NewBatchCommitter(repo ports.TaskRepository, chunkSize int, logger *internal.Logger) *BatchCommitter {
	if chunkSize <= 0 || chunkSize > DefaultChunkSize {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &BatchCommitter{
		repo:      repo,
		chunkSize: chunkSize,
		now:       time.Now,
		logger:    logger,
	}
}

// Commit partitions the batch and writes each chunk's valid rows as one
// atomic write, strictly one chunk after another. The first failing chunk
// aborts the run: earlier chunks stay persisted and nothing is retried.
// Once started, a commit is not cancelled by ctx.
func (c *BatchCommitter) Commit(ctx context.Context, tasks []firstmile.NormalizedTask, progress ProgressFunc) (*CommitResult, error) {
	if progress == nil {
		progress = func(float64) {}
	}
	ctx = context.WithoutCancel(ctx)

	chunks := importer.Partition(tasks, c.chunkSize)
	result := &CommitResult{
		BatchID:     core.NewBatchID(),
		ChunksTotal: len(chunks),
	}

	log := c.logger.With("batch_id", result.BatchID.String())

	progress(ParsedProgress)
	log.Info("[BatchCommitter] Committing %d rows in %d chunks", len(tasks), len(chunks))

	for i, chunk := range chunks {
		createdAt := c.now()
		records := make([]firstmile.Task, 0, len(chunk))
		for _, task := range chunk {
			if !task.Valid {
				result.InvalidSkipped++
				continue
			}
			records = append(records, firstmile.NewPendingTask(result.BatchID, task, createdAt))
		}

		if len(records) > 0 {
			if err := c.repo.CreateBatch(ctx, records); err != nil {
				log.Error("[BatchCommitter] Chunk %d/%d failed after %d tasks were saved: %v",
					i+1, len(chunks), result.TasksCommitted, err)
				return result, errors.CommitFailed(
					fmt.Sprintf("chunk %d of %d failed; %d tasks from earlier chunks were saved",
						i+1, len(chunks), result.TasksCommitted), err)
			}
		}

		result.ChunksCommitted++
		result.TasksCommitted += len(records)
		progress(CommitProgress(result.ChunksCommitted, result.ChunksTotal))
		log.Debug("[BatchCommitter] Chunk %d/%d committed (%d tasks)", i+1, len(chunks), len(records))
	}

	if len(chunks) == 0 {
		progress(100)
	}

	log.Info("[BatchCommitter] Committed %d tasks, %d invalid rows skipped",
		result.TasksCommitted, result.InvalidSkipped)
	return result, nil
}

// CommitProgress is the percentage reached once committed of total chunks are done
func CommitProgress(committed, total int) float64 {
	if total == 0 {
		return 100
	}
	return ParsedProgress + (100-ParsedProgress)*float64(committed)/float64(total)
}
