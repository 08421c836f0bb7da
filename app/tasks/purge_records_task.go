package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shredsafe/shredsafe/app/database"
)

// PurgeRecordsTask deletes shred records older than the retention window.
// Purging is idempotent; a second run with no new records deletes nothing.
type PurgeRecordsTask struct {
	Task
	recordRepo     database.RecordRepository
	retentionHours int
}

func NewPurgeRecordsTask(recordRepo database.RecordRepository, retentionHours int) *PurgeRecordsTask {
	return &PurgeRecordsTask{
		Task:           NewTask(TaskTypePurgeRecords, "all"),
		recordRepo:     recordRepo,
		retentionHours: retentionHours,
	}
}

func (t *PurgeRecordsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cutoff := time.Now().UTC().Add(-time.Duration(t.retentionHours) * time.Hour)

	deleted, err := t.recordRepo.PurgeOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge shred records: %w", err)
	}

	slog.Info("Task completed",
		"type", "PurgeRecords",
		"duration", t.GetDuration(),
		"cutoff", cutoff,
		"deleted", deleted)

	return nil
}
