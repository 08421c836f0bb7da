package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shredsafe/shredsafe/app/database"
	"github.com/shredsafe/shredsafe/app/reddit"
	"github.com/shredsafe/shredsafe/app/shredder"
)

// ShredAccountTask runs one account's scheduled shred pass. One task per
// eligible account; outcomes fan in through the run report.
type ShredAccountTask struct {
	Task
	account       database.Account
	app           reddit.AppInterface
	profileRepo   database.ProfileRepository
	exclusionRepo database.ExclusionRepository
	recordRepo    database.RecordRepository
	report        *RunReport
}

func NewShredAccountTask(account database.Account, app reddit.AppInterface,
	profileRepo database.ProfileRepository, exclusionRepo database.ExclusionRepository,
	recordRepo database.RecordRepository, report *RunReport) *ShredAccountTask {
	task := NewTask(TaskTypeShredAccount, account.RedditUsername)
	// Each account reports exactly one outcome per run, so the task must
	// not be re-enqueued by the retry machinery.
	task.MaxRetries = 0

	return &ShredAccountTask{
		Task:          task,
		account:       account,
		app:           app,
		profileRepo:   profileRepo,
		exclusionRepo: exclusionRepo,
		recordRepo:    recordRepo,
		report:        report,
	}
}

func (t *ShredAccountTask) Execute(ctx context.Context) error {
	err := t.run(ctx)

	if t.report != nil && err != nil {
		t.report.Record(AccountOutcome{
			AccountID: t.account.ID,
			Username:  t.account.RedditUsername,
			Err:       err,
		})
	}

	return err
}

func (t *ShredAccountTask) run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	thresholdHours, ok := ScheduleThresholdHours(t.account.Schedule)
	if !ok {
		slog.Debug("Account has no active schedule, skipping", "account", t.account.RedditUsername)
		if t.report != nil {
			t.report.Record(AccountOutcome{AccountID: t.account.ID, Username: t.account.RedditUsername})
		}
		return nil
	}

	profile, err := t.profileRepo.GetOrCreate(t.account.UserID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	exclusions, err := t.exclusionRepo.ListIDs(t.account.UserID)
	if err != nil {
		return fmt.Errorf("failed to load exclusions: %w", err)
	}

	policy := shredder.Policy{
		MaxAgeHours:  thresholdHours,
		ScoreCeiling: profile.KarmaExclude,
		// The karma_exclude preference is the score at which items start
		// being kept, so the scheduled comparison is strict.
		InclusiveScore: false,
		Exclusions:     exclusions,
	}

	client := t.app.NewUserClient(t.account.RefreshToken)
	now := time.Now().UTC()

	results, stats, runErr := shredder.Run(ctx, client, policy, now)

	if profile.RecordKeeping {
		for _, result := range results {
			record := database.ShredRecord{
				UserID:         t.account.UserID,
				RedditUsername: t.account.RedditUsername,
				ItemID:         result.ItemID,
				ItemBody:       result.Body,
				Status:         result.Status,
				RunAt:          now,
			}
			if err := t.recordRepo.Insert(record); err != nil {
				slog.Error("Failed to insert shred record",
					"account", t.account.RedditUsername, "item", result.ItemID, "error", err)
			}
		}
	}

	if runErr != nil {
		return fmt.Errorf("shred pass failed for %s: %w", t.account.RedditUsername, runErr)
	}

	slog.Info("Task completed",
		"type", "ShredAccount",
		"account", t.account.RedditUsername,
		"duration", t.GetDuration(),
		"deleted", stats.Deleted,
		"skipped", stats.Skipped,
		"errored", stats.Errored)

	if t.report != nil {
		t.report.Record(AccountOutcome{
			AccountID: t.account.ID,
			Username:  t.account.RedditUsername,
			Deleted:   stats.Deleted,
			Skipped:   stats.Skipped,
			Errored:   stats.Errored,
		})
	}

	return nil
}
