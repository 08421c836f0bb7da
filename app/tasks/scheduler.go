package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shredsafe/shredsafe/app/cfg"
	"github.com/shredsafe/shredsafe/app/database"
	"github.com/shredsafe/shredsafe/app/reddit"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const purgeInterval = 24 * time.Hour

type Scheduler struct {
	accountRepo    database.AccountRepository
	profileRepo    database.ProfileRepository
	exclusionRepo  database.ExclusionRepository
	recordRepo     database.RecordRepository
	app            reddit.AppInterface
	interval       time.Duration
	retentionHours int
	workerCount    int
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	taskQueue      chan TaskInterface
	lastPurge      time.Time
}

func NewScheduler(accountRepo database.AccountRepository, profileRepo database.ProfileRepository,
	exclusionRepo database.ExclusionRepository, recordRepo database.RecordRepository,
	app reddit.AppInterface) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	c := cfg.Get()

	return &Scheduler{
		accountRepo:    accountRepo,
		profileRepo:    profileRepo,
		exclusionRepo:  exclusionRepo,
		recordRepo:     recordRepo,
		app:            app,
		interval:       time.Duration(c.ShredInterval) * time.Second,
		retentionHours: c.RecordRetention,
		workerCount:    c.WorkerCount,
		ctx:            ctx,
		cancel:         cancel,
		taskQueue:      make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runScheduledShred()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// runScheduledShred performs one orchestration pass: prune revoked
// credentials, fan one shred task per scheduled account out to the worker
// pool, wait for every account to report, and log the aggregated run
// report. Purging of old shred records rides along on a daily cadence.
func (s *Scheduler) runScheduledShred() {
	pruneCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	// Revoked tokens are pruned before any shred work so dead accounts
	// never get a task.
	pruneTask := NewPruneCredentialsTask(s.accountRepo, s.app)
	pruneTask.Start()
	if err := pruneTask.Execute(pruneCtx); err != nil {
		slog.Error("Credential pruning failed", "error", err)
	}

	accounts, err := s.accountRepo.GetScheduledAccounts()
	if err != nil {
		slog.Error("Failed to load scheduled accounts", "error", err)
		return
	}

	if len(accounts) > 0 {
		report := NewRunReport(len(accounts))

		enqueued := 0
		for _, account := range accounts {
			task := NewShredAccountTask(account, s.app, s.profileRepo, s.exclusionRepo, s.recordRepo, report)
			if err := s.EnqueueTask(task); err != nil {
				slog.Warn("Failed to enqueue ShredAccountTask", "account", account.RedditUsername, "error", err)
				report.Record(AccountOutcome{AccountID: account.ID, Username: account.RedditUsername, Err: err})
				continue
			}
			enqueued++
		}

		slog.Debug("Scheduled shred fan-out", "accounts", len(accounts), "enqueued", enqueued)

		outcomes := report.Wait(s.ctx)
		deleted, skipped, errored, failed := report.Totals()
		slog.Info("Scheduled shred run completed",
			"accounts", len(outcomes),
			"deleted", deleted,
			"skipped", skipped,
			"item_errors", errored,
			"failed_accounts", failed,
			"duration", time.Since(report.StartedAt).String())
	}

	if time.Since(s.lastPurge) >= purgeInterval {
		purgeTask := NewPurgeRecordsTask(s.recordRepo, s.retentionHours)
		if err := s.EnqueueTask(purgeTask); err != nil {
			slog.Warn("Failed to enqueue PurgeRecordsTask", "error", err)
		} else {
			s.lastPurge = time.Now()
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "label", task.GetLabel(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
