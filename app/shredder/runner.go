package shredder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shredsafe/shredsafe/app/reddit"
)

// RunStats summarizes a completed shred pass.
type RunStats struct {
	Deleted int
	Skipped int
	Errored int
}

// Run lists the account's comments and submissions, classifies each item
// against the policy, and applies the decision. Results preserve listing
// order: comments first, then submissions.
//
// Credential failures (auth, forbidden) abort the pass; any other per-item
// failure is logged, counted, and processing continues with the next item.
func Run(ctx context.Context, client reddit.ClientInterface, policy Policy, now time.Time) ([]Result, RunStats, error) {
	var results []Result
	var stats RunStats

	comments, err := client.ListComments(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to list comments: %w", err)
	}

	submissions, err := client.ListSubmissions(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to list submissions: %w", err)
	}

	executor := NewExecutor(client)
	items := append(comments, submissions...)

	for _, item := range items {
		decision := Decide(item, policy, now)

		result, err := executor.Execute(ctx, item, decision)
		if err != nil {
			if reddit.IsAuthError(err) || reddit.IsForbidden(err) {
				return results, stats, err
			}

			slog.Warn("Item shred failed, continuing",
				"item", item.Fullname, "kind", string(item.Kind), "error", err)
			stats.Errored++
			results = append(results, result)
			stats.Skipped++
			continue
		}

		if result.Status == StatusDeleted {
			stats.Deleted++
		} else {
			stats.Skipped++
		}
		results = append(results, result)
	}

	return results, stats, nil
}
