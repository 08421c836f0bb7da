package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shredsafe/shredsafe/app/database"
	"github.com/shredsafe/shredsafe/app/reddit"
)

// PruneCredentialsTask validates every stored refresh token with a
// lightweight identity call and deletes the rows whose tokens have been
// revoked. Transient Reddit failures leave the row alone.
type PruneCredentialsTask struct {
	Task
	accountRepo database.AccountRepository
	app         reddit.AppInterface
}

func NewPruneCredentialsTask(accountRepo database.AccountRepository, app reddit.AppInterface) *PruneCredentialsTask {
	return &PruneCredentialsTask{
		Task:        NewTask(TaskTypePruneCredentials, "all"),
		accountRepo: accountRepo,
		app:         app,
	}
}

func (t *PruneCredentialsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	accounts, err := t.accountRepo.GetAllAccounts()
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	pruned := 0
	for _, account := range accounts {
		client := t.app.NewUserClient(account.RefreshToken)

		if _, err := client.Me(ctx); err != nil {
			if reddit.IsAuthError(err) || reddit.IsForbidden(err) {
				if delErr := t.accountRepo.DeleteAccount(account.ID); delErr != nil {
					slog.Error("Failed to delete revoked account",
						"account", account.RedditUsername, "error", delErr)
					continue
				}
				slog.Info("Pruned revoked credential", "account", account.RedditUsername)
				pruned++
				continue
			}

			slog.Warn("Credential check failed with non-auth error, keeping",
				"account", account.RedditUsername, "error", err)
		}
	}

	slog.Info("Task completed",
		"type", "PruneCredentials",
		"duration", t.GetDuration(),
		"checked", len(accounts),
		"pruned", pruned)

	return nil
}
