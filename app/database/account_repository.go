package database

import (
	"database/sql"
	"fmt"
)

// AccountRepo handles database operations for reddit accounts
type AccountRepo struct {
	db *DB
}

var _ AccountRepository = (*AccountRepo)(nil)

func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

const accountColumns = `id, user_id, reddit_username, refresh_token, schedule, authorized_at, created_at, updated_at`

// UpsertAccount stores a freshly authorized account. Re-authorizing an
// already known reddit username replaces the stored row, including its
// owner. See DESIGN.md on the global uniqueness of reddit_username.
func (r *AccountRepo) UpsertAccount(userID int, redditUsername, refreshToken string) (*Account, error) {
	var account Account
	err := r.db.QueryRow(`
		INSERT INTO reddit_accounts (user_id, reddit_username, refresh_token, authorized_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (reddit_username) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			refresh_token = EXCLUDED.refresh_token,
			authorized_at = NOW(),
			schedule = 'none',
			updated_at = NOW()
		RETURNING `+accountColumns+`
	`, userID, redditUsername, refreshToken).Scan(
		&account.ID, &account.UserID, &account.RedditUsername, &account.RefreshToken,
		&account.Schedule, &account.AuthorizedAt, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert account: %w", err)
	}

	return &account, nil
}

func (r *AccountRepo) GetAccount(id int) (*Account, error) {
	var account Account
	err := r.db.QueryRow(`
		SELECT `+accountColumns+`
		FROM reddit_accounts
		WHERE id = $1
	`, id).Scan(
		&account.ID, &account.UserID, &account.RedditUsername, &account.RefreshToken,
		&account.Schedule, &account.AuthorizedAt, &account.CreatedAt, &account.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

func (r *AccountRepo) GetAccountByUsername(redditUsername string) (*Account, error) {
	var account Account
	err := r.db.QueryRow(`
		SELECT `+accountColumns+`
		FROM reddit_accounts
		WHERE reddit_username = $1
	`, redditUsername).Scan(
		&account.ID, &account.UserID, &account.RedditUsername, &account.RefreshToken,
		&account.Schedule, &account.AuthorizedAt, &account.CreatedAt, &account.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by username: %w", err)
	}

	return &account, nil
}

func (r *AccountRepo) GetAccountsByUser(userID int) ([]Account, error) {
	rows, err := r.db.Query(`
		SELECT `+accountColumns+`
		FROM reddit_accounts
		WHERE user_id = $1
		ORDER BY reddit_username
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts by user: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func (r *AccountRepo) GetAllAccounts() ([]Account, error) {
	rows, err := r.db.Query(`
		SELECT ` + accountColumns + `
		FROM reddit_accounts
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// GetScheduledAccounts returns accounts with any schedule other than "none".
func (r *AccountRepo) GetScheduledAccounts() ([]Account, error) {
	rows, err := r.db.Query(`
		SELECT ` + accountColumns + `
		FROM reddit_accounts
		WHERE schedule <> 'none'
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func (r *AccountRepo) UpdateSchedule(id int, schedule string) error {
	result, err := r.db.Exec(`
		UPDATE reddit_accounts
		SET schedule = $2, updated_at = NOW()
		WHERE id = $1
	`, id, schedule)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check schedule update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account %d not found", id)
	}

	return nil
}

func (r *AccountRepo) DeleteAccount(id int) error {
	_, err := r.db.Exec(`DELETE FROM reddit_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func scanAccounts(rows *sql.Rows) ([]Account, error) {
	var accounts []Account
	for rows.Next() {
		var account Account
		err := rows.Scan(
			&account.ID, &account.UserID, &account.RedditUsername, &account.RefreshToken,
			&account.Schedule, &account.AuthorizedAt, &account.CreatedAt, &account.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	return accounts, nil
}
