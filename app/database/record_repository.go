package database

import (
	"fmt"
	"time"
)

// RecordRepo handles database operations for shred records
type RecordRepo struct {
	db *DB
}

var _ RecordRepository = (*RecordRepo)(nil)

func NewRecordRepo(db *DB) *RecordRepo {
	return &RecordRepo{db: db}
}

func (r *RecordRepo) Insert(record ShredRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO shred_records (user_id, reddit_username, item_id, item_body, status, run_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.UserID, record.RedditUsername, record.ItemID, record.ItemBody,
		record.Status, record.RunAt)
	if err != nil {
		return fmt.Errorf("failed to insert shred record: %w", err)
	}
	return nil
}

func (r *RecordRepo) ListByUser(userID int) ([]ShredRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, reddit_username, item_id, item_body, status, run_at
		FROM shred_records
		WHERE user_id = $1
		ORDER BY run_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shred records: %w", err)
	}
	defer rows.Close()

	var records []ShredRecord
	for rows.Next() {
		var record ShredRecord
		err := rows.Scan(
			&record.ID, &record.UserID, &record.RedditUsername, &record.ItemID,
			&record.ItemBody, &record.Status, &record.RunAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shred record row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shred record rows: %w", err)
	}

	return records, nil
}

// PurgeOlderThan deletes records with run_at before cutoff and returns the
// number of deleted rows. Running it twice with no new records in between
// deletes nothing the second time.
func (r *RecordRepo) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`
		DELETE FROM shred_records WHERE run_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge shred records: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged shred records: %w", err)
	}

	return deleted, nil
}
