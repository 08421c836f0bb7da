package database

import (
	"fmt"
)

// ExclusionRepo handles database operations for manually excluded items
type ExclusionRepo struct {
	db *DB
}

var _ ExclusionRepository = (*ExclusionRepo)(nil)

func NewExclusionRepo(db *DB) *ExclusionRepo {
	return &ExclusionRepo{db: db}
}

func (r *ExclusionRepo) Add(userID int, itemID string) error {
	_, err := r.db.Exec(`
		INSERT INTO excluded_items (user_id, item_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, item_id) DO NOTHING
	`, userID, itemID)
	if err != nil {
		return fmt.Errorf("failed to add exclusion: %w", err)
	}
	return nil
}

func (r *ExclusionRepo) Remove(userID int, itemID string) error {
	_, err := r.db.Exec(`
		DELETE FROM excluded_items
		WHERE user_id = $1 AND item_id = $2
	`, userID, itemID)
	if err != nil {
		return fmt.Errorf("failed to remove exclusion: %w", err)
	}
	return nil
}

// ListIDs returns the user's excluded item ids as a set.
func (r *ExclusionRepo) ListIDs(userID int) (map[string]struct{}, error) {
	rows, err := r.db.Query(`
		SELECT item_id FROM excluded_items WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exclusions: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan exclusion row: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exclusion rows: %w", err)
	}

	return ids, nil
}
