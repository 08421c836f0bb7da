package database

import (
	"fmt"
)

// ProfileRepo handles database operations for user preference profiles
type ProfileRepo struct {
	db *DB
}

var _ ProfileRepository = (*ProfileRepo)(nil)

func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// GetOrCreate returns the user's profile, creating a default one on first
// reference. Mirrors profile auto-creation on identity creation.
func (r *ProfileRepo) GetOrCreate(userID int) (*Profile, error) {
	var profile Profile
	err := r.db.QueryRow(`
		INSERT INTO profiles (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, email, record_keeping, karma_exclude, created_at, updated_at
	`, userID).Scan(
		&profile.UserID, &profile.Email, &profile.RecordKeeping,
		&profile.KarmaExclude, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create profile: %w", err)
	}

	return &profile, nil
}

func (r *ProfileRepo) UpdatePreferences(userID int, recordKeeping bool, karmaExclude int) error {
	_, err := r.db.Exec(`
		INSERT INTO profiles (user_id, record_keeping, karma_exclude)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			record_keeping = EXCLUDED.record_keeping,
			karma_exclude = EXCLUDED.karma_exclude,
			updated_at = NOW()
	`, userID, recordKeeping, karmaExclude)
	if err != nil {
		return fmt.Errorf("failed to update profile preferences: %w", err)
	}
	return nil
}
