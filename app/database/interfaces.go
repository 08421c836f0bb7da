package database

import (
	"time"
)

type AccountRepository interface {
	UpsertAccount(userID int, redditUsername, refreshToken string) (*Account, error)
	GetAccount(id int) (*Account, error)
	GetAccountByUsername(redditUsername string) (*Account, error)
	GetAccountsByUser(userID int) ([]Account, error)
	GetAllAccounts() ([]Account, error)
	GetScheduledAccounts() ([]Account, error)
	UpdateSchedule(id int, schedule string) error
	DeleteAccount(id int) error
}

type ExclusionRepository interface {
	Add(userID int, itemID string) error
	Remove(userID int, itemID string) error
	ListIDs(userID int) (map[string]struct{}, error)
}

type RecordRepository interface {
	Insert(record ShredRecord) error
	ListByUser(userID int) ([]ShredRecord, error)
	PurgeOlderThan(cutoff time.Time) (int64, error)
}

type ProfileRepository interface {
	GetOrCreate(userID int) (*Profile, error)
	UpdatePreferences(userID int, recordKeeping bool, karmaExclude int) error
}
