package database

import (
	"time"
)

// Schedule names stored on a reddit account. The zero value "none" disables
// scheduled shredding for the account.
const (
	ScheduleNone    = "none"
	ScheduleDaily   = "daily"
	ScheduleWeekly  = "weekly"
	ScheduleMonthly = "monthly"
)

// ValidSchedule reports whether s is one of the recognized schedule names.
func ValidSchedule(s string) bool {
	switch s {
	case ScheduleNone, ScheduleDaily, ScheduleWeekly, ScheduleMonthly:
		return true
	}
	return false
}

// Account is an authorized reddit account owned by a local user.
type Account struct {
	ID             int
	UserID         int
	RedditUsername string
	RefreshToken   string
	Schedule       string
	AuthorizedAt   time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ExcludedItem protects a single reddit item from deletion.
type ExcludedItem struct {
	ID        int
	UserID    int
	ItemID    string
	CreatedAt time.Time
}

// Shred record statuses.
const (
	StatusDeleted = "DELETED"
	StatusSkipped = "SKIPPED"
)

// ShredRecord is one processed item from a scheduled shred run.
type ShredRecord struct {
	ID             int
	UserID         int
	RedditUsername string
	ItemID         string
	ItemBody       string
	Status         string
	RunAt          time.Time
}

// Profile holds per-user shredding preferences.
type Profile struct {
	UserID        int
	Email         string
	RecordKeeping bool
	KarmaExclude  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
