package shredder

import (
	"github.com/shredsafe/shredsafe/app/reddit"
)

// Decision is the outcome of evaluating one item against a policy.
type Decision int

const (
	Skip Decision = iota
	Delete
)

func (d Decision) String() string {
	if d == Delete {
		return "DELETE"
	}
	return "SKIP"
}

// Result statuses, as reported to the user and stored in shred records.
const (
	StatusDeleted = "DELETED"
	StatusSkipped = "SKIPPED"
)

// Policy holds the thresholds for one shred pass.
//
// The manual path compares score inclusively (score <= ceiling deletes);
// the scheduled path compares strictly (score < ceiling deletes), matching
// the per-user karma_exclude preference semantics.
type Policy struct {
	MaxAgeHours      int
	ScoreCeiling     int
	InclusiveScore   bool
	DeleteEverything bool
	Exclusions       map[string]struct{}
}

// Result is one processed item in the order it was encountered.
type Result struct {
	ItemID string          `json:"cid"`
	Body   string          `json:"body"`
	Kind   reddit.ItemKind `json:"kind"`
	Status string          `json:"status"`
}
