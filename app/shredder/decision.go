package shredder

import (
	"time"

	"github.com/shredsafe/shredsafe/app/reddit"
)

// Decide classifies a single item as Delete or Skip. Pure function: no
// side effects, never fails.
//
// An item is deleted when all three hold:
//   - it was created strictly before now minus the age threshold,
//   - its score is at or below the ceiling (below, when the policy compares
//     strictly),
//   - it is not on the exclusion list.
//
// DeleteEverything bypasses all three checks.
func Decide(item reddit.Item, policy Policy, now time.Time) Decision {
	if policy.DeleteEverything {
		return Delete
	}

	cutoff := now.UTC().Add(-time.Duration(policy.MaxAgeHours) * time.Hour)
	if !item.CreatedAt.Before(cutoff) {
		return Skip
	}

	if policy.InclusiveScore {
		if item.Score > policy.ScoreCeiling {
			return Skip
		}
	} else {
		if item.Score >= policy.ScoreCeiling {
			return Skip
		}
	}

	if _, excluded := policy.Exclusions[item.Fullname]; excluded {
		return Skip
	}

	return Delete
}
