package tasks

import (
	"github.com/shredsafe/shredsafe/app/database"
)

// ScheduleThresholdHours maps a schedule name to its age threshold.
// Accounts scheduled daily only shred items older than a day, and so on.
// Returns 0, false for "none" or an unknown schedule.
func ScheduleThresholdHours(schedule string) (int, bool) {
	switch schedule {
	case database.ScheduleDaily:
		return 24, true
	case database.ScheduleWeekly:
		return 168, true
	case database.ScheduleMonthly:
		return 672, true
	}
	return 0, false
}
