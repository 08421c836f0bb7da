package tasks

import (
	"testing"

	"github.com/shredsafe/shredsafe/app/database"
)

func TestScheduleThresholdHours(t *testing.T) {
	tests := []struct {
		schedule  string
		wantHours int
		wantOK    bool
	}{
		{database.ScheduleDaily, 24, true},
		{database.ScheduleWeekly, 168, true},
		{database.ScheduleMonthly, 672, true},
		{database.ScheduleNone, 0, false},
		{"hourly", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		hours, ok := ScheduleThresholdHours(tt.schedule)
		if hours != tt.wantHours || ok != tt.wantOK {
			t.Errorf("ScheduleThresholdHours(%q) = (%d, %v), want (%d, %v)",
				tt.schedule, hours, ok, tt.wantHours, tt.wantOK)
		}
	}
}
