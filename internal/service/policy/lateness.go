package policy

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

const DefaultExpectedStart = "08:30"

// Check-in clock bands for days deducted once the monthly allowance is gone.
// The band depends on when the employee arrived, not on how far the
// lateness exceeded the allowance.
var deductionBands = []struct {
	until int // inclusive, minutes since midnight
	days  float64
}{
	{until: 9*60 + 15, days: 0},
	{until: 11 * 60, days: 0.25},
	{until: 16 * 60, days: 0.5},
	{until: minutesPerDay, days: 1},
}

type LatenessLedger struct {
	ExpectedStart int // minutes since midnight
}

func NewLatenessLedger(expectedStart string) (LatenessLedger, error) {
	if expectedStart == "" {
		expectedStart = DefaultExpectedStart
	}
	m, err := ParseClock(expectedStart)
	if err != nil {
		return LatenessLedger{}, err
	}
	return LatenessLedger{ExpectedStart: m}, nil
}

// LateMinutes counts minutes after the expected start. Only administrative
// shifts are late; station and 24/24 shortfalls surface as hour deductions.
func (l LatenessLedger) LateMinutes(shift attendance.ShiftType, checkIn *string) int {
	if shift != attendance.ShiftAdministrative {
		return 0
	}
	in, ok := clockOf(checkIn)
	if !ok || in <= l.ExpectedStart {
		return 0
	}
	return in - l.ExpectedStart
}

// DeductedDays looks up the day fraction for a check-in clock.
func DeductedDays(checkIn int) float64 {
	for _, b := range deductionBands {
		if checkIn <= b.until {
			return b.days
		}
	}
	return 1
}

type LatenessOutcome struct {
	LateMinutes  int
	DeductedDays float64
	Allowance    int // remaining after this day
}

// Consume applies one day's lateness to the remaining monthly allowance.
func (l LatenessLedger) Consume(shift attendance.ShiftType, checkIn *string, allowance int) LatenessOutcome {
	if allowance < 0 {
		allowance = 0
	}
	late := l.LateMinutes(shift, checkIn)
	if late == 0 {
		return LatenessOutcome{Allowance: allowance}
	}
	if late <= allowance {
		return LatenessOutcome{LateMinutes: late, Allowance: allowance - late}
	}
	in, _ := clockOf(checkIn)
	return LatenessOutcome{LateMinutes: late, DeductedDays: DeductedDays(in), Allowance: 0}
}
