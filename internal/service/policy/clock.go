package policy

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

const minutesPerDay = 24 * 60

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%q: %w", s, attendance.ErrInvalidClock)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%q: %w", s, attendance.ErrInvalidClock)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%q: %w", s, attendance.ErrInvalidClock)
	}
	return h*60 + m, nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// clockOf returns the parsed clock, or ok=false for nil or malformed values.
func clockOf(s *string) (int, bool) {
	if s == nil {
		return 0, false
	}
	m, err := ParseClock(*s)
	if err != nil {
		return 0, false
	}
	return m, true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
