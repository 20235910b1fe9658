package policy

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

const (
	DefaultNormalHours = 9

	// A 24/24 pair reaching a full day earns a flat amount of extra hours
	// for the second day rather than the actual surplus.
	fullDayFlatExtraHours = 6
)

// ShiftPolicy maps a record's shift and punches to hours, days and bonuses.
type ShiftPolicy struct {
	NormalHours float64
}

func NewShiftPolicy(normalHours float64) ShiftPolicy {
	if normalHours <= 0 {
		normalHours = DefaultNormalHours
	}
	return ShiftPolicy{NormalHours: normalHours}
}

// Punches is the input side of an hours derivation.
type Punches struct {
	Date         time.Time
	CheckIn      *string
	CheckOut     *string
	CheckOutDate *time.Time
}

// PunchesOf extracts the punch fields of a record.
func PunchesOf(r attendance.Record) Punches {
	return Punches{Date: r.Date, CheckIn: r.CheckIn, CheckOut: r.CheckOut, CheckOutDate: r.CheckOutDate}
}

type Hours struct {
	WorkHours              float64
	ExtraHours             float64
	ExtraHoursCompensation decimal.Decimal
	HoursDeduction         float64
	CalculatedWorkDays     int
	FridayBonus            decimal.Decimal
}

// Apply copies the derived hours onto r.
func (h Hours) Apply(r *attendance.Record) {
	r.WorkHours = h.WorkHours
	r.ExtraHours = h.ExtraHours
	r.ExtraHoursCompensation = h.ExtraHoursCompensation
	r.HoursDeduction = h.HoursDeduction
	r.CalculatedWorkDays = h.CalculatedWorkDays
	r.FridayBonus = h.FridayBonus
}

// DailyRate is one day of base salary on a 30-day month.
func DailyRate(baseSalary decimal.Decimal) decimal.Decimal {
	return baseSalary.Div(decimal.NewFromInt(30))
}

func (p ShiftPolicy) HourlyRate(baseSalary decimal.Decimal) decimal.Decimal {
	return DailyRate(baseSalary).Div(decimal.NewFromFloat(p.NormalHours))
}

// DeriveWorkHours computes the hour breakdown for one record.
func (p ShiftPolicy) DeriveWorkHours(shift attendance.ShiftType, in Punches, baseSalary decimal.Decimal) Hours {
	h := Hours{ExtraHoursCompensation: decimal.Zero, FridayBonus: decimal.Zero}
	hasIn := in.CheckIn != nil
	hasOut := in.CheckOut != nil
	if !hasIn && !hasOut {
		return h
	}

	friday := in.Date.Weekday() == time.Friday
	hourly := p.HourlyRate(baseSalary)

	switch {
	case shift == attendance.ShiftAdministrative:
		h.CalculatedWorkDays = 1

	case shift.IsStation():
		if !hasIn || !hasOut {
			h.WorkHours = p.NormalHours
			h.CalculatedWorkDays = 1
			return h
		}
		elapsed, ok := elapsedHours(in)
		if !ok {
			h.WorkHours = p.NormalHours
			h.CalculatedWorkDays = 1
			return h
		}
		if friday {
			h.WorkHours = round2(elapsed * 2)
			h.ExtraHours = round2(elapsed)
			h.ExtraHoursCompensation = hourly.Mul(decimal.NewFromFloat(h.ExtraHours)).Mul(decimal.NewFromInt(2))
			h.CalculatedWorkDays = 2
			h.FridayBonus = DailyRate(baseSalary)
			return h
		}
		h.WorkHours = round2(elapsed)
		h.CalculatedWorkDays = 1
		switch {
		case elapsed < p.NormalHours:
			h.HoursDeduction = round2(p.NormalHours - elapsed)
		case elapsed > p.NormalHours:
			h.ExtraHours = round2(elapsed - p.NormalHours)
			h.ExtraHoursCompensation = hourly.Mul(decimal.NewFromFloat(h.ExtraHours))
		}

	case shift == attendance.Shift24x24:
		// An open pair earns nothing until it closes.
		if !hasIn || !hasOut {
			return h
		}
		elapsed, ok := elapsedHours(in)
		if !ok {
			return h
		}
		h.WorkHours = round2(elapsed)
		switch {
		case elapsed <= p.NormalHours:
			h.CalculatedWorkDays = 1
		case elapsed >= 24:
			h.CalculatedWorkDays = 2
			h.ExtraHours = fullDayFlatExtraHours
		default:
			h.CalculatedWorkDays = 1
			h.ExtraHours = round2(elapsed - p.NormalHours)
		}
		h.ExtraHoursCompensation = hourly.Mul(decimal.NewFromFloat(h.ExtraHours))
		if friday {
			h.FridayBonus = DailyRate(baseSalary)
		}
	}

	return h
}

// elapsedHours spans check-in to check-out. A check-out that is not after
// the check-in on the same day is taken to fall on the next day.
func elapsedHours(in Punches) (float64, bool) {
	start, ok := clockOf(in.CheckIn)
	if !ok {
		return 0, false
	}
	end, ok := clockOf(in.CheckOut)
	if !ok {
		return 0, false
	}
	if in.CheckOutDate != nil {
		days := int(attendance.DateOf(*in.CheckOutDate).Sub(attendance.DateOf(in.Date)).Hours() / 24)
		end += days * minutesPerDay
	}
	minutes := end - start
	if minutes <= 0 {
		minutes += minutesPerDay
	}
	return float64(minutes) / 60, true
}

// IsWorkday reports whether the shift is expected to work on date.
func IsWorkday(date time.Time, workingDays attendance.WorkingDays, shift attendance.ShiftType) bool {
	switch date.Weekday() {
	case time.Friday:
		return shift == attendance.Shift24x24
	case time.Saturday:
		return shift != attendance.ShiftAdministrative || workingDays != attendance.FiveDayWeek
	default:
		return true
	}
}

// CalculateStatus is the status of a day with no punch.
func CalculateStatus(date time.Time, workingDays attendance.WorkingDays, shift attendance.ShiftType) attendance.Status {
	if IsWorkday(date, workingDays, shift) {
		return attendance.StatusAbsent
	}
	return attendance.StatusWeeklyOff
}
