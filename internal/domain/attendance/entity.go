package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one employee-day of attendance. Balance snapshots hold the
// running values AFTER this day's effect has been applied.
type Record struct {
	ID           string
	EmployeeCode string
	EmployeeName string
	Date         time.Time // day granularity, midnight UTC of the local calendar day
	CheckIn      *string   // HH:MM
	CheckOut     *string   // HH:MM
	CheckOutDate *time.Time
	Status       Status
	ShiftType    ShiftType
	WorkingDays  WorkingDays

	LateMinutes        int
	DeductedDays       float64
	CalculatedWorkDays int

	WorkHours              float64
	ExtraHours             float64
	ExtraHoursCompensation decimal.Decimal
	HoursDeduction         float64
	FridayBonus            decimal.Decimal

	LeaveCompensation     decimal.Decimal
	MedicalLeaveDeduction decimal.Decimal
	LeaveDaysConsumed     float64

	AnnualLeaveBalance   float64
	MonthlyLateAllowance int
	TotalExtraHours      float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Status string

const (
	StatusPresent       Status = "present"
	StatusAbsent        Status = "absent"
	StatusWeeklyOff     Status = "weekly_off"
	StatusLeave         Status = "leave"
	StatusOfficialLeave Status = "official_leave"
	StatusMedicalLeave  Status = "medical_leave"
)

// IsFrozen reports whether the status already carries its own balance effect
// and must not be recomputed by a replay.
func (s Status) IsFrozen() bool {
	return s == StatusLeave || s == StatusOfficialLeave || s == StatusMedicalLeave
}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusWeeklyOff, StatusLeave, StatusOfficialLeave, StatusMedicalLeave:
		return true
	}
	return false
}

type ShiftType string

const (
	ShiftAdministrative ShiftType = "administrative"
	ShiftDayStation     ShiftType = "dayStation"
	ShiftNightStation   ShiftType = "nightStation"
	Shift24x24          ShiftType = "24/24"
)

func (s ShiftType) Valid() bool {
	switch s {
	case ShiftAdministrative, ShiftDayStation, ShiftNightStation, Shift24x24:
		return true
	}
	return false
}

// IsStation reports day and night station shifts.
func (s ShiftType) IsStation() bool {
	return s == ShiftDayStation || s == ShiftNightStation
}

type WorkingDays string

const (
	FiveDayWeek WorkingDays = "5"
	SixDayWeek  WorkingDays = "6"
)

// HasPunch reports whether either side of the day was punched.
func (r Record) HasPunch() bool {
	return r.CheckIn != nil || r.CheckOut != nil
}

// ResetDerived clears every field the policies compute, leaving identity,
// punches and status untouched.
func (r *Record) ResetDerived() {
	r.LateMinutes = 0
	r.DeductedDays = 0
	r.CalculatedWorkDays = 0
	r.WorkHours = 0
	r.ExtraHours = 0
	r.ExtraHoursCompensation = decimal.Zero
	r.HoursDeduction = 0
	r.FridayBonus = decimal.Zero
	r.LeaveCompensation = decimal.Zero
	r.MedicalLeaveDeduction = decimal.Zero
	r.LeaveDaysConsumed = 0
}

// DateOf truncates t to its local calendar day, expressed as midnight UTC so
// that dates compare and store independent of the server zone.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
