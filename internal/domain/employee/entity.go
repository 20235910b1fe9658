package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	Code             string
	DisplayName      string
	Department       string
	BaseSalary       decimal.Decimal
	ShiftType        attendance.ShiftType
	WorkingDays      attendance.WorkingDays
	MealAllowance    decimal.Decimal
	MedicalInsurance decimal.Decimal
	SocialInsurance  decimal.Decimal

	// Opening balances seed a replay that has no earlier record to carry from.
	AnnualLeaveOpening float64
	MonthlyLateQuota   int

	// Current balances mirror the last chronological record. Written only by
	// the balance cascade.
	AnnualLeaveBalance   float64
	MonthlyLateAllowance int
	BalanceVersion       int64

	ViolationsTotal     decimal.Decimal
	ViolationsDeduction decimal.Decimal
	AdvancesTotal       decimal.Decimal
	AdvancesDeduction   decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balances is the pair of running balances carried between records.
type Balances struct {
	AnnualLeave      float64
	MonthlyLateAllow int
}

// Opening returns the balances a replay starts from when nothing precedes it.
func (e Employee) Opening() Balances {
	return Balances{AnnualLeave: e.AnnualLeaveOpening, MonthlyLateAllow: e.MonthlyLateQuota}
}

// Current returns the balances as of the last record.
func (e Employee) Current() Balances {
	return Balances{AnnualLeave: e.AnnualLeaveBalance, MonthlyLateAllow: e.MonthlyLateAllowance}
}

// DailyRate is one day of base salary on a 30-day month.
func (e Employee) DailyRate() decimal.Decimal {
	return e.BaseSalary.Div(decimal.NewFromInt(30))
}
