package policy

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

type LeaveKind string

const (
	LeaveAnnual       LeaveKind = "annual"
	LeaveCompensation LeaveKind = "compensation"
	LeaveMedical      LeaveKind = "medical"
	LeaveOfficial     LeaveKind = "official"
)

// LeaveEffect is what one leave day does to a record and the annual balance.
type LeaveEffect struct {
	Status                attendance.Status
	DaysConsumed          float64
	LeaveCompensation     decimal.Decimal
	MedicalLeaveDeduction decimal.Decimal
}

func LeaveEffectOf(kind LeaveKind, baseSalary decimal.Decimal) LeaveEffect {
	daily := DailyRate(baseSalary)
	switch kind {
	case LeaveCompensation:
		return LeaveEffect{
			Status:                attendance.StatusLeave,
			DaysConsumed:          2,
			LeaveCompensation:     daily.Mul(decimal.NewFromInt(2)),
			MedicalLeaveDeduction: decimal.Zero,
		}
	case LeaveMedical:
		return LeaveEffect{
			Status:                attendance.StatusMedicalLeave,
			DaysConsumed:          1,
			LeaveCompensation:     decimal.Zero,
			MedicalLeaveDeduction: daily.Mul(decimal.NewFromFloat(0.25)),
		}
	case LeaveOfficial:
		return LeaveEffect{
			Status:                attendance.StatusOfficialLeave,
			LeaveCompensation:     decimal.Zero,
			MedicalLeaveDeduction: decimal.Zero,
		}
	default:
		return LeaveEffect{
			Status:                attendance.StatusLeave,
			DaysConsumed:          1,
			LeaveCompensation:     decimal.Zero,
			MedicalLeaveDeduction: decimal.Zero,
		}
	}
}

// Apply turns r into a frozen leave day. Punches are kept for reference.
func (e LeaveEffect) Apply(r *attendance.Record) {
	r.ResetDerived()
	r.Status = e.Status
	r.LeaveDaysConsumed = e.DaysConsumed
	r.LeaveCompensation = e.LeaveCompensation
	r.MedicalLeaveDeduction = e.MedicalLeaveDeduction
}
