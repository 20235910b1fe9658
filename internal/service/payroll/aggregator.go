package payroll

import (
	"math"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/policy"
	"github.com/shopspring/decimal"
)

// Aggregator folds an employee timeline into totals and a net salary.
type Aggregator struct {
	shifts policy.ShiftPolicy
}

func NewAggregator(shifts policy.ShiftPolicy) Aggregator {
	return Aggregator{shifts: shifts}
}

// Summarize folds t. Balances come from the last record, or the employee's
// current balances when the timeline is empty.
func (a Aggregator) Summarize(t payroll.Timeline) payroll.EmployeeSummary {
	emp := t.Employee
	s := payroll.EmployeeSummary{
		EmployeeCode:           emp.Code,
		EmployeeName:           emp.DisplayName,
		Department:             emp.Department,
		ShiftType:              emp.ShiftType,
		ExtraHoursCompensation: decimal.Zero,
		FridayBonus:            decimal.Zero,
		LeaveCompensation:      decimal.Zero,
		MedicalLeaveDeduction:  decimal.Zero,
		AnnualLeaveBalance:     emp.AnnualLeaveBalance,
		MonthlyLateAllowance:   emp.MonthlyLateAllowance,
	}

	for _, r := range t.Records {
		switch r.Status {
		case attendance.StatusPresent:
			s.PresentDays++
		case attendance.StatusAbsent:
			s.AbsentDays++
		case attendance.StatusWeeklyOff:
			s.WeeklyOffDays++
		case attendance.StatusLeave:
			s.LeaveDays++
		case attendance.StatusOfficialLeave:
			s.OfficialLeaveDays++
		case attendance.StatusMedicalLeave:
			s.MedicalLeaveDays++
		}

		s.CalculatedWorkDays += r.CalculatedWorkDays
		s.LateMinutes += r.LateMinutes
		s.DeductedDays += r.DeductedDays
		s.WorkHours += r.WorkHours
		s.ExtraHours += r.ExtraHours
		s.HoursDeduction += r.HoursDeduction
		s.ExtraHoursCompensation = s.ExtraHoursCompensation.Add(r.ExtraHoursCompensation)
		s.FridayBonus = s.FridayBonus.Add(r.FridayBonus)
		s.LeaveCompensation = s.LeaveCompensation.Add(r.LeaveCompensation)
		s.MedicalLeaveDeduction = s.MedicalLeaveDeduction.Add(r.MedicalLeaveDeduction)

		s.AnnualLeaveBalance = r.AnnualLeaveBalance
		s.MonthlyLateAllowance = r.MonthlyLateAllowance
	}

	s.DeductedDays = round2(s.DeductedDays)
	s.WorkHours = round2(s.WorkHours)
	s.ExtraHours = round2(s.ExtraHours)
	s.HoursDeduction = round2(s.HoursDeduction)

	// Station shifts are paid the Friday doubling through extra hours only.
	if emp.ShiftType.IsStation() {
		s.FridayBonus = decimal.Zero
	}

	a.computeSalary(&s, t)
	return s
}

func (a Aggregator) computeSalary(s *payroll.EmployeeSummary, t payroll.Timeline) {
	emp := t.Employee
	thirty := decimal.NewFromInt(30)

	s.BaseSalary = emp.BaseSalary
	s.DailyRate = policy.DailyRate(emp.BaseSalary)
	s.HourlyRate = a.shifts.HourlyRate(emp.BaseSalary)

	s.MealAllowance = emp.MealAllowance
	missedDays := decimal.NewFromInt(int64(s.AbsentDays + s.LeaveDays + s.MedicalLeaveDays))
	mealAfter := emp.MealAllowance.Sub(missedDays.Mul(emp.MealAllowance.Div(thirty)))
	if mealAfter.IsNegative() {
		mealAfter = decimal.Zero
	}
	s.MealAllowanceDeduction = emp.MealAllowance.Sub(mealAfter)

	s.AbsenceDeduction = decimal.NewFromFloat(s.DeductedDays).Add(decimal.NewFromInt(int64(s.AbsentDays))).Mul(s.DailyRate)
	s.HoursDeductionAmount = decimal.NewFromFloat(s.HoursDeduction).Mul(s.HourlyRate)
	s.ViolationsDeduction = emp.ViolationsDeduction
	s.AdvancesDeduction = emp.AdvancesDeduction
	s.MedicalInsurance = emp.MedicalInsurance
	s.SocialInsurance = emp.SocialInsurance

	s.NetSalary = emp.BaseSalary.
		Add(mealAfter).
		Add(s.LeaveCompensation).
		Add(s.ExtraHoursCompensation).
		Add(s.FridayBonus).
		Sub(s.AbsenceDeduction).
		Sub(s.HoursDeductionAmount).
		Sub(s.ViolationsDeduction).
		Sub(s.AdvancesDeduction).
		Sub(s.MedicalInsurance).
		Sub(s.SocialInsurance)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
