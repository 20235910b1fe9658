package payroll

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

type EmployeeSummaryResponse struct {
	EmployeeCode string               `json:"employee_code"`
	EmployeeName string               `json:"employee_name"`
	Department   string               `json:"department"`
	ShiftType    attendance.ShiftType `json:"shift_type"`

	PresentDays       int `json:"present_days"`
	AbsentDays        int `json:"absent_days"`
	WeeklyOffDays     int `json:"weekly_off_days"`
	LeaveDays         int `json:"leave_days"`
	OfficialLeaveDays int `json:"official_leave_days"`
	MedicalLeaveDays  int `json:"medical_leave_days"`

	CalculatedWorkDays     int             `json:"calculated_work_days"`
	LateMinutes            int             `json:"late_minutes"`
	DeductedDays           float64         `json:"deducted_days"`
	WorkHours              float64         `json:"work_hours"`
	ExtraHours             float64         `json:"extra_hours"`
	HoursDeduction         float64         `json:"hours_deduction"`
	ExtraHoursCompensation decimal.Decimal `json:"extra_hours_compensation"`
	FridayBonus            decimal.Decimal `json:"friday_bonus"`
	LeaveCompensation      decimal.Decimal `json:"leave_compensation"`
	MedicalLeaveDeduction  decimal.Decimal `json:"medical_leave_deduction"`

	AnnualLeaveBalance   float64 `json:"annual_leave_balance"`
	MonthlyLateAllowance int     `json:"monthly_late_allowance"`
}

type SalaryResponse struct {
	BaseSalary             decimal.Decimal `json:"base_salary"`
	DailyRate              decimal.Decimal `json:"daily_rate"`
	HourlyRate             decimal.Decimal `json:"hourly_rate"`
	MealAllowance          decimal.Decimal `json:"meal_allowance"`
	MealAllowanceDeduction decimal.Decimal `json:"meal_allowance_deduction"`
	AbsenceDeduction       decimal.Decimal `json:"absence_deduction"`
	HoursDeductionAmount   decimal.Decimal `json:"hours_deduction_amount"`
	ViolationsDeduction    decimal.Decimal `json:"violations_deduction"`
	AdvancesDeduction      decimal.Decimal `json:"advances_deduction"`
	MedicalInsurance       decimal.Decimal `json:"medical_insurance"`
	SocialInsurance        decimal.Decimal `json:"social_insurance"`
	NetSalary              decimal.Decimal `json:"net_salary"`
}

type ReportLine struct {
	Summary EmployeeSummaryResponse `json:"summary"`
	Salary  SalaryResponse          `json:"salary"`
}

type ReportResponse struct {
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	Employees      []ReportLine    `json:"employees"`
	TotalNetSalary decimal.Decimal `json:"total_net_salary"`
}

type OverviewResponse struct {
	Records   []attendance.RecordResponse `json:"records"`
	Summaries []EmployeeSummaryResponse   `json:"summaries"`
}

func NewEmployeeSummaryResponse(s EmployeeSummary) EmployeeSummaryResponse {
	return EmployeeSummaryResponse{
		EmployeeCode:           s.EmployeeCode,
		EmployeeName:           s.EmployeeName,
		Department:             s.Department,
		ShiftType:              s.ShiftType,
		PresentDays:            s.PresentDays,
		AbsentDays:             s.AbsentDays,
		WeeklyOffDays:          s.WeeklyOffDays,
		LeaveDays:              s.LeaveDays,
		OfficialLeaveDays:      s.OfficialLeaveDays,
		MedicalLeaveDays:       s.MedicalLeaveDays,
		CalculatedWorkDays:     s.CalculatedWorkDays,
		LateMinutes:            s.LateMinutes,
		DeductedDays:           s.DeductedDays,
		WorkHours:              s.WorkHours,
		ExtraHours:             s.ExtraHours,
		HoursDeduction:         s.HoursDeduction,
		ExtraHoursCompensation: s.ExtraHoursCompensation.Round(2),
		FridayBonus:            s.FridayBonus.Round(2),
		LeaveCompensation:      s.LeaveCompensation.Round(2),
		MedicalLeaveDeduction:  s.MedicalLeaveDeduction.Round(2),
		AnnualLeaveBalance:     s.AnnualLeaveBalance,
		MonthlyLateAllowance:   s.MonthlyLateAllowance,
	}
}

func NewSalaryResponse(s EmployeeSummary) SalaryResponse {
	return SalaryResponse{
		BaseSalary:             s.BaseSalary.Round(2),
		DailyRate:              s.DailyRate.Round(2),
		HourlyRate:             s.HourlyRate.Round(2),
		MealAllowance:          s.MealAllowance.Round(2),
		MealAllowanceDeduction: s.MealAllowanceDeduction.Round(2),
		AbsenceDeduction:       s.AbsenceDeduction.Round(2),
		HoursDeductionAmount:   s.HoursDeductionAmount.Round(2),
		ViolationsDeduction:    s.ViolationsDeduction.Round(2),
		AdvancesDeduction:      s.AdvancesDeduction.Round(2),
		MedicalInsurance:       s.MedicalInsurance.Round(2),
		SocialInsurance:        s.SocialInsurance.Round(2),
		NetSalary:              s.NetSalary.Round(2),
	}
}
