package payroll

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// Timeline is one employee's date-ordered records over a period, including
// synthesized default rows for days that have none.
type Timeline struct {
	Employee employee.Employee
	Records  []attendance.Record
}

// EmployeeSummary is the fold of a Timeline.
type EmployeeSummary struct {
	EmployeeCode string
	EmployeeName string
	Department   string
	ShiftType    attendance.ShiftType

	// Day-type counts
	PresentDays       int
	AbsentDays        int
	WeeklyOffDays     int
	LeaveDays         int
	OfficialLeaveDays int
	MedicalLeaveDays  int

	// Summed record fields
	CalculatedWorkDays     int
	LateMinutes            int
	DeductedDays           float64
	WorkHours              float64
	ExtraHours             float64
	HoursDeduction         float64
	ExtraHoursCompensation decimal.Decimal
	FridayBonus            decimal.Decimal
	LeaveCompensation      decimal.Decimal
	MedicalLeaveDeduction  decimal.Decimal

	// Balances after the last record of the period
	AnnualLeaveBalance   float64
	MonthlyLateAllowance int

	// Salary
	BaseSalary             decimal.Decimal
	DailyRate              decimal.Decimal
	HourlyRate             decimal.Decimal
	MealAllowance          decimal.Decimal
	MealAllowanceDeduction decimal.Decimal
	AbsenceDeduction       decimal.Decimal
	HoursDeductionAmount   decimal.Decimal
	ViolationsDeduction    decimal.Decimal
	AdvancesDeduction      decimal.Decimal
	MedicalInsurance       decimal.Decimal
	SocialInsurance        decimal.Decimal
	NetSalary              decimal.Decimal
}
