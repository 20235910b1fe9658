package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	attendanceservice "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (employee.EmployeeService, *memory.AttendanceRepository, *memory.EmployeeRepository) {
	t.Helper()
	records := memory.NewAttendanceRepository()
	employees := memory.NewEmployeeRepository()
	lateness, err := policy.NewLatenessLedger(policy.DefaultExpectedStart)
	require.NoError(t, err)
	gateway := attendanceservice.NewGateway(memory.NewTransactor(), records, employees, policy.NewShiftPolicy(9), lateness, time.UTC)
	return NewEmployeeService(employees, gateway), records, employees
}

func TestEmployeeService_UpdateOpeningBalances_ReplaysHistory(t *testing.T) {
	// Setup
	ctx := context.Background()
	svc, records, employees := newTestService(t)
	_, err := employees.Create(ctx, employee.Employee{
		Code:               "1",
		DisplayName:        "Ali",
		BaseSalary:         decimal.NewFromInt(27000),
		ShiftType:          attendance.ShiftAdministrative,
		WorkingDays:        attendance.SixDayWeek,
		AnnualLeaveOpening: 21,
		MonthlyLateQuota:   120,
	})
	require.NoError(t, err)
	records.Insert(attendance.Record{
		EmployeeCode:           "1",
		Date:                   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Status:                 attendance.StatusLeave,
		ShiftType:              attendance.ShiftAdministrative,
		WorkingDays:            attendance.SixDayWeek,
		LeaveDaysConsumed:      1,
		AnnualLeaveBalance:     20,
		ExtraHoursCompensation: decimal.Zero,
		FridayBonus:            decimal.Zero,
		LeaveCompensation:      decimal.Zero,
		MedicalLeaveDeduction:  decimal.Zero,
	})

	// Act
	resp, err := svc.UpdateOpeningBalances(ctx, employee.UpdateOpeningBalancesRequest{
		Code:               "1",
		AnnualLeaveOpening: 30,
		MonthlyLateQuota:   60,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 30.0, resp.AnnualLeaveOpening)
	assert.Equal(t, 60, resp.MonthlyLateQuota)
	assert.Equal(t, 29.0, resp.AnnualLeaveBalance)
	assert.Equal(t, 60, resp.MonthlyLateAllowance)

	stored, err := records.List(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 29.0, stored[0].AnnualLeaveBalance)

	balances, err := svc.GetBalances(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, resp, balances)
}

func TestEmployeeService_UpdateOpeningBalances_Invalid(t *testing.T) {
	// Setup
	svc, _, _ := newTestService(t)

	// Act
	_, err := svc.UpdateOpeningBalances(context.Background(), employee.UpdateOpeningBalancesRequest{
		Code:               "1",
		AnnualLeaveOpening: -1,
	})

	// Assert
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "annual_leave_opening", verrs[0].Field)
}

func TestEmployeeService_GetBalances_NotFound(t *testing.T) {
	// Setup
	svc, _, _ := newTestService(t)

	// Act
	_, err := svc.GetBalances(context.Background(), "404")

	// Assert
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
