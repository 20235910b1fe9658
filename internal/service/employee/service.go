package employee

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	attendanceservice "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	gateway      *attendanceservice.Gateway
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	gateway *attendanceservice.Gateway,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		gateway:      gateway,
	}
}

// GetBalances implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetBalances(ctx context.Context, code string) (employee.BalanceResponse, error) {
	emp, err := s.employeeRepo.GetByCode(ctx, code)
	if err != nil {
		return employee.BalanceResponse{}, err
	}
	return employee.NewBalanceResponse(emp), nil
}

// UpdateOpeningBalances implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateOpeningBalances(ctx context.Context, req employee.UpdateOpeningBalancesRequest) (employee.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.BalanceResponse{}, err
	}

	emp, err := s.gateway.Mutate(ctx, req.Code, func(ctx context.Context, emp employee.Employee) (time.Time, bool, error) {
		if err := s.employeeRepo.UpdateOpeningBalances(ctx, emp.Code, req.AnnualLeaveOpening, req.MonthlyLateQuota); err != nil {
			return time.Time{}, false, err
		}
		return attendanceservice.ReplayAll, true, nil
	})
	if err != nil {
		return employee.BalanceResponse{}, err
	}

	slog.Info("Opening balances updated",
		"employee_code", emp.Code,
		"annual_leave_opening", req.AnnualLeaveOpening,
		"monthly_late_quota", req.MonthlyLateQuota,
		"annual_leave_balance", emp.AnnualLeaveBalance,
	)
	return employee.NewBalanceResponse(emp), nil
}
