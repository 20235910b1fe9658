package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/google/uuid"
)

// EmployeeRepository implements employee.EmployeeRepository in memory.
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{employees: make(map[string]employee.Employee)}
}

func (e *EmployeeRepository) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	found, ok := e.employees[code]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return found, nil
}

func (e *EmployeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	newEmployee.ID = uuid.NewString()
	newEmployee.AnnualLeaveBalance = newEmployee.AnnualLeaveOpening
	newEmployee.MonthlyLateAllowance = newEmployee.MonthlyLateQuota
	newEmployee.BalanceVersion = 0
	newEmployee.CreatedAt = time.Now()
	newEmployee.UpdatedAt = newEmployee.CreatedAt
	e.employees[newEmployee.Code] = newEmployee
	return newEmployee, nil
}

func (e *EmployeeRepository) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []employee.Employee
	for _, emp := range e.employees {
		if filter.Code != nil && *filter.Code != "" && emp.Code != *filter.Code {
			continue
		}
		if filter.ShiftType != nil && *filter.ShiftType != "" && string(emp.ShiftType) != *filter.ShiftType {
			continue
		}
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// LockBalances is a no-op; callers already hold the in-process key lock.
func (e *EmployeeRepository) LockBalances(ctx context.Context, code string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, ok := e.employees[code]; !ok {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (e *EmployeeRepository) SaveBalances(ctx context.Context, code string, balances employee.Balances, expectedVersion int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	emp, ok := e.employees[code]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if emp.BalanceVersion != expectedVersion {
		return employee.ErrBalanceConflict
	}
	emp.AnnualLeaveBalance = balances.AnnualLeave
	emp.MonthlyLateAllowance = balances.MonthlyLateAllow
	emp.BalanceVersion++
	emp.UpdatedAt = time.Now()
	e.employees[code] = emp
	return nil
}

func (e *EmployeeRepository) UpdateOpeningBalances(ctx context.Context, code string, annualLeaveOpening float64, monthlyLateQuota int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	emp, ok := e.employees[code]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	emp.AnnualLeaveOpening = annualLeaveOpening
	emp.MonthlyLateQuota = monthlyLateQuota
	emp.UpdatedAt = time.Now()
	e.employees[code] = emp
	return nil
}
