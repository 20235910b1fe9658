package employee

import "context"

type EmployeeRepository interface {
	GetByCode(ctx context.Context, code string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	List(ctx context.Context, filter ListFilter) ([]Employee, error)

	// LockBalances serialises balance writers for one employee until the
	// surrounding transaction ends.
	LockBalances(ctx context.Context, code string) error

	// SaveBalances overwrites the current balances when the stored version
	// still equals expectedVersion, and bumps the version.
	SaveBalances(ctx context.Context, code string, balances Balances, expectedVersion int64) error

	UpdateOpeningBalances(ctx context.Context, code string, annualLeaveOpening float64, monthlyLateQuota int) error
}

type ListFilter struct {
	Code      *string
	ShiftType *string
}
