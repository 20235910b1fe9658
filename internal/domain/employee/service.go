package employee

import "context"

// EmployeeService exposes the balance side of an employee. Current balances
// are read-only here; only the opening balances are editable.
type EmployeeService interface {
	GetBalances(ctx context.Context, code string) (BalanceResponse, error)

	// UpdateOpeningBalances stores new opening balances and replays every record
	UpdateOpeningBalances(ctx context.Context, req UpdateOpeningBalancesRequest) (BalanceResponse, error)
}
