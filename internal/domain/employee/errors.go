package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrBalanceConflict  = errors.New("employee balances were changed concurrently")
)
