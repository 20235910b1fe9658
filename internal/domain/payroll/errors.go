package payroll

import "errors"

var (
	ErrNoEmployees = errors.New("no employees match the report filter")
)
