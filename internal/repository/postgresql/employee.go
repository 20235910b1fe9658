package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `
	id, code, display_name, department, base_salary, shift_type, working_days,
	meal_allowance, medical_insurance, social_insurance,
	annual_leave_opening, monthly_late_quota,
	annual_leave_balance, monthly_late_allowance, balance_version,
	violations_total, violations_deduction, advances_total, advances_deduction,
	created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.Code, &e.DisplayName, &e.Department, &e.BaseSalary, &e.ShiftType, &e.WorkingDays,
		&e.MealAllowance, &e.MedicalInsurance, &e.SocialInsurance,
		&e.AnnualLeaveOpening, &e.MonthlyLateQuota,
		&e.AnnualLeaveBalance, &e.MonthlyLateAllowance, &e.BalanceVersion,
		&e.ViolationsTotal, &e.ViolationsDeduction, &e.AdvancesTotal, &e.AdvancesDeduction,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetByCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE code = $1`

	found, err := scanEmployee(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", code, err)
	}

	return found, nil
}

// Create implements employee.EmployeeRepository. Current balances start at
// the opening balances.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			code, display_name, department, base_salary, shift_type, working_days,
			meal_allowance, medical_insurance, social_insurance,
			annual_leave_opening, monthly_late_quota,
			annual_leave_balance, monthly_late_allowance,
			violations_total, violations_deduction, advances_total, advances_deduction
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $10, $11, $12, $13, $14, $15
		)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.Code, newEmployee.DisplayName, newEmployee.Department, newEmployee.BaseSalary,
		newEmployee.ShiftType, newEmployee.WorkingDays,
		newEmployee.MealAllowance, newEmployee.MedicalInsurance, newEmployee.SocialInsurance,
		newEmployee.AnnualLeaveOpening, newEmployee.MonthlyLateQuota,
		newEmployee.ViolationsTotal, newEmployee.ViolationsDeduction,
		newEmployee.AdvancesTotal, newEmployee.AdvancesDeduction,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	where := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.Code != nil && *filter.Code != "" {
		where += fmt.Sprintf(" AND code = $%d", argIdx)
		args = append(args, *filter.Code)
		argIdx++
	}
	if filter.ShiftType != nil && *filter.ShiftType != "" {
		where += fmt.Sprintf(" AND shift_type = $%d", argIdx)
		args = append(args, *filter.ShiftType)
	}

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees WHERE `+where+` ORDER BY code ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// LockBalances implements employee.EmployeeRepository. The advisory lock is
// released when the surrounding transaction ends.
func (e *employeeRepositoryImpl) LockBalances(ctx context.Context, code string) error {
	q := GetQuerier(ctx, e.db)

	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('attendance:' || $1))`, code)
	if err != nil {
		return fmt.Errorf("failed to lock balances for %s: %w", code, err)
	}
	return nil
}

// SaveBalances implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SaveBalances(ctx context.Context, code string, balances employee.Balances, expectedVersion int64) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET annual_leave_balance = $2,
			monthly_late_allowance = $3,
			balance_version = balance_version + 1,
			updated_at = NOW()
		WHERE code = $1 AND balance_version = $4
	`

	tag, err := q.Exec(ctx, query, code, balances.AnnualLeave, balances.MonthlyLateAllow, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to save balances for %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrBalanceConflict
	}
	return nil
}

// UpdateOpeningBalances implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateOpeningBalances(ctx context.Context, code string, annualLeaveOpening float64, monthlyLateQuota int) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `
		UPDATE employees
		SET annual_leave_opening = $2, monthly_late_quota = $3, updated_at = NOW()
		WHERE code = $1
	`, code, annualLeaveOpening, monthlyLateQuota)
	if err != nil {
		return fmt.Errorf("failed to update opening balances for %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
