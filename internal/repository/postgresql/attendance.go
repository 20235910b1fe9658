package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const recordColumns = `
	id, employee_code, employee_name, date, check_in, check_out, check_out_date,
	status, shift_type, working_days,
	late_minutes, deducted_days, calculated_work_days,
	work_hours, extra_hours, extra_hours_compensation, hours_deduction, friday_bonus,
	leave_compensation, medical_leave_deduction, leave_days_consumed,
	annual_leave_balance, monthly_late_allowance, total_extra_hours,
	created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var r attendance.Record
	err := row.Scan(
		&r.ID, &r.EmployeeCode, &r.EmployeeName, &r.Date, &r.CheckIn, &r.CheckOut, &r.CheckOutDate,
		&r.Status, &r.ShiftType, &r.WorkingDays,
		&r.LateMinutes, &r.DeductedDays, &r.CalculatedWorkDays,
		&r.WorkHours, &r.ExtraHours, &r.ExtraHoursCompensation, &r.HoursDeduction, &r.FridayBonus,
		&r.LeaveCompensation, &r.MedicalLeaveDeduction, &r.LeaveDaysConsumed,
		&r.AnnualLeaveBalance, &r.MonthlyLateAllowance, &r.TotalExtraHours,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (a *attendanceRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, r attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			employee_code, employee_name, date, check_in, check_out, check_out_date,
			status, shift_type, working_days,
			late_minutes, deducted_days, calculated_work_days,
			work_hours, extra_hours, extra_hours_compensation, hours_deduction, friday_bonus,
			leave_compensation, medical_leave_deduction, leave_days_consumed,
			annual_leave_balance, monthly_late_allowance, total_extra_hours
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		r.EmployeeCode, r.EmployeeName, r.Date, r.CheckIn, r.CheckOut, r.CheckOutDate,
		r.Status, r.ShiftType, r.WorkingDays,
		r.LateMinutes, r.DeductedDays, r.CalculatedWorkDays,
		r.WorkHours, r.ExtraHours, r.ExtraHoursCompensation, r.HoursDeduction, r.FridayBonus,
		r.LeaveCompensation, r.MedicalLeaveDeduction, r.LeaveDaysConsumed,
		r.AnnualLeaveBalance, r.MonthlyLateAllowance, r.TotalExtraHours,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return r, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, r attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records SET
			employee_name = $2, check_in = $3, check_out = $4, check_out_date = $5,
			status = $6, shift_type = $7, working_days = $8,
			late_minutes = $9, deducted_days = $10, calculated_work_days = $11,
			work_hours = $12, extra_hours = $13, extra_hours_compensation = $14,
			hours_deduction = $15, friday_bonus = $16,
			leave_compensation = $17, medical_leave_deduction = $18, leave_days_consumed = $19,
			annual_leave_balance = $20, monthly_late_allowance = $21, total_extra_hours = $22,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		r.ID, r.EmployeeName, r.CheckIn, r.CheckOut, r.CheckOutDate,
		r.Status, r.ShiftType, r.WorkingDays,
		r.LateMinutes, r.DeductedDays, r.CalculatedWorkDays,
		r.WorkHours, r.ExtraHours, r.ExtraHoursCompensation,
		r.HoursDeduction, r.FridayBonus,
		r.LeaveCompensation, r.MedicalLeaveDeduction, r.LeaveDaysConsumed,
		r.AnnualLeaveBalance, r.MonthlyLateAllowance, r.TotalExtraHours,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record %s: %w", r.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + ` FROM attendance_records WHERE id::text = $1`

	r, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record by id: %w", err)
	}

	return r, nil
}

// FindByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeCode string, date time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_code = $1 AND date = $2
		ORDER BY created_at ASC, id ASC
	`

	records, err := a.queryRecords(ctx, query, employeeCode, attendance.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("failed to find attendance records for %s on %s: %w", employeeCode, date.Format("2006-01-02"), err)
	}
	return records, nil
}

// DeleteByIDs implements attendance.AttendanceRepository.
func (a *attendanceRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q := GetQuerier(ctx, a.db)

	_, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return fmt.Errorf("failed to delete attendance records: %w", err)
	}
	return nil
}

// ListByEmployeeFrom implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeFrom(ctx context.Context, employeeCode string, from time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_code = $1 AND date >= $2
		ORDER BY date ASC, created_at ASC, id ASC
	`

	records, err := a.queryRecords(ctx, query, employeeCode, attendance.DateOf(from))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records for %s: %w", employeeCode, err)
	}
	return records, nil
}

// GetLastBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetLastBefore(ctx context.Context, employeeCode string, before time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_code = $1 AND date < $2
		ORDER BY date DESC, created_at DESC, id DESC
		LIMIT 1
	`

	r, err := scanRecord(q.QueryRow(ctx, query, employeeCode, attendance.DateOf(before)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last attendance record before %s: %w", before.Format("2006-01-02"), err)
	}
	return &r, nil
}

// GetLatest implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetLatest(ctx context.Context, employeeCode string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_code = $1
		ORDER BY date DESC, created_at DESC, id DESC
		LIMIT 1
	`

	r, err := scanRecord(q.QueryRow(ctx, query, employeeCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest attendance record: %w", err)
	}
	return &r, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, error) {
	where := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeCode != nil && *filter.EmployeeCode != "" {
		where += fmt.Sprintf(" AND employee_code = $%d", argIdx)
		args = append(args, *filter.EmployeeCode)
		argIdx++
	}
	if filter.ShiftType != nil && *filter.ShiftType != "" {
		where += fmt.Sprintf(" AND shift_type = $%d", argIdx)
		args = append(args, *filter.ShiftType)
		argIdx++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, attendance.DateOf(*filter.From))
		argIdx++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, attendance.DateOf(*filter.To))
	}

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE ` + where + `
		ORDER BY employee_code ASC, date ASC, created_at ASC
	`

	records, err := a.queryRecords(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return records, nil
}

// DeleteAll implements attendance.AttendanceRepository.
func (a *attendanceRepository) DeleteAll(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attendance records: %w", err)
	}
	return tag.RowsAffected(), nil
}
