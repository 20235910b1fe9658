package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/policy"
)

// ReplayAll as a mutation's start date replays the employee's whole history.
var ReplayAll = time.Time{}

// Mutation changes one employee's records inside the gateway transaction and
// reports the earliest date it touched. Returning ok=false skips the replay.
type Mutation func(ctx context.Context, emp employee.Employee) (from time.Time, ok bool, err error)

// Gateway is the only writer of balance snapshots. Every change to an
// employee's records goes through Mutate, which serialises writers for that
// employee and replays the tail from the earliest changed date.
type Gateway struct {
	db        database.Transactor
	records   attendance.AttendanceRepository
	employees employee.EmployeeRepository
	locks     *keylock.KeyedMutex
	shifts    policy.ShiftPolicy
	lateness  policy.LatenessLedger
	location  *time.Location
	now       func() time.Time
}

func NewGateway(
	db database.Transactor,
	records attendance.AttendanceRepository,
	employees employee.EmployeeRepository,
	shifts policy.ShiftPolicy,
	lateness policy.LatenessLedger,
	location *time.Location,
) *Gateway {
	if location == nil {
		location = time.UTC
	}
	return &Gateway{
		db:        db,
		records:   records,
		employees: employees,
		locks:     keylock.New(),
		shifts:    shifts,
		lateness:  lateness,
		location:  location,
		now:       time.Now,
	}
}

// Mutate runs fn and the replay it implies atomically for one employee and
// returns the employee with its balances after the replay.
func (g *Gateway) Mutate(ctx context.Context, code string, fn Mutation) (employee.Employee, error) {
	unlock := g.locks.Lock(code)
	defer unlock()

	var result employee.Employee
	err := g.db.WithTransaction(ctx, func(ctx context.Context) error {
		if err := g.employees.LockBalances(ctx, code); err != nil {
			return fmt.Errorf("failed to lock balances: %w", err)
		}

		emp, err := g.employees.GetByCode(ctx, code)
		if err != nil {
			return err
		}

		from, ok, err := fn(ctx, emp)
		if err != nil {
			return err
		}
		if !ok {
			result = emp
			return nil
		}

		// fn may have changed the employee row itself
		emp, err = g.employees.GetByCode(ctx, code)
		if err != nil {
			return err
		}

		result, err = g.replay(ctx, emp, from)
		return err
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return result, nil
}

// replay re-derives every record dated on or after from, carrying balances
// forward from the last record before it. Only records whose derived fields
// changed are written.
func (g *Gateway) replay(ctx context.Context, emp employee.Employee, from time.Time) (employee.Employee, error) {
	from = attendance.DateOf(from)

	bal := emp.Opening()
	totalExtra := 0.0
	var lastDate *time.Time

	if !from.IsZero() {
		anchor, err := g.records.GetLastBefore(ctx, emp.Code, from)
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to load replay anchor: %w", err)
		}
		if anchor != nil {
			bal = employee.Balances{AnnualLeave: anchor.AnnualLeaveBalance, MonthlyLateAllow: anchor.MonthlyLateAllowance}
			totalExtra = anchor.TotalExtraHours
			d := anchor.Date
			lastDate = &d
		}
	}

	rows, err := g.records.ListByEmployeeFrom(ctx, emp.Code, from)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to load records to replay: %w", err)
	}
	tail, dupes := splitDuplicateDays(rows)
	if len(dupes) > 0 {
		if err := g.records.DeleteByIDs(ctx, dupes); err != nil {
			return employee.Employee{}, fmt.Errorf("failed to delete duplicate records: %w", err)
		}
		slog.Warn("Collapsed duplicate attendance records during replay",
			"employee_code", emp.Code,
			"from", from.Format(time.DateOnly),
			"deleted", len(dupes),
		)
	}

	updated := 0
	for i := range tail {
		before := tail[i]
		r := &tail[i]

		if lastDate != nil && !attendance.SameMonth(*lastDate, r.Date) {
			bal.MonthlyLateAllow = emp.MonthlyLateQuota
			totalExtra = 0
		}

		g.derive(r, emp, &bal, &totalExtra)

		if derivedChanged(before, *r) {
			if err := g.records.Update(ctx, *r); err != nil {
				return employee.Employee{}, fmt.Errorf("failed to update record %s: %w", r.ID, err)
			}
			updated++
		}
		d := r.Date
		lastDate = &d
	}

	// The allowance of a month with no records yet is the full quota.
	if lastDate != nil && lastDate.Before(g.monthStart()) {
		bal.MonthlyLateAllow = emp.MonthlyLateQuota
	}

	if bal != emp.Current() {
		if err := g.employees.SaveBalances(ctx, emp.Code, bal, emp.BalanceVersion); err != nil {
			return employee.Employee{}, fmt.Errorf("failed to save balances: %w", err)
		}
		emp.AnnualLeaveBalance = bal.AnnualLeave
		emp.MonthlyLateAllowance = bal.MonthlyLateAllow
		emp.BalanceVersion++
	}

	slog.Debug("Replayed attendance",
		"employee_code", emp.Code,
		"from", from.Format(time.DateOnly),
		"records", len(tail),
		"updated", updated,
	)
	return emp, nil
}

// splitDuplicateDays keeps the oldest row of each date from a list ordered
// by date then creation, returning the ids of the rest.
func splitDuplicateDays(rows []attendance.Record) ([]attendance.Record, []string) {
	kept := make([]attendance.Record, 0, len(rows))
	var dupes []string
	for _, r := range rows {
		if n := len(kept); n > 0 && kept[n-1].Date.Equal(r.Date) {
			dupes = append(dupes, r.ID)
			continue
		}
		kept = append(kept, r)
	}
	return kept, dupes
}

// derive recomputes one record in place and advances the running balances.
// Frozen leave days keep their own fields and only consume annual leave.
func (g *Gateway) derive(r *attendance.Record, emp employee.Employee, bal *employee.Balances, totalExtra *float64) {
	if r.Status.IsFrozen() {
		bal.AnnualLeave -= r.LeaveDaysConsumed
	} else {
		r.ResetDerived()
		if r.HasPunch() {
			r.Status = attendance.StatusPresent
		} else {
			r.Status = policy.CalculateStatus(r.Date, r.WorkingDays, r.ShiftType)
		}
		g.shifts.DeriveWorkHours(r.ShiftType, policy.PunchesOf(*r), emp.BaseSalary).Apply(r)

		outcome := g.lateness.Consume(r.ShiftType, r.CheckIn, bal.MonthlyLateAllow)
		r.LateMinutes = outcome.LateMinutes
		r.DeductedDays = outcome.DeductedDays
		bal.MonthlyLateAllow = outcome.Allowance
	}

	if r.ShiftType == attendance.Shift24x24 {
		*totalExtra += r.ExtraHours
		r.TotalExtraHours = *totalExtra
	} else {
		r.TotalExtraHours = 0
	}

	r.AnnualLeaveBalance = bal.AnnualLeave
	r.MonthlyLateAllowance = bal.MonthlyLateAllow
}

// monthStart is the first day of the current month in the attendance zone.
func (g *Gateway) monthStart() time.Time {
	now := g.now().In(g.location)
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func derivedChanged(a, b attendance.Record) bool {
	return a.Status != b.Status ||
		a.LateMinutes != b.LateMinutes ||
		a.DeductedDays != b.DeductedDays ||
		a.CalculatedWorkDays != b.CalculatedWorkDays ||
		a.WorkHours != b.WorkHours ||
		a.ExtraHours != b.ExtraHours ||
		!a.ExtraHoursCompensation.Equal(b.ExtraHoursCompensation) ||
		a.HoursDeduction != b.HoursDeduction ||
		!a.FridayBonus.Equal(b.FridayBonus) ||
		!a.LeaveCompensation.Equal(b.LeaveCompensation) ||
		!a.MedicalLeaveDeduction.Equal(b.MedicalLeaveDeduction) ||
		a.LeaveDaysConsumed != b.LeaveDaysConsumed ||
		a.AnnualLeaveBalance != b.AnnualLeaveBalance ||
		a.MonthlyLateAllowance != b.MonthlyLateAllowance ||
		a.TotalExtraHours != b.TotalExtraHours
}

// RefreshMonth replays every employee from the first day of the current
// month. Employees with no record yet this month get their full late
// allowance back. It returns how many employees' balances changed.
func (g *Gateway) RefreshMonth(ctx context.Context) (int, error) {
	emps, err := g.employees.List(ctx, employee.ListFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to list employees: %w", err)
	}

	start := g.monthStart()
	changed := 0
	for _, e := range emps {
		after, err := g.Mutate(ctx, e.Code, func(context.Context, employee.Employee) (time.Time, bool, error) {
			return start, true, nil
		})
		if err != nil {
			return changed, fmt.Errorf("failed to refresh employee %s: %w", e.Code, err)
		}
		if after.BalanceVersion != e.BalanceVersion {
			changed++
		}
	}
	return changed, nil
}
