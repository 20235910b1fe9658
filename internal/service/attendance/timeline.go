package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"golang.org/x/sync/errgroup"
)

// Timelines implements payroll.TimelineSource. Within a ranged filter every
// day without a record gets a default row; with persistGaps those rows are
// written through the gateway, otherwise they are synthesized for display.
func (s *AttendanceServiceImpl) Timelines(ctx context.Context, filter attendance.AttendanceFilter, persistGaps bool) ([]payroll.Timeline, error) {
	var (
		emps    []employee.Employee
		records []attendance.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		emps, err = s.EmployeeRepository.List(gctx, employee.ListFilter{Code: filter.EmployeeCode, ShiftType: filter.ShiftType})
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.AttendanceRepository.List(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to list attendance records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCode := groupByEmployee(records)

	if persistGaps && filter.HasRange() {
		persisted := false
		for _, emp := range emps {
			gaps := gapDates(byCode[emp.Code], *filter.From, *filter.To)
			if len(gaps) == 0 {
				continue
			}
			if _, err := s.gateway.Mutate(ctx, emp.Code, s.fillGaps(gaps)); err != nil {
				return nil, fmt.Errorf("failed to persist default rows for employee %s: %w", emp.Code, err)
			}
			persisted = true
		}
		if persisted {
			var err error
			records, err = s.AttendanceRepository.List(ctx, filter)
			if err != nil {
				return nil, fmt.Errorf("failed to reload attendance records: %w", err)
			}
			byCode = groupByEmployee(records)
		}
	}

	timelines := make([]payroll.Timeline, 0, len(emps))
	for _, emp := range emps {
		recs := byCode[emp.Code]
		if filter.HasRange() && !persistGaps {
			var err error
			recs, err = s.withDefaultRows(ctx, emp, recs, *filter.From, *filter.To)
			if err != nil {
				return nil, err
			}
		}
		timelines = append(timelines, payroll.Timeline{Employee: emp, Records: recs})
	}
	return timelines, nil
}

// fillGaps creates default rows on days that are still empty once the lock
// is held.
func (s *AttendanceServiceImpl) fillGaps(gaps []time.Time) Mutation {
	return func(ctx context.Context, emp employee.Employee) (time.Time, bool, error) {
		created := 0
		for _, day := range gaps {
			rows, err := s.AttendanceRepository.FindByEmployeeAndDate(ctx, emp.Code, day)
			if err != nil {
				return time.Time{}, false, fmt.Errorf("failed to load records for %s: %w", day.Format(time.DateOnly), err)
			}
			if len(rows) > 0 {
				continue
			}
			if _, err := s.AttendanceRepository.Create(ctx, newRecord(emp, day)); err != nil {
				return time.Time{}, false, fmt.Errorf("failed to create default record: %w", err)
			}
			created++
		}
		return gaps[0], created > 0, nil
	}
}

// withDefaultRows merges unsaved default rows into recs. Their balance
// snapshots carry the previous row's values.
func (s *AttendanceServiceImpl) withDefaultRows(ctx context.Context, emp employee.Employee, recs []attendance.Record, from, to time.Time) ([]attendance.Record, error) {
	gaps := gapDates(recs, from, to)
	if len(gaps) == 0 {
		return recs, nil
	}

	prev, err := s.AttendanceRepository.GetLastBefore(ctx, emp.Code, from)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous record: %w", err)
	}

	merged := make([]attendance.Record, 0, len(recs)+len(gaps))
	i := 0
	for _, day := range datesBetween(from, to) {
		placed := false
		for i < len(recs) && !recs[i].Date.After(day) {
			merged = append(merged, recs[i])
			prev = &merged[len(merged)-1]
			i++
			placed = true
		}
		if placed || !containsDate(gaps, day) {
			continue
		}

		row := newRecord(emp, day)
		row.AnnualLeaveBalance = emp.AnnualLeaveOpening
		row.MonthlyLateAllowance = emp.MonthlyLateQuota
		if prev != nil {
			row.AnnualLeaveBalance = prev.AnnualLeaveBalance
			if attendance.SameMonth(prev.Date, day) {
				row.MonthlyLateAllowance = prev.MonthlyLateAllowance
				if row.ShiftType == attendance.Shift24x24 {
					row.TotalExtraHours = prev.TotalExtraHours
				}
			}
		}
		merged = append(merged, row)
		prev = &merged[len(merged)-1]
	}
	merged = append(merged, recs[i:]...)
	return merged, nil
}

// gapDates lists days in from..to with no record, excluding days covered by
// a 24/24 span that started earlier.
func gapDates(recs []attendance.Record, from, to time.Time) []time.Time {
	covered := make(map[time.Time]struct{}, len(recs))
	for _, r := range recs {
		covered[r.Date] = struct{}{}
		if r.CheckOutDate != nil {
			for d := r.Date.AddDate(0, 0, 1); !d.After(attendance.DateOf(*r.CheckOutDate)); d = d.AddDate(0, 0, 1) {
				covered[d] = struct{}{}
			}
		}
	}

	var gaps []time.Time
	for _, d := range datesBetween(from, to) {
		if _, ok := covered[d]; !ok {
			gaps = append(gaps, d)
		}
	}
	return gaps
}

func containsDate(days []time.Time, day time.Time) bool {
	for _, d := range days {
		if d.Equal(day) {
			return true
		}
	}
	return false
}

func groupByEmployee(records []attendance.Record) map[string][]attendance.Record {
	byCode := make(map[string][]attendance.Record)
	for _, r := range records {
		byCode[r.EmployeeCode] = append(byCode[r.EmployeeCode], r)
	}
	return byCode
}
