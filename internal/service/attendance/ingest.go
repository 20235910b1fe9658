package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/policy"
	"github.com/shopspring/decimal"
)

// A lone punch before noon is a check-in, otherwise a check-out.
const singlePunchCutoff = 12 * 60

// Upload implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Upload(ctx context.Context, req attendance.UploadRequest) (attendance.UploadResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.UploadResult{}, err
	}

	path, err := s.fileService.StageAttendanceExport(ctx, req.File, req.Filename)
	if err != nil {
		return attendance.UploadResult{}, err
	}
	defer func() {
		if err := s.fileService.DeleteFile(context.WithoutCancel(ctx), path); err != nil {
			slog.Warn("Failed to delete staged attendance export", "path", path, "error", err)
		}
	}()

	staged, err := s.fileService.OpenFile(ctx, path)
	if err != nil {
		return attendance.UploadResult{}, fmt.Errorf("failed to open staged export: %w", err)
	}
	defer staged.Close()

	parsed, err := ReadPunches(staged, req.Extension(), s.location)
	if err != nil {
		return attendance.UploadResult{}, err
	}

	result := attendance.UploadResult{
		RowsRead:             parsed.RowsRead,
		RowsSkipped:          parsed.RowsSkipped,
		UnknownEmployeeCodes: []string{},
	}

	groups, duplicates := groupPunches(parsed.Punches)
	result.DuplicatePunches = duplicates

	codes := make([]string, 0, len(groups))
	for code := range groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		punches := groups[code]
		touched := 0
		_, err := s.gateway.Mutate(ctx, code, func(ctx context.Context, emp employee.Employee) (time.Time, bool, error) {
			from, n, err := s.ingestEmployee(ctx, emp, punches)
			touched = n
			return from, n > 0, err
		})
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			slog.Warn("Skipping punches for unknown employee", "employee_code", code, "punches", len(punches))
			result.UnknownEmployeeCodes = append(result.UnknownEmployeeCodes, code)
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to ingest punches for employee %s: %w", code, err)
		}
		result.EmployeesProcessed++
		result.RecordsTouched += touched
	}

	slog.Info("Attendance upload processed",
		"filename", req.Filename,
		"rows_read", result.RowsRead,
		"rows_skipped", result.RowsSkipped,
		"duplicate_punches", result.DuplicatePunches,
		"employees", result.EmployeesProcessed,
		"unknown_employees", len(result.UnknownEmployeeCodes),
		"records_touched", result.RecordsTouched,
	)

	return result, nil
}

// groupPunches buckets punches per employee in time order and drops exact
// repeats of the same minute.
func groupPunches(punches []Punch) (map[string][]time.Time, int) {
	type key struct {
		code string
		at   int64
	}
	seen := make(map[key]struct{}, len(punches))
	groups := make(map[string][]time.Time)
	duplicates := 0

	for _, p := range punches {
		k := key{code: p.Code, at: p.At.Unix()}
		if _, ok := seen[k]; ok {
			duplicates++
			continue
		}
		seen[k] = struct{}{}
		groups[p.Code] = append(groups[p.Code], p.At)
	}

	for code := range groups {
		sort.Slice(groups[code], func(i, j int) bool { return groups[code][i].Before(groups[code][j]) })
	}
	return groups, duplicates
}

// ingestEmployee writes one employee's punches and returns the earliest
// date it changed along with the number of records written.
func (s *AttendanceServiceImpl) ingestEmployee(ctx context.Context, emp employee.Employee, punches []time.Time) (time.Time, int, error) {
	if emp.ShiftType == attendance.Shift24x24 {
		return s.ingestPairs(ctx, emp, punches)
	}
	return s.ingestDays(ctx, emp, punches)
}

// ingestDays groups punches by calendar day: first is check-in, last is
// check-out, and a lone punch is classified by the noon cutoff.
func (s *AttendanceServiceImpl) ingestDays(ctx context.Context, emp employee.Employee, punches []time.Time) (time.Time, int, error) {
	var days []time.Time
	byDay := make(map[time.Time][]time.Time)
	for _, p := range punches {
		d := attendance.DateOf(p)
		if _, ok := byDay[d]; !ok {
			days = append(days, d)
		}
		byDay[d] = append(byDay[d], p)
	}

	var from time.Time
	touched := 0
	for _, day := range days {
		ps := byDay[day]
		var checkIn, checkOut *string
		if len(ps) == 1 {
			clock := clockString(ps[0])
			if ps[0].Hour()*60+ps[0].Minute() < singlePunchCutoff {
				checkIn = &clock
			} else {
				checkOut = &clock
			}
		} else {
			in, out := clockString(ps[0]), clockString(ps[len(ps)-1])
			checkIn, checkOut = &in, &out
		}

		rec, existed, err := s.recordForDay(ctx, emp, day)
		if err != nil {
			return time.Time{}, 0, err
		}
		if rec.Status.IsFrozen() {
			slog.Info("Keeping leave day over uploaded punches", "employee_code", emp.Code, "date", day.Format(time.DateOnly), "status", rec.Status)
			continue
		}

		if checkIn != nil {
			rec.CheckIn = checkIn
		}
		if checkOut != nil {
			rec.CheckOut = checkOut
		}
		rec.CheckOutDate = nil

		if err := s.saveRecord(ctx, &rec, existed); err != nil {
			return time.Time{}, 0, err
		}
		touched++
		if from.IsZero() || day.Before(from) {
			from = day
		}
	}
	return from, touched, nil
}

// ingestPairs pairs a 24/24 employee's punches, resuming from the latest
// stored record when its span is still open.
func (s *AttendanceServiceImpl) ingestPairs(ctx context.Context, emp employee.Employee, punches []time.Time) (time.Time, int, error) {
	latest, err := s.AttendanceRepository.GetLatest(ctx, emp.Code)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("failed to load latest record: %w", err)
	}

	var resumeSince *time.Time
	if latest != nil && isOpenSpan(*latest) {
		in, err := s.combine(latest.Date, *latest.CheckIn)
		if err != nil {
			return time.Time{}, 0, err
		}
		resumeSince = &in
	}

	var from time.Time
	touched := 0
	mark := func(d time.Time) {
		touched++
		if from.IsZero() || d.Before(from) {
			from = d
		}
	}

	// Punches before an open span are a backdated export: they pair on their
	// own, skipping instants the stored rows already hold.
	var earlier []time.Time
	later := punches
	if resumeSince != nil {
		later = nil
		for _, p := range punches {
			switch {
			case p.Before(*resumeSince):
				earlier = append(earlier, p)
			case p.After(*resumeSince):
				later = append(later, p)
			}
		}
	}
	if len(earlier) > 0 {
		known, err := s.storedPunches(ctx, emp.Code, attendance.DateOf(earlier[0]).AddDate(0, 0, -1))
		if err != nil {
			return time.Time{}, 0, err
		}
		fresh := earlier[:0]
		for _, p := range earlier {
			if !known[p.Unix()] {
				fresh = append(fresh, p)
			}
		}
		earlier = fresh
	}

	spans := Pair24(earlier, nil)
	spans = append(spans, Pair24(later, resumeSince)...)
	for _, span := range spans {
		if span.Resumed {
			rec := *latest
			out := clockString(*span.Out)
			outDate := attendance.DateOf(*span.Out)
			rec.CheckOut = &out
			rec.CheckOutDate = &outDate
			if err := s.AttendanceRepository.Update(ctx, rec); err != nil {
				return time.Time{}, 0, fmt.Errorf("failed to close open span: %w", err)
			}
			mark(rec.Date)
			continue
		}

		day := attendance.DateOf(span.In)
		if latest != nil && resumeSince != nil && span.In.Before(*resumeSince) && day.Equal(latest.Date) {
			slog.Warn("Skipping punches before an open span on the same day", "employee_code", emp.Code, "date", day.Format(time.DateOnly))
			continue
		}
		rec, existed, err := s.recordForDay(ctx, emp, day)
		if err != nil {
			return time.Time{}, 0, err
		}
		if rec.Status.IsFrozen() {
			slog.Info("Keeping leave day over uploaded punches", "employee_code", emp.Code, "date", day.Format(time.DateOnly), "status", rec.Status)
			continue
		}

		// A pair defines both sides of the day.
		in := clockString(span.In)
		rec.CheckIn = &in
		rec.CheckOut = nil
		rec.CheckOutDate = nil
		if span.Out != nil {
			out := clockString(*span.Out)
			outDate := attendance.DateOf(*span.Out)
			rec.CheckOut = &out
			rec.CheckOutDate = &outDate
		}

		if err := s.saveRecord(ctx, &rec, existed); err != nil {
			return time.Time{}, 0, err
		}
		mark(day)
	}
	return from, touched, nil
}

// storedPunches returns the instants already held by the employee's rows
// dated on or after since, keyed by Unix seconds.
func (s *AttendanceServiceImpl) storedPunches(ctx context.Context, code string, since time.Time) (map[int64]bool, error) {
	rows, err := s.AttendanceRepository.ListByEmployeeFrom(ctx, code, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored punches: %w", err)
	}
	known := make(map[int64]bool, 2*len(rows))
	for _, r := range rows {
		if r.CheckIn != nil {
			if t, err := s.combine(r.Date, *r.CheckIn); err == nil {
				known[t.Unix()] = true
			}
		}
		if r.CheckOut != nil {
			outDate := r.Date
			if r.CheckOutDate != nil {
				outDate = *r.CheckOutDate
			}
			if t, err := s.combine(outDate, *r.CheckOut); err == nil {
				known[t.Unix()] = true
			}
		}
	}
	return known, nil
}

func isOpenSpan(r attendance.Record) bool {
	return r.ShiftType == attendance.Shift24x24 && r.CheckIn != nil && r.CheckOut == nil && !r.Status.IsFrozen()
}

// recordForDay returns the single row for an employee-day, collapsing
// duplicates, or a fresh unsaved record when there is none.
func (s *AttendanceServiceImpl) recordForDay(ctx context.Context, emp employee.Employee, day time.Time) (attendance.Record, bool, error) {
	existing, err := s.collapseDuplicates(ctx, emp.Code, day)
	if err != nil {
		return attendance.Record{}, false, err
	}
	if existing != nil {
		return *existing, true, nil
	}
	return newRecord(emp, day), false, nil
}

// collapseDuplicates keeps the oldest row of an employee-day and deletes the
// rest.
func (s *AttendanceServiceImpl) collapseDuplicates(ctx context.Context, code string, day time.Time) (*attendance.Record, error) {
	rows, err := s.AttendanceRepository.FindByEmployeeAndDate(ctx, code, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load records for %s: %w", day.Format(time.DateOnly), err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows) > 1 {
		ids := make([]string, 0, len(rows)-1)
		for _, r := range rows[1:] {
			ids = append(ids, r.ID)
		}
		if err := s.AttendanceRepository.DeleteByIDs(ctx, ids); err != nil {
			return nil, fmt.Errorf("failed to delete duplicate records: %w", err)
		}
		slog.Warn("Collapsed duplicate attendance records",
			"employee_code", code,
			"date", day.Format(time.DateOnly),
			"kept", rows[0].ID,
			"deleted", len(ids),
		)
	}
	return &rows[0], nil
}

func (s *AttendanceServiceImpl) saveRecord(ctx context.Context, rec *attendance.Record, existed bool) error {
	if existed {
		if err := s.AttendanceRepository.Update(ctx, *rec); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		return nil
	}
	created, err := s.AttendanceRepository.Create(ctx, *rec)
	if err != nil {
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	*rec = created
	return nil
}

// newRecord snapshots the employee onto a blank day. Derived fields are
// filled in by the replay.
func newRecord(emp employee.Employee, day time.Time) attendance.Record {
	return attendance.Record{
		EmployeeCode:           emp.Code,
		EmployeeName:           emp.DisplayName,
		Date:                   attendance.DateOf(day),
		Status:                 policy.CalculateStatus(day, emp.WorkingDays, emp.ShiftType),
		ShiftType:              emp.ShiftType,
		WorkingDays:            emp.WorkingDays,
		ExtraHoursCompensation: decimal.Zero,
		FridayBonus:            decimal.Zero,
		LeaveCompensation:      decimal.Zero,
		MedicalLeaveDeduction:  decimal.Zero,
	}
}

func clockString(t time.Time) string {
	return t.Format("15:04")
}

// combine places an HH:MM clock on a record date in the attendance zone.
func (s *AttendanceServiceImpl) combine(date time.Time, clock string) (time.Time, error) {
	minutes, err := policy.ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, s.location), nil
}
