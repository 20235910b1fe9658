package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/file"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/policy"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	gateway     *Gateway
	fileService file.FileService
	location    *time.Location
}

// NewAttendanceService returns the concrete service; it also serves record
// timelines to the payroll service.
func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	gateway *Gateway,
	fileService file.FileService,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		gateway:              gateway,
		fileService:          fileService,
		location:             gateway.location,
	}
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.RecordResponse, error) {
	rec, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return attendance.NewRecordResponse(rec), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	var code string
	if req.ID != "" {
		rec, err := s.AttendanceRepository.GetByID(ctx, req.ID)
		if err != nil {
			return attendance.RecordResponse{}, err
		}
		code = rec.EmployeeCode
	} else {
		code = *req.EmployeeCode
	}

	var recordID string
	_, err := s.gateway.Mutate(ctx, code, func(ctx context.Context, emp employee.Employee) (time.Time, bool, error) {
		var (
			rec     attendance.Record
			existed bool
			err     error
		)
		if req.ID != "" {
			rec, err = s.AttendanceRepository.GetByID(ctx, req.ID)
			existed = true
		} else {
			rec, existed, err = s.recordForDay(ctx, emp, *req.ParsedDate)
		}
		if err != nil {
			return time.Time{}, false, err
		}

		applyClock(&rec.CheckIn, req.CheckIn)
		if req.CheckOut != nil {
			applyClock(&rec.CheckOut, req.CheckOut)
			if rec.CheckOut == nil || rec.ShiftType != attendance.Shift24x24 {
				rec.CheckOutDate = nil
			}
		}

		if kind, ok := leaveKindOf(req); ok {
			effect := policy.LeaveEffectOf(kind, emp.BaseSalary)
			available := emp.AnnualLeaveBalance
			if rec.Status.IsFrozen() {
				available += rec.LeaveDaysConsumed
			}
			if effect.DaysConsumed > available {
				return time.Time{}, false, fmt.Errorf("%w: %s needs %.2f days, has %.2f",
					attendance.ErrInsufficientLeaveBalance, emp.Code, effect.DaysConsumed, available)
			}
			effect.Apply(&rec)
		} else if rec.Status.IsFrozen() && (req.CheckIn != nil || req.CheckOut != nil) {
			// Punch edits on a leave day return it to derivation.
			rec.ResetDerived()
			rec.Status = attendance.StatusPresent
			if !rec.HasPunch() {
				rec.Status = policy.CalculateStatus(rec.Date, rec.WorkingDays, rec.ShiftType)
			}
		}

		if err := s.saveRecord(ctx, &rec, existed); err != nil {
			return time.Time{}, false, err
		}
		recordID = rec.ID
		return rec.Date, true, nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	rec, err := s.AttendanceRepository.GetByID(ctx, recordID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return attendance.NewRecordResponse(rec), nil
}

// applyClock sets a punch from an edit: nil keeps it, "" clears it.
func applyClock(dst **string, value *string) {
	if value == nil {
		return
	}
	if *value == "" {
		*dst = nil
		return
	}
	v := *value
	*dst = &v
}

// leaveKindOf resolves the leave an edit asks for, from the flags first and
// then from a leave status.
func leaveKindOf(req attendance.UpdateAttendanceRequest) (policy.LeaveKind, bool) {
	switch {
	case req.IsLeaveCompensation:
		return policy.LeaveCompensation, true
	case req.IsMedicalLeave:
		return policy.LeaveMedical, true
	case req.IsAnnualLeave:
		return policy.LeaveAnnual, true
	}
	if req.Status == nil {
		return "", false
	}
	switch attendance.Status(*req.Status) {
	case attendance.StatusLeave:
		return policy.LeaveAnnual, true
	case attendance.StatusMedicalLeave:
		return policy.LeaveMedical, true
	case attendance.StatusOfficialLeave:
		return policy.LeaveOfficial, true
	}
	return "", false
}

// AssignLeave implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AssignLeave(ctx context.Context, req attendance.BulkLeaveRequest) (attendance.BulkLeaveResult, error) {
	kind := policy.LeaveAnnual
	if req.IsMedicalLeave {
		kind = policy.LeaveMedical
	}
	return s.assignLeave(ctx, req, kind)
}

// AssignOfficialLeave implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AssignOfficialLeave(ctx context.Context, req attendance.BulkLeaveRequest) (attendance.BulkLeaveResult, error) {
	return s.assignLeave(ctx, req, policy.LeaveOfficial)
}

func (s *AttendanceServiceImpl) assignLeave(ctx context.Context, req attendance.BulkLeaveRequest, kind policy.LeaveKind) (attendance.BulkLeaveResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkLeaveResult{}, err
	}

	var targets []employee.Employee
	if req.ApplyToAll {
		emps, err := s.EmployeeRepository.List(ctx, employee.ListFilter{})
		if err != nil {
			return attendance.BulkLeaveResult{}, fmt.Errorf("failed to list employees: %w", err)
		}
		targets = emps
	} else {
		emp, err := s.EmployeeRepository.GetByCode(ctx, *req.EmployeeCode)
		if err != nil {
			return attendance.BulkLeaveResult{}, err
		}
		targets = []employee.Employee{emp}
	}

	days := datesBetween(req.From, req.To)
	result := attendance.BulkLeaveResult{Employees: []string{}, Days: len(days)}

	// Nothing is written unless every target can afford the whole range.
	for _, emp := range targets {
		if err := s.checkLeaveBalance(ctx, emp, kind, req.From, req.To, len(days)); err != nil {
			return attendance.BulkLeaveResult{}, err
		}
	}

	for _, emp := range targets {
		touched := 0
		_, err := s.gateway.Mutate(ctx, emp.Code, func(ctx context.Context, emp employee.Employee) (time.Time, bool, error) {
			if err := s.checkLeaveBalance(ctx, emp, kind, req.From, req.To, len(days)); err != nil {
				return time.Time{}, false, err
			}
			effect := policy.LeaveEffectOf(kind, emp.BaseSalary)
			for _, day := range days {
				rec, existed, err := s.recordForDay(ctx, emp, day)
				if err != nil {
					return time.Time{}, false, err
				}
				effect.Apply(&rec)
				if err := s.saveRecord(ctx, &rec, existed); err != nil {
					return time.Time{}, false, err
				}
				touched++
			}
			return req.From, true, nil
		})
		if err != nil {
			return result, fmt.Errorf("failed to assign leave to employee %s: %w", emp.Code, err)
		}
		result.Employees = append(result.Employees, emp.Code)
		result.RecordsTouched += touched
	}

	slog.Info("Leave assigned",
		"kind", kind,
		"employees", len(result.Employees),
		"from", req.From.Format(time.DateOnly),
		"to", req.To.Format(time.DateOnly),
		"records_touched", result.RecordsTouched,
	)
	return result, nil
}

// checkLeaveBalance fails when the range needs more annual leave than the
// employee has, crediting back leave already stored on those days.
func (s *AttendanceServiceImpl) checkLeaveBalance(ctx context.Context, emp employee.Employee, kind policy.LeaveKind, from, to time.Time, days int) error {
	perDay := policy.LeaveEffectOf(kind, emp.BaseSalary).DaysConsumed
	if perDay == 0 {
		return nil
	}

	code := emp.Code
	existing, err := s.AttendanceRepository.List(ctx, attendance.AttendanceFilter{EmployeeCode: &code, From: &from, To: &to})
	if err != nil {
		return fmt.Errorf("failed to load records in leave range: %w", err)
	}
	credited := 0.0
	for _, r := range existing {
		if r.Status.IsFrozen() {
			credited += r.LeaveDaysConsumed
		}
	}

	needed := perDay*float64(days) - credited
	available := emp.AnnualLeaveBalance
	if needed > available {
		return fmt.Errorf("%w: %s needs %.2f days, has %.2f",
			attendance.ErrInsufficientLeaveBalance, emp.Code, needed, available)
	}
	return nil
}

// DeleteAll implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAll(ctx context.Context) (attendance.DeleteAllResult, error) {
	deleted, err := s.AttendanceRepository.DeleteAll(ctx)
	if err != nil {
		return attendance.DeleteAllResult{}, fmt.Errorf("failed to delete attendance records: %w", err)
	}

	emps, err := s.EmployeeRepository.List(ctx, employee.ListFilter{})
	if err != nil {
		return attendance.DeleteAllResult{}, fmt.Errorf("failed to list employees: %w", err)
	}

	result := attendance.DeleteAllResult{RecordsDeleted: deleted}
	for _, emp := range emps {
		if _, err := s.gateway.Mutate(ctx, emp.Code, replayAll); err != nil {
			return result, fmt.Errorf("failed to reset balances for employee %s: %w", emp.Code, err)
		}
		result.EmployeesReset++
	}

	slog.Warn("All attendance records deleted", "records", deleted, "employees_reset", result.EmployeesReset)
	return result, nil
}

func replayAll(context.Context, employee.Employee) (time.Time, bool, error) {
	return ReplayAll, true, nil
}

// datesBetween lists every day from..to inclusive.
func datesBetween(from, to time.Time) []time.Time {
	from, to = attendance.DateOf(from), attendance.DateOf(to)
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
