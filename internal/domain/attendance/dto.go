package attendance

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxLeaveRangeDays bounds a single bulk leave assignment.
const MaxLeaveRangeDays = 366

// ========================================
// FILTER
// ========================================

type AttendanceFilter struct {
	EmployeeCode *string `json:"employee_code,omitempty"`
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	ShiftType    *string `json:"shift_type,omitempty"`

	// Set by Validate
	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeCode != nil && *f.EmployeeCode != "" && !validator.IsValidEmployeeCode(*f.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code is invalid",
		})
	}

	if f.ShiftType != nil && *f.ShiftType != "" && !ShiftType(*f.ShiftType).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_type",
			Message: "shift_type must be one of: administrative, dayStation, nightStation, 24/24",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if d, valid := validator.IsValidDate(*f.StartDate); valid {
			f.From = &d
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if d, valid := validator.IsValidDate(*f.EndDate); valid {
			f.To = &d
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.From != nil && f.To != nil {
		if f.To.Before(*f.From) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if DaysBetween(*f.From, *f.To) > MaxLeaveRangeDays {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "date range must not exceed 366 days",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateRange is Validate plus a mandatory start/end pair.
func (f *AttendanceFilter) ValidateRange() error {
	if err := f.Validate(); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if f.From == nil {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date is required"})
	}
	if f.To == nil {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasRange reports whether both ends of the date range are set.
func (f AttendanceFilter) HasRange() bool {
	return f.From != nil && f.To != nil
}

// ========================================
// UPLOAD
// ========================================

type UploadRequest struct {
	Filename string
	Size     int64
	MaxBytes int64
	File     io.Reader
}

// Extension returns the lower-cased file extension including the dot.
func (r UploadRequest) Extension() string {
	return strings.ToLower(filepath.Ext(r.Filename))
}

func (r *UploadRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.File == nil || validator.IsEmpty(r.Filename) {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "attendance file is required",
		})
	} else if r.MaxBytes > 0 && r.Size > r.MaxBytes {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "attendance file exceeds the maximum upload size",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	switch r.Extension() {
	case ".xlsx", ".xlsm", ".csv":
		return nil
	default:
		return ErrUnsupportedFileType
	}
}

type UploadResult struct {
	RowsRead             int      `json:"rows_read"`
	RowsSkipped          int      `json:"rows_skipped"`
	DuplicatePunches     int      `json:"duplicate_punches"`
	EmployeesProcessed   int      `json:"employees_processed"`
	UnknownEmployeeCodes []string `json:"unknown_employee_codes"`
	RecordsTouched       int      `json:"records_touched"`
}

// ========================================
// EDIT
// ========================================

// UpdateAttendanceRequest edits a record by ID, or creates/edits the record
// for EmployeeCode+Date. An empty CheckIn/CheckOut clears that punch.
type UpdateAttendanceRequest struct {
	ID                  string  `json:"-"`
	EmployeeCode        *string `json:"employee_code,omitempty"`
	Date                *string `json:"date,omitempty"`
	CheckIn             *string `json:"check_in,omitempty"`
	CheckOut            *string `json:"check_out,omitempty"`
	Status              *string `json:"status,omitempty"`
	IsAnnualLeave       bool    `json:"is_annual_leave"`
	IsLeaveCompensation bool    `json:"is_leave_compensation"`
	IsMedicalLeave      bool    `json:"is_medical_leave"`

	// Set by Validate when Date is given
	ParsedDate *time.Time `json:"-"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		if r.EmployeeCode == nil || !validator.IsValidEmployeeCode(*r.EmployeeCode) {
			errs = append(errs, validator.ValidationError{
				Field:   "employee_code",
				Message: "employee_code is required when no record id is given",
			})
		}
		if r.Date == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date is required when no record id is given",
			})
		}
	}

	if r.Date != nil {
		if d, valid := validator.IsValidDate(*r.Date); valid {
			r.ParsedDate = &d
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.CheckIn != nil && *r.CheckIn != "" && !validator.IsValidClock(*r.CheckIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in",
			Message: ErrInvalidClock.Error(),
		})
	}
	if r.CheckOut != nil && *r.CheckOut != "" && !validator.IsValidClock(*r.CheckOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out",
			Message: ErrInvalidClock.Error(),
		})
	}

	// present, absent and weekly_off are derived from punches and the
	// calendar, so only the leave statuses can be set by hand.
	if r.Status != nil && !Status(*r.Status).IsFrozen() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: leave, official_leave, medical_leave",
		})
	}

	flags := 0
	for _, f := range []bool{r.IsAnnualLeave, r.IsLeaveCompensation, r.IsMedicalLeave} {
		if f {
			flags++
		}
	}
	if flags > 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "is_annual_leave",
			Message: "is_annual_leave, is_leave_compensation and is_medical_leave are mutually exclusive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// BULK LEAVE
// ========================================

type BulkLeaveRequest struct {
	EmployeeCode   *string `json:"employee_code,omitempty"`
	ApplyToAll     bool    `json:"apply_to_all"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	IsMedicalLeave bool    `json:"is_medical_leave"`

	// Set by Validate
	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

func (r *BulkLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	hasCode := r.EmployeeCode != nil && !validator.IsEmpty(*r.EmployeeCode)
	if hasCode == r.ApplyToAll {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "exactly one of employee_code or apply_to_all must be given",
		})
	} else if hasCode && !validator.IsValidEmployeeCode(*r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code is invalid",
		})
	}

	from, okFrom := validator.IsValidDate(r.StartDate)
	if !okFrom {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	to, okTo := validator.IsValidDate(r.EndDate)
	if !okTo {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if okFrom && okTo {
		if to.Before(from) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if DaysBetween(from, to) > MaxLeaveRangeDays {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "leave range must not exceed 366 days",
			})
		}
		r.From, r.To = from, to
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DaysBetween counts calendar days from..to inclusive.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours()/24) + 1
}

type BulkLeaveResult struct {
	Employees      []string `json:"employees"`
	Days           int      `json:"days"`
	RecordsTouched int      `json:"records_touched"`
}

// ========================================
// RESPONSES
// ========================================

type RecordResponse struct {
	ID                     string          `json:"id,omitempty"`
	EmployeeCode           string          `json:"employee_code"`
	EmployeeName           string          `json:"employee_name"`
	Date                   string          `json:"date"`
	CheckIn                *string         `json:"check_in"`
	CheckOut               *string         `json:"check_out"`
	CheckOutDate           *string         `json:"check_out_date,omitempty"`
	Status                 Status          `json:"status"`
	ShiftType              ShiftType       `json:"shift_type"`
	WorkingDays            WorkingDays     `json:"working_days"`
	LateMinutes            int             `json:"late_minutes"`
	DeductedDays           float64         `json:"deducted_days"`
	CalculatedWorkDays     int             `json:"calculated_work_days"`
	WorkHours              float64         `json:"work_hours"`
	ExtraHours             float64         `json:"extra_hours"`
	ExtraHoursCompensation decimal.Decimal `json:"extra_hours_compensation"`
	HoursDeduction         float64         `json:"hours_deduction"`
	FridayBonus            decimal.Decimal `json:"friday_bonus"`
	LeaveCompensation      decimal.Decimal `json:"leave_compensation"`
	MedicalLeaveDeduction  decimal.Decimal `json:"medical_leave_deduction"`
	AnnualLeaveBalance     float64         `json:"annual_leave_balance"`
	MonthlyLateAllowance   int             `json:"monthly_late_allowance"`
	TotalExtraHours        float64         `json:"total_extra_hours"`
	Persisted              bool            `json:"persisted"`
}

// NewRecordResponse maps a record for output. Records without an ID are
// synthesized defaults that were never stored.
func NewRecordResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:                     r.ID,
		EmployeeCode:           r.EmployeeCode,
		EmployeeName:           r.EmployeeName,
		Date:                   r.Date.Format("2006-01-02"),
		CheckIn:                r.CheckIn,
		CheckOut:               r.CheckOut,
		Status:                 r.Status,
		ShiftType:              r.ShiftType,
		WorkingDays:            r.WorkingDays,
		LateMinutes:            r.LateMinutes,
		DeductedDays:           r.DeductedDays,
		CalculatedWorkDays:     r.CalculatedWorkDays,
		WorkHours:              r.WorkHours,
		ExtraHours:             r.ExtraHours,
		ExtraHoursCompensation: r.ExtraHoursCompensation.Round(2),
		HoursDeduction:         r.HoursDeduction,
		FridayBonus:            r.FridayBonus.Round(2),
		LeaveCompensation:      r.LeaveCompensation.Round(2),
		MedicalLeaveDeduction:  r.MedicalLeaveDeduction.Round(2),
		AnnualLeaveBalance:     r.AnnualLeaveBalance,
		MonthlyLateAllowance:   r.MonthlyLateAllowance,
		TotalExtraHours:        r.TotalExtraHours,
		Persisted:              r.ID != "",
	}
	if r.CheckOutDate != nil {
		s := r.CheckOutDate.Format("2006-01-02")
		resp.CheckOutDate = &s
	}
	return resp
}

type DeleteAllResult struct {
	RecordsDeleted int64 `json:"records_deleted"`
	EmployeesReset int   `json:"employees_reset"`
}
