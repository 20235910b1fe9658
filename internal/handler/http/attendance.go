package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	AssignLeave(w http.ResponseWriter, r *http.Request)
	AssignOfficialLeave(w http.ResponseWriter, r *http.Request)
	DeleteAll(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	payrollService    payroll.PayrollService
	maxUploadBytes    int64
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, payrollService payroll.PayrollService, maxUploadBytes int64) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		payrollService:    payrollService,
		maxUploadBytes:    maxUploadBytes,
	}
}

// Upload implements AttendanceHandler.
func (h *attendanceHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart envelope around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RequestTooLarge(w, "Attendance file exceeds the maximum upload size")
			return
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Attendance file is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	req := attendance.UploadRequest{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		MaxBytes: h.maxUploadBytes,
		File:     file,
	}

	result, err := h.attendanceService.Upload(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance file processed", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	result, err := h.payrollService.Overview(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	h.update(w, r, req)
}

// Upsert implements AttendanceHandler.
func (h *attendanceHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	h.update(w, r, req)
}

func (h *attendanceHandlerImpl) update(w http.ResponseWriter, r *http.Request, req attendance.UpdateAttendanceRequest) {
	result, err := h.attendanceService.UpdateAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated", result)
}

// AssignLeave implements AttendanceHandler.
func (h *attendanceHandlerImpl) AssignLeave(w http.ResponseWriter, r *http.Request) {
	var req attendance.BulkLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.AssignLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave assigned", result)
}

// AssignOfficialLeave implements AttendanceHandler.
func (h *attendanceHandlerImpl) AssignOfficialLeave(w http.ResponseWriter, r *http.Request) {
	var req attendance.BulkLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.AssignOfficialLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Official leave assigned", result)
}

// DeleteAll implements AttendanceHandler.
func (h *attendanceHandlerImpl) DeleteAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.DeleteAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "All attendance records deleted", result)
}

func filterFromQuery(r *http.Request) attendance.AttendanceFilter {
	var filter attendance.AttendanceFilter
	q := r.URL.Query()

	if code := q.Get("employee_code"); code != "" {
		filter.EmployeeCode = &code
	}
	if startDate := q.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := q.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	if shiftType := q.Get("shift_type"); shiftType != "" {
		filter.ShiftType = &shiftType
	}

	return filter
}
