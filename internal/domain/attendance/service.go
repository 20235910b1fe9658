package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations.
// Every mutation goes through the balance cascade for the employees it touches.
type AttendanceService interface {
	// Upload ingests a biometric export and replays each touched employee
	Upload(ctx context.Context, req UploadRequest) (UploadResult, error)

	// UpdateAttendance edits a record by id, or creates/edits by employee code and date
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (RecordResponse, error)

	// AssignLeave marks a date range as annual or medical leave, all-or-nothing on balance
	AssignLeave(ctx context.Context, req BulkLeaveRequest) (BulkLeaveResult, error)

	// AssignOfficialLeave marks a date range as official leave
	AssignOfficialLeave(ctx context.Context, req BulkLeaveRequest) (BulkLeaveResult, error)

	GetAttendance(ctx context.Context, id string) (RecordResponse, error)

	// DeleteAll removes every record and resets balances to their opening values
	DeleteAll(ctx context.Context) (DeleteAllResult, error)
}
