package attendance

import "errors"

// Attendance domain errors
var (
	ErrRecordNotFound           = errors.New("attendance record not found")
	ErrInsufficientLeaveBalance = errors.New("insufficient leave balance")
	ErrUnsupportedFileType      = errors.New("unsupported file type: only .xlsx, .xlsm and .csv are accepted")
	ErrEmptyUpload              = errors.New("uploaded file contains no attendance rows")
	ErrMissingColumns           = errors.New("uploaded file must contain 'No.' and 'Date/Time' columns")
	ErrInvalidClock             = errors.New("time must be in HH:MM format")
)
