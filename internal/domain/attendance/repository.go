package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
// Methods honour a transaction carried in ctx.
type AttendanceRepository interface {
	// Create inserts a record and returns it with ID and timestamps set
	Create(ctx context.Context, record Record) (Record, error)

	// Update persists every mutable column of an existing record
	Update(ctx context.Context, record Record) error

	GetByID(ctx context.Context, id string) (Record, error)

	// FindByEmployeeAndDate returns every row stored for the employee-day,
	// oldest first. More than one row means repeated uploads left duplicates.
	FindByEmployeeAndDate(ctx context.Context, employeeCode string, date time.Time) ([]Record, error)

	DeleteByIDs(ctx context.Context, ids []string) error

	// ListByEmployeeFrom returns records with date >= from, ascending by date
	ListByEmployeeFrom(ctx context.Context, employeeCode string, from time.Time) ([]Record, error)

	// GetLastBefore returns the latest record strictly before the given date, or nil
	GetLastBefore(ctx context.Context, employeeCode string, before time.Time) (*Record, error)

	// GetLatest returns the employee's most recent record, or nil
	GetLatest(ctx context.Context, employeeCode string) (*Record, error)

	// List returns records matching the filter, ascending by employee code then date
	List(ctx context.Context, filter AttendanceFilter) ([]Record, error)

	// DeleteAll removes every record (administrative reset)
	DeleteAll(ctx context.Context) (int64, error)
}
