package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// AllowanceRefresher restores each employee's monthly late allowance once
// the current month has no record for them yet.
type AllowanceRefresher interface {
	RefreshMonth(ctx context.Context) (int, error)
}

type AttendanceJobs struct {
	refresher AllowanceRefresher
	location  *time.Location
	now       func() time.Time
}

func NewAttendanceJobs(refresher AllowanceRefresher, location *time.Location) *AttendanceJobs {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceJobs{
		refresher: refresher,
		location:  location,
		now:       time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reset_monthly_late_allowance", 1*time.Hour, j.ResetMonthlyLateAllowance)
}

// ResetMonthlyLateAllowance runs on the first day of the month in the
// attendance time zone and is a no-op on every other day.
func (j *AttendanceJobs) ResetMonthlyLateAllowance(ctx context.Context) error {
	today := j.now().In(j.location)
	if today.Day() != 1 {
		return nil
	}

	slog.Info("Cron: Starting monthly late allowance reset", "month", today.Format("2006-01"))

	changed, err := j.refresher.RefreshMonth(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset monthly late allowance: %w", err)
	}

	slog.Info("Cron: Monthly late allowance reset completed", "employees_updated", changed)
	return nil
}
