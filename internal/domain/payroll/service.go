package payroll

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

// TimelineSource loads per-employee record timelines. With persistGaps the
// synthesized default rows are written through the balance cascade first.
type TimelineSource interface {
	Timelines(ctx context.Context, filter attendance.AttendanceFilter, persistGaps bool) ([]Timeline, error)
}

type PayrollService interface {
	// Overview returns records plus per-employee summaries without writing anything
	Overview(ctx context.Context, filter attendance.AttendanceFilter) (OverviewResponse, error)

	// GenerateReport persists gap rows, then folds each employee into a net salary
	GenerateReport(ctx context.Context, filter attendance.AttendanceFilter) (ReportResponse, error)
}
