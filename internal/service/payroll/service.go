package payroll

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	source     payroll.TimelineSource
	aggregator Aggregator
}

func NewPayrollService(source payroll.TimelineSource, aggregator Aggregator) payroll.PayrollService {
	return &PayrollServiceImpl{
		source:     source,
		aggregator: aggregator,
	}
}

// Overview implements payroll.PayrollService.
func (s *PayrollServiceImpl) Overview(ctx context.Context, filter attendance.AttendanceFilter) (payroll.OverviewResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.OverviewResponse{}, err
	}

	timelines, err := s.source.Timelines(ctx, filter, false)
	if err != nil {
		return payroll.OverviewResponse{}, err
	}

	resp := payroll.OverviewResponse{
		Records:   []attendance.RecordResponse{},
		Summaries: make([]payroll.EmployeeSummaryResponse, 0, len(timelines)),
	}
	for _, t := range timelines {
		for _, r := range t.Records {
			resp.Records = append(resp.Records, attendance.NewRecordResponse(r))
		}
		resp.Summaries = append(resp.Summaries, payroll.NewEmployeeSummaryResponse(s.aggregator.Summarize(t)))
	}
	return resp, nil
}

// GenerateReport implements payroll.PayrollService.
func (s *PayrollServiceImpl) GenerateReport(ctx context.Context, filter attendance.AttendanceFilter) (payroll.ReportResponse, error) {
	if err := filter.ValidateRange(); err != nil {
		return payroll.ReportResponse{}, err
	}

	timelines, err := s.source.Timelines(ctx, filter, true)
	if err != nil {
		return payroll.ReportResponse{}, err
	}
	if len(timelines) == 0 {
		return payroll.ReportResponse{}, payroll.ErrNoEmployees
	}

	resp := payroll.ReportResponse{
		StartDate:      filter.From.Format(time.DateOnly),
		EndDate:        filter.To.Format(time.DateOnly),
		Employees:      make([]payroll.ReportLine, 0, len(timelines)),
		TotalNetSalary: decimal.Zero,
	}
	for _, t := range timelines {
		summary := s.aggregator.Summarize(t)
		resp.Employees = append(resp.Employees, payroll.ReportLine{
			Summary: payroll.NewEmployeeSummaryResponse(summary),
			Salary:  payroll.NewSalaryResponse(summary),
		})
		resp.TotalNetSalary = resp.TotalNetSalary.Add(summary.NetSalary)
	}
	resp.TotalNetSalary = resp.TotalNetSalary.Round(2)

	slog.Info("Payroll report generated",
		"start_date", resp.StartDate,
		"end_date", resp.EndDate,
		"employees", len(resp.Employees),
		"total_net_salary", resp.TotalNetSalary.String(),
	)
	return resp, nil
}
