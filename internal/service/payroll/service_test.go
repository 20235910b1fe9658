package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	timelines   []payroll.Timeline
	err         error
	persistGaps []bool
}

func (s *stubSource) Timelines(ctx context.Context, filter attendance.AttendanceFilter, persistGaps bool) ([]payroll.Timeline, error) {
	s.persistGaps = append(s.persistGaps, persistGaps)
	return s.timelines, s.err
}

func strPtr(s string) *string {
	return &s
}

func TestPayrollService_Overview(t *testing.T) {
	// Setup
	present := day(4, attendance.StatusPresent)
	present.ID = "rec-1"
	source := &stubSource{timelines: []payroll.Timeline{{
		Employee: testEmployee(attendance.ShiftAdministrative),
		Records:  []attendance.Record{present, day(5, attendance.StatusAbsent)},
	}}}
	svc := NewPayrollService(source, NewAggregator(policy.NewShiftPolicy(9)))

	// Act
	resp, err := svc.Overview(context.Background(), attendance.AttendanceFilter{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, source.persistGaps)
	require.Len(t, resp.Records, 2)
	assert.True(t, resp.Records[0].Persisted)
	assert.False(t, resp.Records[1].Persisted)
	require.Len(t, resp.Summaries, 1)
	assert.Equal(t, 1, resp.Summaries[0].PresentDays)
	assert.Equal(t, 1, resp.Summaries[0].AbsentDays)
}

func TestPayrollService_GenerateReport(t *testing.T) {
	// Setup
	second := testEmployee(attendance.ShiftAdministrative)
	second.Code = "2"
	source := &stubSource{timelines: []payroll.Timeline{
		{Employee: testEmployee(attendance.ShiftAdministrative)},
		{Employee: second},
	}}
	svc := NewPayrollService(source, NewAggregator(policy.NewShiftPolicy(9)))
	filter := attendance.AttendanceFilter{StartDate: strPtr("2024-03-01"), EndDate: strPtr("2024-03-31")}

	// Act
	resp, err := svc.GenerateReport(context.Background(), filter)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, source.persistGaps)
	assert.Equal(t, "2024-03-01", resp.StartDate)
	assert.Equal(t, "2024-03-31", resp.EndDate)
	require.Len(t, resp.Employees, 2)
	assert.True(t, decimal.NewFromInt(59000).Equal(resp.TotalNetSalary), "total %s", resp.TotalNetSalary)
}

func TestPayrollService_GenerateReport_RequiresRange(t *testing.T) {
	// Setup
	source := &stubSource{}
	svc := NewPayrollService(source, NewAggregator(policy.NewShiftPolicy(9)))

	// Act
	_, err := svc.GenerateReport(context.Background(), attendance.AttendanceFilter{StartDate: strPtr("2024-03-01")})

	// Assert
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
	assert.Empty(t, source.persistGaps)
}

func TestPayrollService_GenerateReport_NoEmployees(t *testing.T) {
	// Setup
	svc := NewPayrollService(&stubSource{}, NewAggregator(policy.NewShiftPolicy(9)))
	filter := attendance.AttendanceFilter{StartDate: strPtr("2024-03-01"), EndDate: strPtr("2024-03-31")}

	// Act
	_, err := svc.GenerateReport(context.Background(), filter)

	// Assert
	assert.ErrorIs(t, err, payroll.ErrNoEmployees)
}
