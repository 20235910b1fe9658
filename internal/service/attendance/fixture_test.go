package attendance

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/file"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// countingRecords counts record updates so replays can be checked for
// writes they should not make.
type countingRecords struct {
	*memory.AttendanceRepository
	mu      sync.Mutex
	updates int
}

func (c *countingRecords) Update(ctx context.Context, r attendance.Record) error {
	c.mu.Lock()
	c.updates++
	c.mu.Unlock()
	return c.AttendanceRepository.Update(ctx, r)
}

func (c *countingRecords) resetUpdates() {
	c.mu.Lock()
	c.updates = 0
	c.mu.Unlock()
}

func (c *countingRecords) updateCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates
}

type fixture struct {
	svc       *AttendanceServiceImpl
	gateway   *Gateway
	records   *countingRecords
	employees *memory.EmployeeRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	records := &countingRecords{AttendanceRepository: memory.NewAttendanceRepository()}
	employees := memory.NewEmployeeRepository()

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	lateness, err := policy.NewLatenessLedger(policy.DefaultExpectedStart)
	require.NoError(t, err)

	gateway := NewGateway(memory.NewTransactor(), records, employees, policy.NewShiftPolicy(policy.DefaultNormalHours), lateness, time.UTC)
	gateway.now = func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) }

	return &fixture{
		svc:       NewAttendanceService(records, employees, gateway, file.NewFileService(store)),
		gateway:   gateway,
		records:   records,
		employees: employees,
	}
}

func (f *fixture) addEmployee(t *testing.T, code string, shift attendance.ShiftType, annualLeave float64) employee.Employee {
	t.Helper()
	emp, err := f.employees.Create(context.Background(), employee.Employee{
		Code:               code,
		DisplayName:        "Employee " + code,
		Department:         "Operations",
		BaseSalary:         decimal.NewFromInt(27000),
		ShiftType:          shift,
		WorkingDays:        attendance.SixDayWeek,
		MealAllowance:      decimal.NewFromInt(3000),
		MedicalInsurance:   decimal.Zero,
		SocialInsurance:    decimal.Zero,
		AnnualLeaveOpening: annualLeave,
		MonthlyLateQuota:   120,
	})
	require.NoError(t, err)
	return emp
}

func (f *fixture) uploadCSV(t *testing.T, lines ...string) attendance.UploadResult {
	t.Helper()
	body := "No.,Name,Date/Time\n" + strings.Join(lines, "\n") + "\n"
	result, err := f.svc.Upload(context.Background(), attendance.UploadRequest{
		Filename: "export.csv",
		Size:     int64(len(body)),
		MaxBytes: 10 << 20,
		File:     strings.NewReader(body),
	})
	require.NoError(t, err)
	return result
}

func (f *fixture) recordOn(t *testing.T, code string, date string) attendance.Record {
	t.Helper()
	d, err := time.Parse(time.DateOnly, date)
	require.NoError(t, err)
	rows, err := f.records.FindByEmployeeAndDate(context.Background(), code, d)
	require.NoError(t, err)
	require.Len(t, rows, 1, "records on %s", date)
	return rows[0]
}

func (f *fixture) allRecords(t *testing.T, code string) []attendance.Record {
	t.Helper()
	rows, err := f.records.List(context.Background(), attendance.AttendanceFilter{EmployeeCode: &code})
	require.NoError(t, err)
	return rows
}

func (f *fixture) employee(t *testing.T, code string) employee.Employee {
	t.Helper()
	emp, err := f.employees.GetByCode(context.Background(), code)
	require.NoError(t, err)
	return emp
}

func ptr[T any](v T) *T {
	return &v
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)
	return d
}
