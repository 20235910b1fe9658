package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/file"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestBalanceCascade_ConcurrentEditsOnPostgres(t *testing.T) {
	// Setup
	db := setupDB(t)
	seedEmployee(t, "1")
	records := postgresql.NewAttendanceRepository(db)
	employees := postgresql.NewEmployeeRepository(db)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	lateness, err := policy.NewLatenessLedger(policy.DefaultExpectedStart)
	require.NoError(t, err)
	gateway := attendanceService.NewGateway(postgresql.NewTransactor(db), records, employees,
		policy.NewShiftPolicy(policy.DefaultNormalHours), lateness, time.UTC)
	svc := attendanceService.NewAttendanceService(records, employees, gateway, file.NewFileService(store))
	ctx := context.Background()

	// Act: four late days edited concurrently, 30 minutes each
	var g errgroup.Group
	for _, d := range []string{"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07"} {
		g.Go(func() error {
			_, err := svc.UpdateAttendance(ctx, attendance.UpdateAttendanceRequest{
				EmployeeCode: ptr("1"),
				Date:         ptr(d),
				CheckIn:      ptr("09:00"),
				CheckOut:     ptr("18:00"),
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	// Assert
	rows, err := records.ListByEmployeeFrom(ctx, "1", day("2024-03-01"))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	allowances := make([]int, 0, len(rows))
	for _, r := range rows {
		assert.Equal(t, 30, r.LateMinutes)
		allowances = append(allowances, r.MonthlyLateAllowance)
	}
	assert.Equal(t, []int{90, 60, 30, 0}, allowances)

	emp, err := employees.GetByCode(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 120, emp.MonthlyLateAllowance, "last record is in an earlier month, so the quota applies now")
}
