package postgresql_test

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testDB is shared by every test in the package; nil when Docker is
// unavailable or -short is set.
var testDB *database.DB

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("hris_attendance_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		slog.Warn("Postgres container unavailable, skipping repository tests", "error", err)
		os.Exit(m.Run())
	}

	code := func() int {
		defer func() {
			if err := testcontainers.TerminateContainer(container); err != nil {
				slog.Error("Failed to terminate postgres container", "error", err)
			}
		}()

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			slog.Error("Failed to get connection string", "error", err)
			return 1
		}
		testDB, err = database.NewPostgreSQLDB(ctx, dsn)
		if err != nil {
			slog.Error("Failed to connect to test database", "error", err)
			return 1
		}
		defer testDB.Close()

		if err := database.Migrate(ctx, testDB); err != nil {
			slog.Error("Failed to migrate test database", "error", err)
			return 1
		}
		return m.Run()
	}()
	os.Exit(code)
}

// setupDB skips the test without a database and truncates every table.
func setupDB(t *testing.T) *database.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("postgres test database not available")
	}

	_, err := testDB.Exec(context.Background(), `TRUNCATE TABLE attendance_records, employees CASCADE`)
	require.NoError(t, err)
	return testDB
}

func newEmployee(code string, shift attendance.ShiftType) employee.Employee {
	return employee.Employee{
		Code:                code,
		DisplayName:         "Employee " + code,
		Department:          "Operations",
		BaseSalary:          decimal.NewFromInt(27000),
		ShiftType:           shift,
		WorkingDays:         attendance.SixDayWeek,
		MealAllowance:       decimal.NewFromInt(3000),
		MedicalInsurance:    decimal.NewFromInt(150),
		SocialInsurance:     decimal.NewFromInt(275),
		AnnualLeaveOpening:  21,
		MonthlyLateQuota:    120,
		ViolationsTotal:     decimal.Zero,
		ViolationsDeduction: decimal.Zero,
		AdvancesTotal:       decimal.Zero,
		AdvancesDeduction:   decimal.Zero,
	}
}

func newRecord(code string, date time.Time) attendance.Record {
	return attendance.Record{
		EmployeeCode:           code,
		EmployeeName:           "Employee " + code,
		Date:                   date,
		Status:                 attendance.StatusAbsent,
		ShiftType:              attendance.ShiftAdministrative,
		WorkingDays:            attendance.SixDayWeek,
		ExtraHoursCompensation: decimal.Zero,
		FridayBonus:            decimal.Zero,
		LeaveCompensation:      decimal.Zero,
		MedicalLeaveDeduction:  decimal.Zero,
		AnnualLeaveBalance:     21,
		MonthlyLateAllowance:   120,
	}
}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T {
	return &v
}
