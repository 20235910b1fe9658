package policy

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testBaseSalary = decimal.NewFromInt(27000) // daily 900, hourly 100

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func clock(s string) *string {
	return &s
}

func assertMoney(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got.Round(2)), "want %d, got %s", want, got.String())
}

func TestShiftPolicy_StationFridayDoubling(t *testing.T) {
	p := NewShiftPolicy(9)

	h := p.DeriveWorkHours(attendance.ShiftDayStation, Punches{
		Date:     day("2024-03-08"),
		CheckIn:  clock("08:00"),
		CheckOut: clock("17:00"),
	}, testBaseSalary)

	assert.Equal(t, 18.0, h.WorkHours)
	assert.Equal(t, 9.0, h.ExtraHours)
	assert.Equal(t, 2, h.CalculatedWorkDays)
	assert.Equal(t, 0.0, h.HoursDeduction)
	assertMoney(t, 900, h.FridayBonus)
	assertMoney(t, 1800, h.ExtraHoursCompensation)
}

func TestShiftPolicy_StationWeekday(t *testing.T) {
	p := NewShiftPolicy(9)
	monday := day("2024-03-04")

	tests := []struct {
		name          string
		shift         attendance.ShiftType
		in, out       *string
		wantWork      float64
		wantExtra     float64
		wantDeduction float64
		wantComp      int64
	}{
		{name: "short day", shift: attendance.ShiftDayStation, in: clock("08:00"), out: clock("15:00"), wantWork: 7, wantDeduction: 2},
		{name: "long day", shift: attendance.ShiftDayStation, in: clock("08:00"), out: clock("19:30"), wantWork: 11.5, wantExtra: 2.5, wantComp: 250},
		{name: "exact day", shift: attendance.ShiftDayStation, in: clock("08:00"), out: clock("17:00"), wantWork: 9},
		{name: "overnight", shift: attendance.ShiftNightStation, in: clock("20:00"), out: clock("06:00"), wantWork: 10, wantExtra: 1, wantComp: 100},
		{name: "check-in only", shift: attendance.ShiftDayStation, in: clock("08:00"), wantWork: 9},
		{name: "check-out only", shift: attendance.ShiftNightStation, out: clock("17:00"), wantWork: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := p.DeriveWorkHours(tt.shift, Punches{Date: monday, CheckIn: tt.in, CheckOut: tt.out}, testBaseSalary)

			assert.Equal(t, tt.wantWork, h.WorkHours)
			assert.Equal(t, tt.wantExtra, h.ExtraHours)
			assert.Equal(t, tt.wantDeduction, h.HoursDeduction)
			assert.Equal(t, 1, h.CalculatedWorkDays)
			assertMoney(t, tt.wantComp, h.ExtraHoursCompensation)
			assert.True(t, h.FridayBonus.IsZero())
		})
	}
}

func TestShiftPolicy_24x24(t *testing.T) {
	p := NewShiftPolicy(9)
	monday := day("2024-03-04")
	tuesday := day("2024-03-05")

	tests := []struct {
		name      string
		in        Punches
		wantDays  int
		wantWork  float64
		wantExtra float64
		wantComp  int64
		wantBonus int64
	}{
		{
			name:     "within normal hours",
			in:       Punches{Date: monday, CheckIn: clock("08:00"), CheckOut: clock("14:00")},
			wantDays: 1, wantWork: 6,
		},
		{
			name:     "between normal and full day",
			in:       Punches{Date: monday, CheckIn: clock("08:00"), CheckOut: clock("20:00")},
			wantDays: 1, wantWork: 12, wantExtra: 3, wantComp: 300,
		},
		{
			name:     "full day is flat six extra hours",
			in:       Punches{Date: monday, CheckIn: clock("08:00"), CheckOut: clock("08:00"), CheckOutDate: &tuesday},
			wantDays: 2, wantWork: 24, wantExtra: 6, wantComp: 600,
		},
		{
			name:     "beyond a full day",
			in:       Punches{Date: monday, CheckIn: clock("08:00"), CheckOut: clock("10:00"), CheckOutDate: &tuesday},
			wantDays: 2, wantWork: 26, wantExtra: 6, wantComp: 600,
		},
		{
			name:     "friday adds bonus",
			in:       Punches{Date: day("2024-03-08"), CheckIn: clock("08:00"), CheckOut: clock("14:00")},
			wantDays: 1, wantWork: 6, wantBonus: 900,
		},
		{
			name: "open pair earns nothing",
			in:   Punches{Date: monday, CheckIn: clock("08:00")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := p.DeriveWorkHours(attendance.Shift24x24, tt.in, testBaseSalary)

			assert.Equal(t, tt.wantDays, h.CalculatedWorkDays)
			assert.Equal(t, tt.wantWork, h.WorkHours)
			assert.Equal(t, tt.wantExtra, h.ExtraHours)
			assert.Equal(t, 0.0, h.HoursDeduction)
			assertMoney(t, tt.wantComp, h.ExtraHoursCompensation)
			assertMoney(t, tt.wantBonus, h.FridayBonus)
		})
	}
}

func TestShiftPolicy_Administrative(t *testing.T) {
	p := NewShiftPolicy(9)

	h := p.DeriveWorkHours(attendance.ShiftAdministrative, Punches{
		Date:     day("2024-03-04"),
		CheckIn:  clock("08:30"),
		CheckOut: clock("20:00"),
	}, testBaseSalary)

	assert.Equal(t, 1, h.CalculatedWorkDays)
	assert.Equal(t, 0.0, h.WorkHours)
	assert.Equal(t, 0.0, h.ExtraHours)
	assert.True(t, h.ExtraHoursCompensation.IsZero())

	none := p.DeriveWorkHours(attendance.ShiftAdministrative, Punches{Date: day("2024-03-04")}, testBaseSalary)
	assert.Equal(t, 0, none.CalculatedWorkDays)
}

func TestShiftPolicy_DefaultsNormalHours(t *testing.T) {
	assert.Equal(t, float64(DefaultNormalHours), NewShiftPolicy(0).NormalHours)
	assertMoney(t, 100, NewShiftPolicy(0).HourlyRate(testBaseSalary))
}

func TestCalculateStatus(t *testing.T) {
	friday := day("2024-03-08")
	saturday := day("2024-03-09")
	sunday := day("2024-03-10")

	tests := []struct {
		name  string
		date  time.Time
		wd    attendance.WorkingDays
		shift attendance.ShiftType
		want  attendance.Status
	}{
		{"24/24 friday", friday, attendance.SixDayWeek, attendance.Shift24x24, attendance.StatusAbsent},
		{"24/24 saturday", saturday, attendance.FiveDayWeek, attendance.Shift24x24, attendance.StatusAbsent},
		{"station friday", friday, attendance.SixDayWeek, attendance.ShiftDayStation, attendance.StatusWeeklyOff},
		{"station saturday", saturday, attendance.FiveDayWeek, attendance.ShiftNightStation, attendance.StatusAbsent},
		{"admin friday", friday, attendance.SixDayWeek, attendance.ShiftAdministrative, attendance.StatusWeeklyOff},
		{"admin saturday six-day", saturday, attendance.SixDayWeek, attendance.ShiftAdministrative, attendance.StatusAbsent},
		{"admin saturday five-day", saturday, attendance.FiveDayWeek, attendance.ShiftAdministrative, attendance.StatusWeeklyOff},
		{"admin sunday", sunday, attendance.FiveDayWeek, attendance.ShiftAdministrative, attendance.StatusAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStatus(tt.date, tt.wd, tt.shift))
		})
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:45")
	assert.NoError(t, err)
	assert.Equal(t, 585, m)
	assert.Equal(t, "09:45", FormatClock(m))
	assert.Equal(t, "00:30", FormatClock(minutesPerDay+30))

	for _, bad := range []string{"9:45", "24:00", "09:60", "0945", ""} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, attendance.ErrInvalidClock, bad)
	}
}
