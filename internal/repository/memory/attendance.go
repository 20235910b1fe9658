// Package memory holds in-process repositories for tests and local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/google/uuid"
)

// AttendanceRepository implements attendance.AttendanceRepository in memory.
type AttendanceRepository struct {
	mu      sync.RWMutex
	records map[string]attendance.Record
	seq     int64
	now     func() time.Time
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{
		records: make(map[string]attendance.Record),
		now:     time.Now,
	}
}

// Insert stores r as-is, keeping a caller-chosen ID. Used to seed
// duplicate rows that the service itself never creates.
func (a *AttendanceRepository) Insert(r attendance.Record) attendance.Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.insertLocked(r)
}

func (a *AttendanceRepository) insertLocked(r attendance.Record) attendance.Record {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	a.seq++
	// Creation order must be total even when the clock does not move.
	r.CreatedAt = a.now().Add(time.Duration(a.seq))
	r.UpdatedAt = r.CreatedAt
	r.Date = attendance.DateOf(r.Date)
	a.records[r.ID] = r
	return r
}

func (a *AttendanceRepository) Create(ctx context.Context, r attendance.Record) (attendance.Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r.ID = ""
	return a.insertLocked(r), nil
}

func (a *AttendanceRepository) Update(ctx context.Context, r attendance.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	existing, ok := a.records[r.ID]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	r.EmployeeCode = existing.EmployeeCode
	r.Date = existing.Date
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = a.now()
	a.records[r.ID] = r
	return nil
}

func (a *AttendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	r, ok := a.records[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return r, nil
}

func (a *AttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeCode string, date time.Time) ([]attendance.Record, error) {
	day := attendance.DateOf(date)
	return a.selectSorted(func(r attendance.Record) bool {
		return r.EmployeeCode == employeeCode && r.Date.Equal(day)
	}), nil
}

func (a *AttendanceRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, id := range ids {
		delete(a.records, id)
	}
	return nil
}

func (a *AttendanceRepository) ListByEmployeeFrom(ctx context.Context, employeeCode string, from time.Time) ([]attendance.Record, error) {
	day := attendance.DateOf(from)
	return a.selectSorted(func(r attendance.Record) bool {
		return r.EmployeeCode == employeeCode && !r.Date.Before(day)
	}), nil
}

func (a *AttendanceRepository) GetLastBefore(ctx context.Context, employeeCode string, before time.Time) (*attendance.Record, error) {
	day := attendance.DateOf(before)
	found := a.selectSorted(func(r attendance.Record) bool {
		return r.EmployeeCode == employeeCode && r.Date.Before(day)
	})
	if len(found) == 0 {
		return nil, nil
	}
	last := found[len(found)-1]
	return &last, nil
}

func (a *AttendanceRepository) GetLatest(ctx context.Context, employeeCode string) (*attendance.Record, error) {
	found := a.selectSorted(func(r attendance.Record) bool {
		return r.EmployeeCode == employeeCode
	})
	if len(found) == 0 {
		return nil, nil
	}
	last := found[len(found)-1]
	return &last, nil
}

func (a *AttendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, error) {
	return a.selectSorted(func(r attendance.Record) bool {
		if filter.EmployeeCode != nil && *filter.EmployeeCode != "" && r.EmployeeCode != *filter.EmployeeCode {
			return false
		}
		if filter.ShiftType != nil && *filter.ShiftType != "" && string(r.ShiftType) != *filter.ShiftType {
			return false
		}
		if filter.From != nil && r.Date.Before(attendance.DateOf(*filter.From)) {
			return false
		}
		if filter.To != nil && r.Date.After(attendance.DateOf(*filter.To)) {
			return false
		}
		return true
	}), nil
}

func (a *AttendanceRepository) DeleteAll(ctx context.Context) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := int64(len(a.records))
	a.records = make(map[string]attendance.Record)
	return n, nil
}

// selectSorted returns matching records ordered by employee code, date and
// creation time.
func (a *AttendanceRepository) selectSorted(match func(attendance.Record) bool) []attendance.Record {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []attendance.Record
	for _, r := range a.records {
		if match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeCode != out[j].EmployeeCode {
			return out[i].EmployeeCode < out[j].EmployeeCode
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
