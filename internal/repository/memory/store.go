// Package memory keeps every repository in process memory. It backs the test
// suites and STORE_DRIVER=memory.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/permission"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/policy"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	"github.com/google/uuid"
)

type policyKey struct {
	Department     string
	EmploymentType string
}

type dayKey struct {
	EmployeeID string
	Date       string
}

type monthKey struct {
	EmployeeID string
	Year       int
	Month      int
}

type data struct {
	employees     map[string]employee.Employee
	holidays      map[string]holiday.Holiday
	policies      map[policyKey]policy.DepartmentPolicy
	attendance    map[dayKey]attendance.Attendance
	lateLogins    map[monthKey]int
	leaveRequests map[string]leave.LeaveRequest
	leaveDays     map[string]leave.LeaveRequestDay
	leaveStats    map[monthKey]leave.EmployeeLeaveStatistics
	overtime      map[string]overtime.Overtime
	permissions   map[string]permission.PermissionHours
	notifications []notification.Notification
}

func newData() *data {
	return &data{
		employees:     make(map[string]employee.Employee),
		holidays:      make(map[string]holiday.Holiday),
		policies:      make(map[policyKey]policy.DepartmentPolicy),
		attendance:    make(map[dayKey]attendance.Attendance),
		lateLogins:    make(map[monthKey]int),
		leaveRequests: make(map[string]leave.LeaveRequest),
		leaveDays:     make(map[string]leave.LeaveRequestDay),
		leaveStats:    make(map[monthKey]leave.EmployeeLeaveStatistics),
		overtime:      make(map[string]overtime.Overtime),
		permissions:   make(map[string]permission.PermissionHours),
	}
}

func (d *data) clone() *data {
	return &data{
		employees:     maps.Clone(d.employees),
		holidays:      maps.Clone(d.holidays),
		policies:      maps.Clone(d.policies),
		attendance:    maps.Clone(d.attendance),
		lateLogins:    maps.Clone(d.lateLogins),
		leaveRequests: maps.Clone(d.leaveRequests),
		leaveDays:     maps.Clone(d.leaveDays),
		leaveStats:    maps.Clone(d.leaveStats),
		overtime:      maps.Clone(d.overtime),
		permissions:   maps.Clone(d.permissions),
		notifications: append([]notification.Notification(nil), d.notifications...),
	}
}

// Store is the shared state behind every memory repository. Transactions are
// serialised and roll back by restoring a snapshot.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	d    *data
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{d: newData(), now: time.Now}
}

type txKey struct{}

var _ database.Transactor = (*Store)(nil)

// WithinTransaction runs fn exclusively. Keys are accepted for interface parity:
// holding the store-wide lock already covers every key. Nested calls join the
// outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error, lockKeys ...string) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.d.clone()
	s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}

func (s *Store) restore(snapshot *data) {
	s.mu.Lock()
	s.d = snapshot
	s.mu.Unlock()
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// write applies fn under the data lock. Outside a transaction it also takes the
// transaction lock so a concurrent rollback cannot discard the write.
func (s *Store) write(ctx context.Context, fn func(d *data) error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

func (s *Store) read(fn func(d *data) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.d)
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func dateKey(t time.Time) string {
	return calendar.FormatDate(t)
}

func within(d, from, to time.Time) bool {
	d = calendar.DateOf(d)
	return !d.Before(calendar.DateOf(from)) && !d.After(calendar.DateOf(to))
}
