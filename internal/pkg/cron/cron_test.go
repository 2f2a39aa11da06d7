package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloser struct {
	dates  []time.Time
	closed int
	err    error
}

func (f *fakeCloser) CloseOpenPunches(_ context.Context, date time.Time) (int, error) {
	f.dates = append(f.dates, date)
	return f.closed, f.err
}

type recordingSink struct {
	mu    sync.Mutex
	types []notification.NotificationType
}

func (r *recordingSink) Notify(_ context.Context, _ string, t notification.NotificationType, _ notification.Payload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, t)
}

func TestAttendanceJobs_AutoCloseOpenPunches_ClosesYesterdayOnce(t *testing.T) {
	closer := &fakeCloser{closed: 2}
	sink := &recordingSink{}
	jobs := NewAttendanceJobs(closer, sink, time.Hour, time.UTC)
	jobs.now = func() time.Time { return time.Date(2024, time.June, 11, 0, 30, 0, 0, time.UTC) }

	require.NoError(t, jobs.AutoCloseOpenPunches(context.Background()))
	require.NoError(t, jobs.AutoCloseOpenPunches(context.Background()))

	require.Len(t, closer.dates, 1)
	assert.Equal(t, calendar.Date(2024, time.June, 10), closer.dates[0])
	assert.Equal(t, []notification.NotificationType{notification.TypeAttendanceAlert}, sink.types)

	jobs.now = func() time.Time { return time.Date(2024, time.June, 12, 0, 30, 0, 0, time.UTC) }
	require.NoError(t, jobs.AutoCloseOpenPunches(context.Background()))
	require.Len(t, closer.dates, 2)
	assert.Equal(t, calendar.Date(2024, time.June, 11), closer.dates[1])
}

func TestAttendanceJobs_AutoCloseOpenPunches_RetriesAfterFailure(t *testing.T) {
	closer := &fakeCloser{err: errors.New("db down")}
	jobs := NewAttendanceJobs(closer, &recordingSink{}, time.Hour, time.UTC)
	jobs.now = func() time.Time { return time.Date(2024, time.June, 11, 3, 0, 0, 0, time.UTC) }

	assert.Error(t, jobs.AutoCloseOpenPunches(context.Background()))

	closer.err = nil
	require.NoError(t, jobs.AutoCloseOpenPunches(context.Background()))
	assert.Len(t, closer.dates, 2)
}

func TestAttendanceJobs_AutoCloseOpenPunches_UsesConfiguredZone(t *testing.T) {
	closer := &fakeCloser{}
	jakarta := time.FixedZone("WIB", 7*60*60)
	jobs := NewAttendanceJobs(closer, &recordingSink{}, time.Hour, jakarta)
	// 2024-06-10 20:00 UTC is already 2024-06-11 in Jakarta.
	jobs.now = func() time.Time { return time.Date(2024, time.June, 10, 20, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.AutoCloseOpenPunches(context.Background()))
	assert.Equal(t, calendar.Date(2024, time.June, 10), closer.dates[0])
}

func TestScheduler_RunOnce_ReportsFailuresAndPanics(t *testing.T) {
	s := NewScheduler()
	var ran []string
	s.AddJob("ok", time.Minute, func(context.Context) error { ran = append(ran, "ok"); return nil })
	s.AddJob("fails", time.Minute, func(context.Context) error { return errors.New("boom") })
	s.AddJob("panics", time.Minute, func(context.Context) error { panic("bad") })
	s.AddJob("never", 0, func(context.Context) error { return nil })

	failed := s.RunOnce(context.Background())

	assert.Equal(t, []string{"ok"}, ran)
	assert.Equal(t, []string{"fails", "panics"}, failed)
	assert.Equal(t, []string{"ok", "fails", "panics"}, s.Jobs())
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	calls := make(chan struct{}, 10)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		calls <- struct{}{}
		return nil
	})

	s.Start()
	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
	s.Stop()
}
