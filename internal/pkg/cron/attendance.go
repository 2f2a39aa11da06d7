package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
)

// PunchCloser closes the open punches of a date.
type PunchCloser interface {
	CloseOpenPunches(ctx context.Context, date time.Time) (int, error)
}

type AttendanceJobs struct {
	closer   PunchCloser
	notifier notification.Sink
	interval time.Duration
	loc      *time.Location
	now      func() time.Time

	mu         sync.Mutex
	lastClosed time.Time
}

func NewAttendanceJobs(closer PunchCloser, notifier notification.Sink, interval time.Duration, loc *time.Location) *AttendanceJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceJobs{
		closer:   closer,
		notifier: notifier,
		interval: interval,
		loc:      loc,
		now:      time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_open_punches", j.interval, j.AutoCloseOpenPunches)
}

// AutoCloseOpenPunches punches out every record still open from yesterday.
// Each date is closed once per process; later ticks the same day are no-ops.
func (j *AttendanceJobs) AutoCloseOpenPunches(ctx context.Context) error {
	yesterday := calendar.DateOf(j.now().In(j.loc)).AddDate(0, 0, -1)

	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.lastClosed.IsZero() && !yesterday.After(j.lastClosed) {
		return nil
	}

	slog.Info("Cron: Starting auto punch-out job", "date", calendar.FormatDate(yesterday))

	closed, err := j.closer.CloseOpenPunches(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to close open punches: %w", err)
	}
	j.lastClosed = yesterday

	slog.Info("Cron: Auto punch-out job completed", "date", calendar.FormatDate(yesterday), "closed", closed)

	if closed > 0 {
		j.notifier.Notify(ctx, notification.RecipientAdmin, notification.TypeAttendanceAlert, notification.Payload{
			Title:             "Open punches closed",
			Message:           fmt.Sprintf("%d attendance record(s) for %s were punched out automatically", closed, calendar.FormatDate(yesterday)),
			RelatedEntityType: "ATTENDANCE",
			Data:              map[string]any{"date": calendar.FormatDate(yesterday), "closed": closed},
		})
	}
	return nil
}
