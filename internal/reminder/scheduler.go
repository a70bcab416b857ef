package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/maimon495/gratitude/internal/constants"
	"github.com/maimon495/gratitude/internal/logger"
)

// Sink shows reminders to the user.
type Sink interface {
	Ping(ctx context.Context) error
	Notify(ctx context.Context, title, text string) error
	ClearBadge(ctx context.Context) error
}

// LoggedToday reports whether today already has an entry.
type LoggedToday func(ctx context.Context) (bool, error)

// Scheduler implements Notifier with an in-process cron job. The job only
// runs while the scheduler is started, which is what `gratitude remind` does.
type Scheduler struct {
	cron   *cron.Cron
	sink   Sink
	logged LoggedToday
	loc    *time.Location

	mu      sync.Mutex
	entry   cron.EntryID
	spec    string
	running bool
}

// NewScheduler creates a stopped scheduler firing in loc.
func NewScheduler(sink Sink, logged LoggedToday, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc), cron.WithLogger(cronLogger{})),
		sink:   sink,
		logged: logged,
		loc:    loc,
	}
}

// RequestAuthorization succeeds when the sink is reachable.
func (s *Scheduler) RequestAuthorization(ctx context.Context) (bool, error) {
	if err := s.sink.Ping(ctx); err != nil {
		logger.Warn("Reminder sink unavailable", "error", err)
		return false, nil
	}
	return true, nil
}

// ScheduleDaily registers the reminder at hour:minute, replacing any
// previous registration.
func (s *Scheduler) ScheduleDaily(ctx context.Context, hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid reminder time %02d:%02d", hour, minute)
	}
	spec := fmt.Sprintf("%d %d * * *", minute, hour)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked()
	id, err := s.cron.AddFunc(spec, func() {
		if _, err := s.Deliver(context.Background()); err != nil {
			logger.Error("Reminder delivery failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", constants.ReminderIdentifier, err)
	}
	s.entry = id
	s.spec = spec
	logger.Debug("Reminder registered", "id", constants.ReminderIdentifier, "spec", spec)
	return nil
}

// CancelAll removes the reminder.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked()
	return nil
}

func (s *Scheduler) removeLocked() {
	if s.spec == "" {
		return
	}
	s.cron.Remove(s.entry)
	s.entry = 0
	s.spec = ""
}

// ClearBadge resets the sink's badge.
func (s *Scheduler) ClearBadge(ctx context.Context) error {
	return s.sink.ClearBadge(ctx)
}

// Scheduled reports whether a reminder is registered.
func (s *Scheduler) Scheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec != ""
}

// Next returns when the reminder fires after now.
func (s *Scheduler) Next(now time.Time) (time.Time, bool) {
	s.mu.Lock()
	spec := s.spec
	s.mu.Unlock()
	if spec == "" {
		return time.Time{}, false
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, false
	}
	return schedule.Next(now.In(s.loc)), true
}

// Deliver sends the reminder unless today is already logged. It reports
// whether anything was sent.
func (s *Scheduler) Deliver(ctx context.Context) (bool, error) {
	if s.logged != nil {
		done, err := s.logged(ctx)
		if err != nil {
			return false, fmt.Errorf("checking today's entry: %w", err)
		}
		if done {
			logger.Debug("Reminder skipped, already logged today")
			return false, nil
		}
	}
	if err := s.sink.Notify(ctx, constants.ReminderTitle, constants.ReminderBody); err != nil {
		return false, err
	}
	logger.Info("Reminder delivered")
	return true, nil
}

// Run starts the cron loop and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.mu.Unlock()

	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	return nil
}

// cronLogger routes cron's own messages to the app log.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
