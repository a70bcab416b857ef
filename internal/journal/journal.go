package journal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/maimon495/gratitude/internal/errors"
	"github.com/maimon495/gratitude/internal/logger"
	"github.com/maimon495/gratitude/internal/models"
	"github.com/maimon495/gratitude/internal/storage"
	"github.com/maimon495/gratitude/internal/utils"
)

// Gate is told after every change whether today already has an entry, so
// the daily reminder can be pushed to tomorrow.
type Gate interface {
	Sync(ctx context.Context, loggedToday bool)
}

// Snapshot is delivered to subscribers after every successful change.
type Snapshot struct {
	Entries       []models.Entry
	Today         *models.Entry
	CurrentStreak int
	LoggedToday   bool
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(j *Journal) { j.clock = clock }
}

// WithLocation sets the calendar used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(j *Journal) {
		if loc != nil {
			j.loc = loc
		}
	}
}

// WithWeekStart sets the first day of each week page.
func WithWeekStart(day time.Weekday) Option {
	return func(j *Journal) { j.weekStart = day }
}

// WithReminderGate wires the reminder scheduler.
func WithReminderGate(g Gate) Option {
	return func(j *Journal) { j.gate = g }
}

// WithIDGenerator replaces uuid generation.
func WithIDGenerator(fn func() string) Option {
	return func(j *Journal) { j.newID = fn }
}

// Journal holds the live entry list and keeps it in step with the store.
// It is safe for concurrent use.
type Journal struct {
	store     storage.Provider
	clock     func() time.Time
	loc       *time.Location
	weekStart time.Weekday
	gate      Gate
	newID     func() string

	mu      sync.RWMutex
	entries []models.Entry // live entries, day descending

	subMu     sync.Mutex
	subs      map[int]func(Snapshot)
	nextSubID int
}

// New creates a Journal backed by store. Call Load before reading.
func New(store storage.Provider, opts ...Option) *Journal {
	j := &Journal{
		store:     store,
		clock:     time.Now,
		loc:       time.Local,
		weekStart: time.Sunday,
		newID:     uuid.NewString,
		subs:      make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Now returns the current instant in the journal's location.
func (j *Journal) Now() time.Time {
	return j.clock().In(j.loc)
}

// Location returns the journal's calendar location.
func (j *Journal) Location() *time.Location {
	return j.loc
}

// WeekStart returns the first weekday of week pages.
func (j *Journal) WeekStart() time.Weekday {
	return j.weekStart
}

// Load replaces the in-memory list with the store's live entries.
func (j *Journal) Load(ctx context.Context) error {
	entries, err := j.store.GetAllEntries(ctx)
	if err != nil {
		return fmt.Errorf("loading entries: %w", err)
	}

	for i := range entries {
		entries[i].Day = utils.DayIn(entries[i].Day, j.loc)
	}

	j.mu.Lock()
	j.entries = byDayDescending(entries)
	j.mu.Unlock()

	logger.Debug("Journal loaded", "entries", len(entries))
	j.publish(ctx)
	return nil
}

// Entries returns a copy of the live entries, most recent first.
func (j *Journal) Entries() []models.Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]models.Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// EntryForDay returns the entry written on day's calendar date.
func (j *Journal) EntryForDay(day time.Time) (models.Entry, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return TodaysEntry(j.entries, utils.DayIn(day, j.loc))
}

// Save writes content for day. An existing entry for that day is edited in
// place, keeping its ID, Day and CreatedAt; otherwise a new entry is created.
// Unknown ink and font codes fall back to the defaults.
func (j *Journal) Save(ctx context.Context, day time.Time, content, ink, font string) (models.Entry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Entry{}, apperrors.ErrEmptyContent
	}

	ink = models.LookupInk(ink).Code
	font = models.LookupFont(font).Code
	dayStart := utils.StartOfDay(day.In(j.loc))
	now := j.Now()

	j.mu.Lock()
	saved, err := j.saveLocked(ctx, dayStart, content, ink, font, now)
	j.mu.Unlock()
	if err != nil {
		return models.Entry{}, err
	}

	j.publish(ctx)
	return saved, nil
}

func (j *Journal) saveLocked(ctx context.Context, day time.Time, content, ink, font string, now time.Time) (models.Entry, error) {
	if existing, ok := TodaysEntry(j.entries, day); ok {
		updated := existing
		updated.Content = content
		updated.InkColor = ink
		updated.Font = font
		updated.UpdatedAt = now

		if err := j.store.UpdateEntry(ctx, updated); err != nil {
			logger.Error("Failed to update entry", "id", existing.ID, "day", utils.DayKey(day), "error", err)
			return models.Entry{}, &apperrors.StorageError{Op: "update", Err: err}
		}

		for i := range j.entries {
			if j.entries[i].ID == updated.ID {
				j.entries[i] = updated
				break
			}
		}
		logger.Info("Entry updated", "id", updated.ID, "day", utils.DayKey(day))
		return updated, nil
	}

	entry := models.Entry{
		ID:        j.newID(),
		Day:       day,
		Content:   content,
		InkColor:  ink,
		Font:      font,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := j.store.AddEntry(ctx, entry); err != nil {
		logger.Error("Failed to add entry", "day", utils.DayKey(day), "error", err)
		return models.Entry{}, &apperrors.StorageError{Op: "add", Err: err}
	}

	j.entries = byDayDescending(append(j.entries, entry))
	logger.Info("Entry created", "id", entry.ID, "day", utils.DayKey(day))
	return entry, nil
}

// Delete removes the entry with id. Deleting an entry that is not in the
// journal is a no-op.
func (j *Journal) Delete(ctx context.Context, id string) error {
	j.mu.Lock()
	idx := -1
	for i, e := range j.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		j.mu.Unlock()
		return nil
	}

	if err := j.store.DeleteEntry(ctx, id); err != nil {
		j.mu.Unlock()
		logger.Error("Failed to delete entry", "id", id, "error", err)
		return &apperrors.StorageError{Op: "delete", Err: err}
	}
	j.entries = append(j.entries[:idx:idx], j.entries[idx+1:]...)
	j.mu.Unlock()

	logger.Info("Entry deleted", "id", id)
	j.publish(ctx)
	return nil
}

// Restore brings back a deleted entry. It fails with ErrDayOccupied when
// another live entry already holds that day.
func (j *Journal) Restore(ctx context.Context, id string) error {
	all, err := j.store.GetAllEntriesIncludingDeleted(ctx)
	if err != nil {
		return fmt.Errorf("loading entries: %w", err)
	}

	var target *models.Entry
	for i := range all {
		if all[i].ID == id {
			target = &all[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("entry %s: %w", id, apperrors.ErrEntryNotFound)
	}
	if !target.IsDeleted() {
		return nil
	}

	restored := *target
	restored.DeletedAt = nil
	restored.Day = utils.DayIn(restored.Day, j.loc)

	j.mu.Lock()
	if _, occupied := TodaysEntry(j.entries, restored.Day); occupied {
		j.mu.Unlock()
		return fmt.Errorf("restore %s: %w", utils.DayKey(restored.Day), apperrors.ErrDayOccupied)
	}
	if err := j.store.RestoreEntry(ctx, id); err != nil {
		j.mu.Unlock()
		logger.Error("Failed to restore entry", "id", id, "error", err)
		return &apperrors.StorageError{Op: "restore", Err: err}
	}
	j.entries = byDayDescending(append(j.entries, restored))
	j.mu.Unlock()

	logger.Info("Entry restored", "id", id, "day", utils.DayKey(restored.Day))
	j.publish(ctx)
	return nil
}

// RestoreDay restores the most recently deleted entry written on day.
func (j *Journal) RestoreDay(ctx context.Context, day time.Time) (models.Entry, error) {
	all, err := j.store.GetAllEntriesIncludingDeleted(ctx)
	if err != nil {
		return models.Entry{}, fmt.Errorf("loading entries: %w", err)
	}

	var candidate *models.Entry
	for i := range all {
		e := &all[i]
		if !e.IsDeleted() || !utils.SameDay(e.Day, day) {
			continue
		}
		if candidate == nil || e.DeletedAt.After(*candidate.DeletedAt) {
			candidate = e
		}
	}
	if candidate == nil {
		return models.Entry{}, fmt.Errorf("no deleted entry on %s: %w", utils.DayKey(day), apperrors.ErrEntryNotFound)
	}

	if err := j.Restore(ctx, candidate.ID); err != nil {
		return models.Entry{}, err
	}
	restored := *candidate
	restored.DeletedAt = nil
	return restored, nil
}

// ImportResult counts what Import did.
type ImportResult struct {
	Added   int
	Updated int
	Skipped int
}

// Import merges entries into the journal. Days that already have an entry
// are skipped unless overwrite is set. Deleted and empty entries are ignored.
func (j *Journal) Import(ctx context.Context, entries []models.Entry, overwrite bool) (ImportResult, error) {
	var result ImportResult

	j.mu.Lock()
	// Soft deleted rows keep their ids.
	stored, err := j.store.GetAllEntriesIncludingDeleted(ctx)
	if err != nil {
		j.mu.Unlock()
		return result, fmt.Errorf("failed to list stored entries: %w", err)
	}
	taken := make(map[string]bool, len(stored))
	for _, e := range stored {
		taken[e.ID] = true
	}

	for _, in := range entries {
		if in.IsDeleted() || strings.TrimSpace(in.Content) == "" {
			result.Skipped++
			continue
		}
		day := utils.DayIn(in.Day, j.loc)
		ink := models.LookupInk(in.InkColor).Code
		font := models.LookupFont(in.Font).Code

		if _, exists := TodaysEntry(j.entries, day); exists {
			if !overwrite {
				result.Skipped++
				continue
			}
			if _, err := j.saveLocked(ctx, day, strings.TrimSpace(in.Content), ink, font, j.Now()); err != nil {
				j.mu.Unlock()
				return result, err
			}
			result.Updated++
			continue
		}

		entry := in
		entry.Day = day
		entry.Content = strings.TrimSpace(in.Content)
		entry.InkColor = ink
		entry.Font = font
		if entry.ID == "" || taken[entry.ID] {
			entry.ID = j.newID()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = j.Now()
		}
		if entry.UpdatedAt.IsZero() {
			entry.UpdatedAt = entry.CreatedAt
		}

		if err := j.store.AddEntry(ctx, entry); err != nil {
			j.mu.Unlock()
			logger.Error("Failed to import entry", "day", utils.DayKey(day), "error", err)
			return result, &apperrors.StorageError{Op: "import", Err: err}
		}
		taken[entry.ID] = true
		j.entries = byDayDescending(append(j.entries, entry))
		result.Added++
	}
	j.mu.Unlock()

	if result.Added+result.Updated > 0 {
		j.publish(ctx)
	}
	return result, nil
}

// Today returns today's entry.
func (j *Journal) Today() (models.Entry, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return TodaysEntry(j.entries, j.Now())
}

// OnThisDay returns entries from earlier years written on today's date.
func (j *Journal) OnThisDay() []models.Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return OnThisDay(j.entries, j.Now())
}

// CurrentStreak returns the running streak.
func (j *Journal) CurrentStreak() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return CurrentStreak(j.entries, j.Now())
}

// LongestStreak returns the best streak ever recorded.
func (j *Journal) LongestStreak() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return LongestStreak(j.entries)
}

// Weeks returns the week pages for query.
func (j *Journal) Weeks(query string) []Week {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return GroupByWeek(j.entries, j.Now(), j.weekStart, query)
}

// Months returns history buckets for query.
func (j *Journal) Months(query string) []Month {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return GroupByMonth(j.entries, query)
}

// Search returns entries containing query.
func (j *Journal) Search(query string) []models.Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return Search(j.entries, query)
}

// Stats summarises the journal.
func (j *Journal) Stats() Stats {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return ComputeStats(j.entries, j.Now())
}

// Subscribe registers fn for change notifications. The returned func
// removes the subscription.
func (j *Journal) Subscribe(fn func(Snapshot)) func() {
	j.subMu.Lock()
	id := j.nextSubID
	j.nextSubID++
	j.subs[id] = fn
	j.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			j.subMu.Lock()
			delete(j.subs, id)
			j.subMu.Unlock()
		})
	}
}

// Snapshot captures the current state.
func (j *Journal) Snapshot() Snapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()

	now := j.Now()
	snap := Snapshot{
		Entries:       make([]models.Entry, len(j.entries)),
		CurrentStreak: CurrentStreak(j.entries, now),
	}
	copy(snap.Entries, j.entries)
	if today, ok := TodaysEntry(j.entries, now); ok {
		snap.Today = &today
		snap.LoggedToday = true
	}
	return snap
}

func (j *Journal) publish(ctx context.Context) {
	snap := j.Snapshot()

	if j.gate != nil {
		j.gate.Sync(ctx, snap.LoggedToday)
	}

	j.subMu.Lock()
	ids := make([]int, 0, len(j.subs))
	for id := range j.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, j.subs[id])
	}
	j.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// IsUserError reports whether err is a validation problem the user can fix,
// as opposed to a storage failure.
func IsUserError(err error) bool {
	return errors.Is(err, apperrors.ErrEmptyContent) ||
		errors.Is(err, apperrors.ErrDayOccupied) ||
		errors.Is(err, apperrors.ErrEntryNotFound)
}
