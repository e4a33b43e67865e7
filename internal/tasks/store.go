package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/teemow/geotodo/internal/googlemaps"
	"github.com/teemow/geotodo/internal/instrumentation"
	"github.com/teemow/geotodo/internal/logging"
	"github.com/teemow/geotodo/internal/storage"
)

const (
	// DefaultKey is the storage slot holding the task list.
	DefaultKey = "todos"

	// DefaultOrigin is used by DirectionsTo when no origin is given.
	DefaultOrigin = "Current Location"
)

// Slot is the durable storage the store writes through to.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store is the in-memory task list with write-through persistence. It is safe
// for concurrent use within one process.
type Store struct {
	mu    sync.Mutex
	tasks []Task

	slot    Slot
	key     string
	locator Locator
	router  Router
	logger  logging.Logger
	metrics *instrumentation.Metrics
	now     func() time.Time
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the storage slot key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLocator enables location enrichment on Create.
func WithLocator(l Locator) Option {
	return func(s *Store) {
		s.locator = l
	}
}

// WithRouter enables DirectionsTo.
func WithRouter(r Router) Option {
	return func(s *Store) {
		s.router = r
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		s.logger = logging.OrDefault(l)
	}
}

// WithMetrics records store operations in the task metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides task id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// New creates a store on slot and loads the persisted tasks.
func New(ctx context.Context, slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		key:    DefaultKey,
		logger: logging.DefaultLogger(),
		now:    time.Now,
		newID:  func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load(ctx)
	return s
}

// Load replaces the in-memory list with the persisted one and returns a copy.
// An absent or unreadable slot yields an empty list.
func (s *Store) Load(ctx context.Context) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = s.read(ctx)
	return cloneTasks(s.tasks)
}

func (s *Store) read(ctx context.Context) []Task {
	data, err := s.slot.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("no stored tasks", "key", s.key)
		s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpLoad, instrumentation.StatusSuccess)
		return []Task{}
	}
	if err != nil {
		s.logger.Warn("failed to read stored tasks, starting empty", "key", s.key, logging.Err(err))
		s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpLoad, instrumentation.StatusError)
		return []Task{}
	}

	tasks, err := Decode(data)
	if err != nil {
		s.logger.Warn("stored tasks are malformed, starting empty", "key", s.key, logging.Err(err))
		s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpLoad, instrumentation.StatusError)
		return []Task{}
	}

	s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpLoad, instrumentation.StatusSuccess)
	return tasks
}

// Save persists tasks and, once the write succeeded, makes them the
// in-memory list. Tasks are checked against the rules Load applies, and
// timestamps are reduced to the millisecond precision the slot keeps, so a
// saved list always loads back unchanged.
func (s *Store) Save(ctx context.Context, tasks []Task) error {
	next := make([]Task, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		t, err := normalizeTask(t)
		if err != nil {
			return err
		}
		if seen[t.ID] {
			return &ValidationError{Field: "id", Message: fmt.Sprintf("duplicate id %q", t.ID)}
		}
		seen[t.ID] = true
		next = append(next, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, next)
}

func normalizeTask(t Task) (Task, error) {
	if t.ID == "" {
		return Task{}, &ValidationError{Field: "id", Message: "must not be empty"}
	}
	if strings.TrimSpace(t.Title) == "" {
		return Task{}, &ValidationError{Field: "title", Message: fmt.Sprintf("task %q: must not be empty", t.ID)}
	}
	if t.CreatedAt.IsZero() {
		return Task{}, &ValidationError{Field: "createdAt", Message: fmt.Sprintf("task %q: must be set", t.ID)}
	}
	priority, err := ParsePriority(string(t.Priority))
	if err != nil {
		return Task{}, err
	}

	t = cloneTask(t)
	t.Priority = priority
	t.CreatedAt = normalizeTime(t.CreatedAt)
	t.DueDate = normalizeTimePtr(t.DueDate)
	return t, nil
}

// commit writes next to the slot and only then replaces the in-memory list.
// The encoded document is decoded once before the write so that nothing Load
// would reject reaches the slot. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []Task) error {
	data, err := Encode(next)
	if err != nil {
		return err
	}
	if _, err := Decode(data); err != nil {
		return &ValidationError{Field: "tasks", Message: err.Error()}
	}
	if err := s.slot.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	s.tasks = next
	return nil
}

// Create validates draft, resolves locationQuery if non-blank, and appends
// the new task. A failed lookup leaves the task without a location.
func (s *Store) Create(ctx context.Context, draft Draft, locationQuery string) (task Task, err error) {
	ctx, span := instrumentation.StartTaskSpan(ctx, instrumentation.TaskOpCreate)
	defer func() {
		instrumentation.EndSpan(span, err)
		span.End()
	}()

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpCreate, instrumentation.StatusError)
		return Task{}, &ValidationError{Field: "title", Message: "must not be empty"}
	}
	priority, err := ParsePriority(string(draft.Priority))
	if err != nil {
		s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpCreate, instrumentation.StatusError)
		return Task{}, err
	}

	// The lookup runs without the lock held; it is a network round trip.
	location := s.locate(ctx, locationQuery)

	task = Task{
		Title:       title,
		Description: draft.Description,
		Location:    location,
		Priority:    priority,
		CreatedAt:   normalizeTime(s.now()),
		DueDate:     normalizeTimePtr(draft.DueDate),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.newID()
	next := append(cloneTasks(s.tasks), task)
	if err := s.commit(ctx, next); err != nil {
		s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpCreate, instrumentation.StatusError)
		return Task{}, err
	}

	s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpCreate, instrumentation.StatusSuccess)
	s.logger.Debug("task created", logging.TaskID(task.ID), "has_location", task.Location != nil)
	return cloneTask(task), nil
}

func (s *Store) locate(ctx context.Context, query string) *Location {
	query = strings.TrimSpace(query)
	if query == "" || s.locator == nil {
		return nil
	}

	loc, err := s.locator.Locate(ctx, query)
	if err != nil {
		s.logger.Warn("location lookup failed, creating task without location",
			logging.QueryHash(query), logging.Err(err))
		return nil
	}
	return loc
}

// ToggleCompleted flips the completed flag of the task with id.
func (s *Store) ToggleCompleted(ctx context.Context, id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpToggle, instrumentation.StatusError)
		return Task{}, &NotFoundError{ID: id}
	}

	next := cloneTasks(s.tasks)
	next[idx].Completed = !next[idx].Completed
	if err := s.commit(ctx, next); err != nil {
		s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpToggle, instrumentation.StatusError)
		return Task{}, err
	}

	s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpToggle, instrumentation.StatusSuccess)
	return cloneTask(next[idx]), nil
}

// Remove deletes the task with id. Removing an unknown id is a no-op and
// does not write.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, cloneTasks(s.tasks[:idx])...)
	next = append(next, cloneTasks(s.tasks[idx+1:])...)
	if err := s.commit(ctx, next); err != nil {
		s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpRemove, instrumentation.StatusError)
		return err
	}

	s.metrics.RecordTaskOperation(ctx, instrumentation.TaskOpRemove, instrumentation.StatusSuccess)
	return nil
}

// Tasks returns all tasks in insertion order.
func (s *Store) Tasks() []Task {
	return s.filter(func(Task) bool { return true })
}

// Pending returns the tasks that are not completed, in insertion order.
func (s *Store) Pending() []Task {
	return s.filter(func(t Task) bool { return !t.Completed })
}

// Completed returns the completed tasks, in insertion order.
func (s *Store) Completed() []Task {
	return s.filter(func(t Task) bool { return t.Completed })
}

// Get returns the task with id.
func (s *Store) Get(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	return cloneTask(s.tasks[idx]), nil
}

// DirectionsTo returns directions from origin (DefaultOrigin when empty) to
// the stored address of the task with id.
func (s *Store) DirectionsTo(ctx context.Context, id, origin string) (*googlemaps.DirectionResult, error) {
	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if task.Location == nil || task.Location.Address == "" {
		return nil, &ValidationError{Field: "location", Message: fmt.Sprintf("task %q has no location", id)}
	}
	if s.router == nil {
		return nil, errors.New("directions are not available without a maps client")
	}
	if strings.TrimSpace(origin) == "" {
		origin = DefaultOrigin
	}
	return s.router.GetDirections(ctx, origin, task.Location.Address, "")
}

func (s *Store) filter(keep func(Task) bool) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
