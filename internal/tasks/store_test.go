package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/geotodo/internal/googlemaps"
	"github.com/teemow/geotodo/internal/logging"
	"github.com/teemow/geotodo/internal/storage"
)

var fixedNow = time.Date(2024, 3, 9, 14, 30, 15, 123_456_789, time.UTC)

type fakeLocator struct {
	mu      sync.Mutex
	loc     *Location
	err     error
	queries []string
}

func (f *fakeLocator) Locate(ctx context.Context, query string) (*Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.loc, f.err
}

type fakeRouter struct {
	origin, destination, mode string
	result                    *googlemaps.DirectionResult
	err                       error
}

func (f *fakeRouter) GetDirections(ctx context.Context, origin, destination, mode string) (*googlemaps.DirectionResult, error) {
	f.origin, f.destination, f.mode = origin, destination, mode
	return f.result, f.err
}

// countingSlot wraps a memory backend and counts writes.
type countingSlot struct {
	*storage.Memory
	puts int
}

func (c *countingSlot) Put(ctx context.Context, key string, value []byte) error {
	c.puts++
	return c.Memory.Put(ctx, key, value)
}

func newTestStore(t *testing.T, slot Slot, opts ...Option) *Store {
	t.Helper()
	seq := 0
	base := []Option{
		WithLogger(logging.NopLogger()),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("task-%d", seq)
		}),
	}
	return New(context.Background(), slot, append(base, opts...)...)
}

func TestCreate_TrimmedTitle(t *testing.T) {
	slot := storage.NewMemory()
	store := newTestStore(t, slot)

	task, err := store.Create(context.Background(), Draft{Title: "  Buy milk  "}, "")
	require.NoError(t, err)

	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.False(t, task.Completed)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, fixedNow.Truncate(time.Millisecond), task.CreatedAt)
	assert.Nil(t, task.Location)

	assert.Equal(t, []Task{task}, store.Tasks())

	// Written through
	data, err := slot.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	persisted, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []Task{task}, persisted)
}

func TestCreate_BlankTitle(t *testing.T) {
	slot := &countingSlot{Memory: storage.NewMemory()}
	locator := &fakeLocator{loc: &Location{Address: "x"}}
	store := newTestStore(t, slot, WithLocator(locator))

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := store.Create(context.Background(), Draft{Title: title}, "Central Park")

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "title", ve.Field)
	}

	assert.Empty(t, store.Tasks())
	assert.Zero(t, slot.puts)
	assert.Empty(t, locator.queries, "no remote call for invalid input")
}

func TestCreate_UnknownPriority(t *testing.T) {
	locator := &fakeLocator{}
	store := newTestStore(t, storage.NewMemory(), WithLocator(locator))

	_, err := store.Create(context.Background(), Draft{Title: "x", Priority: "urgent"}, "Central Park")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "priority", ve.Field)
	assert.Empty(t, store.Tasks())
	assert.Empty(t, locator.queries)
}

func TestCreate_WithLocation(t *testing.T) {
	locator := &fakeLocator{loc: &Location{Address: "Central Park, NYC", Lat: 40.78, Lng: -73.96}}
	store := newTestStore(t, storage.NewMemory(), WithLocator(locator))

	task, err := store.Create(context.Background(), Draft{Title: "Meet Bob"}, "  Central Park ")
	require.NoError(t, err)

	assert.Equal(t, &Location{Address: "Central Park, NYC", Lat: 40.78, Lng: -73.96}, task.Location)
	assert.Equal(t, []string{"Central Park"}, locator.queries)
}

func TestCreate_NoLocationQuery(t *testing.T) {
	locator := &fakeLocator{loc: &Location{Address: "somewhere"}}
	store := newTestStore(t, storage.NewMemory(), WithLocator(locator))

	task, err := store.Create(context.Background(), Draft{Title: "Buy milk"}, "   ")
	require.NoError(t, err)
	assert.Nil(t, task.Location)
	assert.Empty(t, locator.queries)
}

func TestCreate_LocatorFailureDegrades(t *testing.T) {
	locator := &fakeLocator{err: errors.New("maps server down")}
	store := newTestStore(t, storage.NewMemory(), WithLocator(locator))

	task, err := store.Create(context.Background(), Draft{Title: "Meet Bob"}, "Central Park")
	require.NoError(t, err)
	assert.Nil(t, task.Location)
	assert.Len(t, store.Tasks(), 1)
}

func TestCreate_KeepsDraftFields(t *testing.T) {
	due := time.Date(2024, 3, 12, 9, 0, 0, 500, time.FixedZone("EST", -5*3600))
	store := newTestStore(t, storage.NewMemory())

	task, err := store.Create(context.Background(), Draft{
		Title:       "Dentist",
		Description: "bring insurance card",
		Priority:    PriorityHigh,
		DueDate:     &due,
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "bring insurance card", task.Description)
	assert.Equal(t, PriorityHigh, task.Priority)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, time.Date(2024, 3, 12, 14, 0, 0, 0, time.UTC), *task.DueDate)
}

func TestCreate_PreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t, storage.NewMemory())
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := store.Create(ctx, Draft{Title: title}, "")
		require.NoError(t, err)
	}

	var titles []string
	for _, task := range store.Tasks() {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"a", "b", "c"}, titles)
}

func TestCreate_SaveFailureRollsBack(t *testing.T) {
	slot := storage.NewMemory()
	store := newTestStore(t, slot)
	ctx := context.Background()

	existing, err := store.Create(ctx, Draft{Title: "first"}, "")
	require.NoError(t, err)

	slot.FailPut = errors.New("disk full")
	_, err = store.Create(ctx, Draft{Title: "second"}, "")
	require.Error(t, err)

	assert.Equal(t, []Task{existing}, store.Tasks())
}

func TestToggleCompleted(t *testing.T) {
	store := newTestStore(t, storage.NewMemory())
	ctx := context.Background()

	task, err := store.Create(ctx, Draft{Title: "x"}, "")
	require.NoError(t, err)

	toggled, err := store.ToggleCompleted(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.Len(t, store.Completed(), 1)
	assert.Empty(t, store.Pending())

	again, err := store.ToggleCompleted(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, again)
	assert.Equal(t, []Task{task}, store.Pending())
}

func TestToggleCompleted_NotFound(t *testing.T) {
	slot := &countingSlot{Memory: storage.NewMemory()}
	store := newTestStore(t, slot)

	_, err := store.ToggleCompleted(context.Background(), "nope")

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.ID)
	assert.Zero(t, slot.puts)
}

func TestToggleCompleted_SaveFailureRollsBack(t *testing.T) {
	slot := storage.NewMemory()
	store := newTestStore(t, slot)
	ctx := context.Background()

	task, err := store.Create(ctx, Draft{Title: "x"}, "")
	require.NoError(t, err)

	slot.FailPut = errors.New("disk full")
	_, err = store.ToggleCompleted(ctx, task.ID)
	require.Error(t, err)

	got, err := store.Get(task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestRemove_Idempotent(t *testing.T) {
	slot := &countingSlot{Memory: storage.NewMemory()}
	store := newTestStore(t, slot)
	ctx := context.Background()

	keep, err := store.Create(ctx, Draft{Title: "keep"}, "")
	require.NoError(t, err)
	drop, err := store.Create(ctx, Draft{Title: "drop"}, "")
	require.NoError(t, err)
	writes := slot.puts

	require.NoError(t, store.Remove(ctx, drop.ID))
	once := store.Tasks()
	assert.Equal(t, writes+1, slot.puts)

	require.NoError(t, store.Remove(ctx, drop.ID))
	assert.Equal(t, once, store.Tasks())
	assert.Equal(t, writes+1, slot.puts, "removing an absent id must not write")

	assert.Equal(t, []Task{keep}, once)
}

func TestRemove_SaveFailureRollsBack(t *testing.T) {
	slot := storage.NewMemory()
	store := newTestStore(t, slot)
	ctx := context.Background()

	task, err := store.Create(ctx, Draft{Title: "x"}, "")
	require.NoError(t, err)

	slot.FailPut = errors.New("disk full")
	require.Error(t, store.Remove(ctx, task.ID))
	assert.Len(t, store.Tasks(), 1)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("absent slot is empty", func(t *testing.T) {
		store := newTestStore(t, storage.NewMemory())
		assert.Empty(t, store.Load(ctx))
	})

	t.Run("corrupt slot is empty", func(t *testing.T) {
		slot := storage.NewMemory()
		require.NoError(t, slot.Put(ctx, DefaultKey, []byte("{not json")))

		store := newTestStore(t, slot)
		assert.Empty(t, store.Tasks())

		// The store stays usable and overwrites the corrupt slot
		_, err := store.Create(ctx, Draft{Title: "fresh start"}, "")
		require.NoError(t, err)
		assert.Len(t, store.Load(ctx), 1)
	})

	t.Run("legacy layout", func(t *testing.T) {
		slot := storage.NewMemory()
		require.NoError(t, slot.Put(ctx, DefaultKey,
			[]byte(`[{"id":"1709994615123","title":"Buy milk","completed":false,"priority":"low","createdAt":"2024-03-09T14:30:15.123Z"}]`)))

		store := newTestStore(t, slot)
		tasks := store.Tasks()
		require.Len(t, tasks, 1)
		assert.Equal(t, "Buy milk", tasks[0].Title)
	})

	t.Run("persisted state survives a new store", func(t *testing.T) {
		slot := storage.NewMemory()
		first := newTestStore(t, slot)
		task, err := first.Create(ctx, Draft{Title: "remember me"}, "")
		require.NoError(t, err)

		second := newTestStore(t, slot)
		assert.Equal(t, []Task{task}, second.Tasks())
	})

	t.Run("custom key", func(t *testing.T) {
		slot := storage.NewMemory()
		store := newTestStore(t, slot, WithKey("work"))
		_, err := store.Create(ctx, Draft{Title: "x"}, "")
		require.NoError(t, err)

		_, err = slot.Get(ctx, DefaultKey)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = slot.Get(ctx, "work")
		assert.NoError(t, err)
	})
}

func TestSave(t *testing.T) {
	slot := storage.NewMemory()
	store := newTestStore(t, slot)
	ctx := context.Background()

	tasks := sampleTasks()
	require.NoError(t, store.Save(ctx, tasks))
	assert.Equal(t, tasks, store.Tasks())
	assert.Equal(t, tasks, store.Load(ctx))

	err := store.Save(ctx, []Task{tasks[0], tasks[0]})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestSave_RejectsWhatLoadWouldDrop(t *testing.T) {
	good := sampleTasks()[0]
	tests := []struct {
		name  string
		bad   Task
		field string
	}{
		{"unknown priority", Task{ID: "x", Title: "bad", Priority: "urgent", CreatedAt: fixedNow}, "priority"},
		{"empty id", Task{Title: "bad", CreatedAt: fixedNow}, "id"},
		{"blank title", Task{ID: "x", Title: "  ", CreatedAt: fixedNow}, "title"},
		{"zero createdAt", Task{ID: "x", Title: "bad"}, "createdAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := &countingSlot{Memory: storage.NewMemory()}
			store := newTestStore(t, slot)
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, []Task{good}))
			puts := slot.puts

			err := store.Save(ctx, []Task{good, tt.bad})
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)

			assert.Equal(t, puts, slot.puts)
			assert.Equal(t, []Task{good}, store.Tasks())
			assert.Equal(t, []Task{good}, store.Load(ctx))
		})
	}
}

func TestSave_NormalizesToStoredPrecision(t *testing.T) {
	slot := storage.NewMemory()
	store := newTestStore(t, slot)
	ctx := context.Background()

	due := time.Date(2024, 3, 12, 10, 0, 0, 999_999_999, time.FixedZone("CET", 3600))
	in := []Task{{ID: "a", Title: "Meet Bob", Priority: " HIGH ", CreatedAt: fixedNow, DueDate: &due}}
	require.NoError(t, store.Save(ctx, in))

	saved := store.Tasks()
	assert.Equal(t, 123_000_000, saved[0].CreatedAt.Nanosecond())
	assert.Equal(t, time.UTC, saved[0].CreatedAt.Location())
	assert.Equal(t, PriorityHigh, saved[0].Priority)
	assert.Equal(t, time.Date(2024, 3, 12, 9, 0, 0, 999_000_000, time.UTC), *saved[0].DueDate)

	assert.Equal(t, saved, store.Load(ctx))
	assert.Equal(t, 999_999_999, in[0].DueDate.Nanosecond())
}

func TestViewsAreCopies(t *testing.T) {
	locator := &fakeLocator{loc: &Location{Address: "Central Park, NYC"}}
	store := newTestStore(t, storage.NewMemory(), WithLocator(locator))

	_, err := store.Create(context.Background(), Draft{Title: "x"}, "park")
	require.NoError(t, err)

	view := store.Tasks()
	view[0].Title = "changed"
	view[0].Location.Address = "changed"

	fresh := store.Tasks()
	assert.Equal(t, "x", fresh[0].Title)
	assert.Equal(t, "Central Park, NYC", fresh[0].Location.Address)
}

func TestGet_NotFound(t *testing.T) {
	store := newTestStore(t, storage.NewMemory())
	_, err := store.Get("missing")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDirectionsTo(t *testing.T) {
	ctx := context.Background()
	router := &fakeRouter{result: &googlemaps.DirectionResult{Summary: "Broadway"}}
	locator := &fakeLocator{loc: &Location{Address: "Central Park, NYC", Lat: 40.78, Lng: -73.96}}
	store := newTestStore(t, storage.NewMemory(), WithLocator(locator), WithRouter(router))

	located, err := store.Create(ctx, Draft{Title: "Meet Bob"}, "Central Park")
	require.NoError(t, err)

	dir, err := store.DirectionsTo(ctx, located.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Broadway", dir.Summary)
	assert.Equal(t, DefaultOrigin, router.origin)
	assert.Equal(t, "Central Park, NYC", router.destination)
	assert.Empty(t, router.mode)

	_, err = store.DirectionsTo(ctx, located.ID, "Times Square")
	require.NoError(t, err)
	assert.Equal(t, "Times Square", router.origin)

	_, err = store.DirectionsTo(ctx, "missing", "")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	locator.loc = nil
	unlocated, err := store.Create(ctx, Draft{Title: "Buy milk"}, "")
	require.NoError(t, err)
	_, err = store.DirectionsTo(ctx, unlocated.ID, "")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestConcurrentCreates(t *testing.T) {
	store := New(context.Background(), storage.NewMemory(), WithLogger(logging.NopLogger()))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Create(ctx, Draft{Title: fmt.Sprintf("task %d", i)}, "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	tasks := store.Tasks()
	assert.Len(t, tasks, 20)

	ids := make(map[string]bool)
	for _, task := range tasks {
		ids[task.ID] = true
	}
	assert.Len(t, ids, 20, "ids must be unique")
	assert.Len(t, store.Load(ctx), 20)
}
