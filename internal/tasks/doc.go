// Package tasks manages a local list of location-tagged tasks.
//
// The Store keeps the ordered task collection in memory and writes it through
// to one storage slot on every mutation. A mutation whose write fails is not
// applied, so memory and slot never diverge. Loading is fail-soft: an absent
// or unreadable slot yields an empty list.
//
// When a task is created with a location query, the store asks its Locator to
// resolve the query into an address and coordinates. Any lookup failure
// leaves the task without a location; it never fails the create.
//
// # Example Usage
//
//	store := tasks.New(ctx, backend,
//	    tasks.WithLocator(enrich.NewWorkflow(maps)),
//	    tasks.WithRouter(maps))
//
//	task, err := store.Create(ctx, tasks.Draft{Title: "Meet Bob"}, "Central Park")
//	if err != nil {
//	    return err
//	}
//
//	_, err = store.ToggleCompleted(ctx, task.ID)
//
// The slot holds the versioned encoding produced by Encode; Decode also
// accepts the older bare-array layout.
package tasks
