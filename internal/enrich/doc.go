// Package enrich resolves the free-text location a user typed next to a task
// into an address and coordinates.
//
// The workflow is deliberately small: search, take the first result. The task
// store treats every error from Locate as "no location", so a flaky maps
// server never blocks task creation.
package enrich
