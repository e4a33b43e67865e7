// Package batch runs one task operation over several task IDs and reports
// per-ID outcomes, so that a single failing ID does not fail the whole call.
package batch
