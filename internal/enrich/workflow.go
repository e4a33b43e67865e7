package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/teemow/geotodo/internal/googlemaps"
	"github.com/teemow/geotodo/internal/instrumentation"
	"github.com/teemow/geotodo/internal/logging"
	"github.com/teemow/geotodo/internal/tasks"
)

// ErrNoMatch is returned by Locate when the search has no results.
var ErrNoMatch = errors.New("no place matches the location query")

// Searcher is the part of the maps facade the workflow needs.
type Searcher interface {
	SearchPlaces(ctx context.Context, query string, location *googlemaps.LatLng) (googlemaps.PlaceList, error)
}

// Workflow turns a location query into a tasks.Location.
type Workflow struct {
	search  Searcher
	logger  logging.Logger
	metrics *instrumentation.Metrics
}

var _ tasks.Locator = (*Workflow)(nil)

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(w *Workflow) {
		w.logger = logging.OrDefault(l)
	}
}

// WithMetrics records every lookup in enrichment_results_total.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(w *Workflow) {
		w.metrics = m
	}
}

// NewWorkflow creates a workflow searching through s.
func NewWorkflow(s Searcher, opts ...Option) *Workflow {
	w := &Workflow{
		search: s,
		logger: logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Locate searches for query and returns the first result's address and
// coordinates. Missing coordinates become 0.
func (w *Workflow) Locate(ctx context.Context, query string) (*tasks.Location, error) {
	places, err := w.search.SearchPlaces(ctx, query, nil)
	if err != nil {
		w.metrics.RecordEnrichment(ctx, instrumentation.EnrichmentError)
		return nil, fmt.Errorf("failed to resolve location: %w", err)
	}
	if len(places) == 0 {
		w.metrics.RecordEnrichment(ctx, instrumentation.EnrichmentNoMatch)
		w.logger.Debug("location query has no match", logging.QueryHash(query))
		return nil, ErrNoMatch
	}

	first := places[0]
	pos, _ := first.Coordinates()
	w.metrics.RecordEnrichment(ctx, instrumentation.EnrichmentMatched)
	w.logger.Debug("location resolved", logging.QueryHash(query), "place_id", first.PlaceID)

	return &tasks.Location{
		Address: first.FormattedAddress,
		Lat:     pos.Lat,
		Lng:     pos.Lng,
	}, nil
}
