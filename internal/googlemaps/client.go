package googlemaps

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/teemow/geotodo/internal/logging"
	"github.com/teemow/geotodo/internal/toolclient"
)

const (
	// DefaultCacheTTL is the search cache lifetime used when a size is
	// configured without one.
	DefaultCacheTTL = 5 * time.Minute

	// SuggestMinLength is the shortest query that produces suggestions.
	SuggestMinLength = 3
	// SuggestLimit caps the number of suggestions returned.
	SuggestLimit = 5
)

// Client exposes the maps tools of a tool server as typed methods.
type Client struct {
	caller toolclient.Caller
	cache  *expirable.LRU[string, PlaceList]
	logger logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache enables a search cache of size entries. A size of zero or less
// leaves SearchPlaces uncached.
func WithCache(size int, ttl time.Duration) Option {
	return func(c *Client) {
		if size <= 0 {
			c.cache = nil
			return
		}
		if ttl <= 0 {
			ttl = DefaultCacheTTL
		}
		c.cache = expirable.NewLRU[string, PlaceList](size, nil, ttl)
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrDefault(l)
	}
}

// NewClient creates a maps client on top of a tool caller. Without WithCache
// every call goes to the tool server.
func NewClient(caller toolclient.Caller, opts ...Option) *Client {
	c := &Client{
		caller: caller,
		logger: logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchPlaces runs a free-text place search, optionally biased towards
// location.
func (c *Client) SearchPlaces(ctx context.Context, query string, location *LatLng) (PlaceList, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Field: "query", Message: "must not be empty"}
	}

	key := searchKey(query, location)
	if c.cache != nil {
		if places, ok := c.cache.Get(key); ok {
			c.logger.Debug("search cache hit", logging.RemoteTool(ToolSearchPlaces))
			return clonePlaces(places), nil
		}
	}

	args := map[string]any{"query": query}
	if location != nil {
		args["location"] = *location
	}

	resp, err := c.caller.CallTool(ctx, ToolSearchPlaces, args)
	if err != nil {
		return nil, err
	}
	places, err := parsePlaces(ToolSearchPlaces, resp)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Add(key, clonePlaces(places))
	}
	return places, nil
}

// GetPlaceDetails fetches the extended record of one place. A server that
// answers with no content yields a nil detail.
func (c *Client) GetPlaceDetails(ctx context.Context, placeID string) (*PlaceDetail, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, &ValidationError{Field: "place_id", Message: "must not be empty"}
	}

	resp, err := c.caller.CallTool(ctx, ToolGetPlaceDetails, map[string]any{"place_id": placeID})
	if err != nil {
		return nil, err
	}
	return parsePlaceDetail(ToolGetPlaceDetails, resp)
}

// GetDirections asks for a route from origin to destination. An empty mode
// means driving.
func (c *Client) GetDirections(ctx context.Context, origin, destination, mode string) (*DirectionResult, error) {
	if strings.TrimSpace(origin) == "" {
		return nil, &ValidationError{Field: "origin", Message: "must not be empty"}
	}
	if strings.TrimSpace(destination) == "" {
		return nil, &ValidationError{Field: "destination", Message: "must not be empty"}
	}
	if mode == "" {
		mode = ModeDriving
	}

	resp, err := c.caller.CallTool(ctx, ToolGetDirections, map[string]any{
		"origin":      origin,
		"destination": destination,
		"mode":        mode,
	})
	if err != nil {
		return nil, err
	}
	return parseDirections(ToolGetDirections, resp)
}

// GetNearbyPlaces lists places within radius meters of location, optionally
// restricted to one place type.
func (c *Client) GetNearbyPlaces(ctx context.Context, location LatLng, radius int, placeType string) (PlaceList, error) {
	if radius <= 0 {
		return nil, &ValidationError{Field: "radius", Message: "must be positive"}
	}

	args := map[string]any{
		"location": location,
		"radius":   radius,
	}
	if placeType != "" {
		args["type"] = placeType
	}

	resp, err := c.caller.CallTool(ctx, ToolNearbySearch, args)
	if err != nil {
		return nil, err
	}
	return parsePlaces(ToolNearbySearch, resp)
}

// SuggestLocations returns up to SuggestLimit type-ahead suggestions. Queries
// shorter than SuggestMinLength characters return nothing without a remote
// call.
func (c *Client) SuggestLocations(ctx context.Context, query string) (PlaceList, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < SuggestMinLength {
		return PlaceList{}, nil
	}

	places, err := c.SearchPlaces(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	if len(places) > SuggestLimit {
		places = places[:SuggestLimit]
	}
	return places, nil
}

// ListTools returns the remote tool catalog.
func (c *Client) ListTools(ctx context.Context) (*toolclient.ToolList, error) {
	return c.caller.ListTools(ctx)
}

func searchKey(query string, location *LatLng) string {
	if location == nil {
		return query
	}
	return query + "@" + location.String()
}

// clonePlaces deep-copies places so cached entries share nothing with
// callers.
func clonePlaces(places PlaceList) PlaceList {
	if places == nil {
		return nil
	}
	out := make(PlaceList, len(places))
	for i, p := range places {
		if p.Rating != nil {
			rating := *p.Rating
			p.Rating = &rating
		}
		p.Types = slices.Clone(p.Types)
		if p.Geometry != nil {
			geometry := *p.Geometry
			if geometry.Location != nil {
				loc := *geometry.Location
				geometry.Location = &loc
			}
			p.Geometry = &geometry
		}
		out[i] = p
	}
	return out
}
