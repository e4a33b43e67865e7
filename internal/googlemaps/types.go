package googlemaps

import "fmt"

// Remote tool names.
const (
	ToolSearchPlaces    = "search_places"
	ToolGetPlaceDetails = "get_place_details"
	ToolGetDirections   = "get_directions"
	ToolNearbySearch    = "nearby_search"
)

// Travel modes understood by get_directions.
const (
	ModeDriving   = "driving"
	ModeWalking   = "walking"
	ModeBicycling = "bicycling"
	ModeTransit   = "transit"
)

// LatLng is a geographic coordinate in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l LatLng) String() string {
	return fmt.Sprintf("%.6f,%.6f", l.Lat, l.Lng)
}

// Geometry holds the position of a place.
type Geometry struct {
	Location *LatLng `json:"location,omitempty"`
}

// Place is one search result.
type Place struct {
	PlaceID          string    `json:"place_id"`
	Name             string    `json:"name"`
	FormattedAddress string    `json:"formatted_address"`
	Rating           *float64  `json:"rating,omitempty"`
	Types            []string  `json:"types,omitempty"`
	Geometry         *Geometry `json:"geometry,omitempty"`
}

// Coordinates returns the place position, or false when the server sent no
// geometry.
func (p Place) Coordinates() (LatLng, bool) {
	if p.Geometry == nil || p.Geometry.Location == nil {
		return LatLng{}, false
	}
	return *p.Geometry.Location, true
}

// PlaceList is an ordered list of places as returned by the server.
type PlaceList []Place

// OpeningHours is the human-readable weekly schedule of a place.
type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// PlaceDetail is the extended record returned by get_place_details.
type PlaceDetail struct {
	Place
	FormattedPhoneNumber string        `json:"formatted_phone_number,omitempty"`
	Website              string        `json:"website,omitempty"`
	OpeningHours         *OpeningHours `json:"opening_hours,omitempty"`
}

// TextValue is a measurement with its display text.
type TextValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value,omitempty"`
}

// Leg is one segment of a route. Legs are kept in route order.
type Leg struct {
	Duration     TextValue `json:"duration"`
	Distance     TextValue `json:"distance"`
	StartAddress string    `json:"start_address"`
	EndAddress   string    `json:"end_address"`
}

// DirectionResult is a route summary with its legs.
type DirectionResult struct {
	Summary string `json:"summary"`
	Legs    []Leg  `json:"legs"`
}

// ValidationError reports bad caller input, detected before any remote call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
