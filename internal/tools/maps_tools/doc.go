// Package maps_tools provides MCP tools that expose the maps facade.
//
// # Available Tools
//
//   - maps_search_places: Free-text place search, optionally biased to a position
//   - maps_get_place_details: Extended record of one place
//   - maps_get_directions: Route between two places (mode defaults to driving)
//   - maps_get_nearby_places: Places within a radius of a position
//   - maps_suggest_locations: Type-ahead suggestions for a partial location
//
// All tools are read-only. Results are JSON text; failures are tool error
// results naming the failure class.
package maps_tools
