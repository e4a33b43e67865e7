// Package googlemaps wraps the maps tools of a remote tool server in typed,
// fixed-argument methods: place search, place details, directions and nearby
// search, plus type-ahead location suggestions.
//
// Required inputs are checked locally and rejected with a *ValidationError
// before anything is sent. Payloads are decoded here, at the boundary; a
// payload of the wrong shape is a *toolclient.ProtocolError.
package googlemaps
