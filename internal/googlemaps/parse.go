package googlemaps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/teemow/geotodo/internal/toolclient"
)

func decodeError(tool string, err error) error {
	return &toolclient.ProtocolError{Op: "decode", Tool: tool, Err: err}
}

// parsePlaces accepts either a bare array of places or an object carrying
// them under "results". Empty content is an empty list.
func parsePlaces(tool string, resp *toolclient.Response) (PlaceList, error) {
	if resp.Empty() {
		return PlaceList{}, nil
	}

	content := bytes.TrimSpace(resp.Content)
	switch content[0] {
	case '[':
		var places PlaceList
		if err := json.Unmarshal(content, &places); err != nil {
			return nil, decodeError(tool, err)
		}
		return places, nil

	case '{':
		var wrapped struct {
			Results *PlaceList `json:"results"`
		}
		if err := json.Unmarshal(content, &wrapped); err != nil {
			return nil, decodeError(tool, err)
		}
		if wrapped.Results == nil {
			return nil, decodeError(tool, errors.New("expected a list of places"))
		}
		return *wrapped.Results, nil

	default:
		return nil, decodeError(tool, fmt.Errorf("expected a list of places, got %s", kindOf(content)))
	}
}

// parsePlaceDetail decodes a single place object. Empty content yields nil.
func parsePlaceDetail(tool string, resp *toolclient.Response) (*PlaceDetail, error) {
	if resp.Empty() {
		return nil, nil
	}

	content := bytes.TrimSpace(resp.Content)
	if content[0] != '{' {
		return nil, decodeError(tool, fmt.Errorf("expected a place object, got %s", kindOf(content)))
	}

	var wrapped struct {
		Result *PlaceDetail `json:"result"`
	}
	if err := json.Unmarshal(content, &wrapped); err == nil && wrapped.Result != nil {
		return wrapped.Result, nil
	}

	var detail PlaceDetail
	if err := json.Unmarshal(content, &detail); err != nil {
		return nil, decodeError(tool, err)
	}
	return &detail, nil
}

// parseDirections decodes {summary, legs}. A Directions-API style
// {routes: [...]} payload yields its first route. Empty content yields nil.
func parseDirections(tool string, resp *toolclient.Response) (*DirectionResult, error) {
	if resp.Empty() {
		return nil, nil
	}

	content := bytes.TrimSpace(resp.Content)
	if content[0] != '{' {
		return nil, decodeError(tool, fmt.Errorf("expected a directions object, got %s", kindOf(content)))
	}

	var raw struct {
		Summary string            `json:"summary"`
		Legs    []Leg             `json:"legs"`
		Routes  []DirectionResult `json:"routes"`
	}
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, decodeError(tool, err)
	}

	if raw.Summary == "" && len(raw.Legs) == 0 && raw.Routes != nil {
		if len(raw.Routes) == 0 {
			return &DirectionResult{}, nil
		}
		route := raw.Routes[0]
		return &route, nil
	}
	return &DirectionResult{Summary: raw.Summary, Legs: raw.Legs}, nil
}

func kindOf(content []byte) string {
	switch content[0] {
	case '"':
		return "a string"
	case '[':
		return "an array"
	case '{':
		return "an object"
	case 't', 'f':
		return "a boolean"
	default:
		return "a number"
	}
}
