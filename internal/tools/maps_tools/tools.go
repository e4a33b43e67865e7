package maps_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/geotodo/internal/googlemaps"
	"github.com/teemow/geotodo/internal/server"
	"github.com/teemow/geotodo/internal/tools/common"
)

// RegisterMapsTools registers all maps tools with the MCP server
func RegisterMapsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	searchTool := mcp.NewTool("maps_search_places",
		mcp.WithDescription("Search for places matching a free-text query"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("What to search for, e.g. 'coffee near Central Park'"),
		),
		mcp.WithNumber("lat",
			mcp.Description("Latitude to bias results towards (requires lng)"),
		),
		mcp.WithNumber("lng",
			mcp.Description("Longitude to bias results towards (requires lat)"),
		),
	)
	s.AddTool(searchTool, common.InstrumentedToolHandler("maps_search_places", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearchPlaces(ctx, request, sc)
	}))

	detailsTool := mcp.NewTool("maps_get_place_details",
		mcp.WithDescription("Get details of a place: address, phone number, website, opening hours"),
		mcp.WithString("place_id",
			mcp.Required(),
			mcp.Description("The place ID returned by a search"),
		),
	)
	s.AddTool(detailsTool, common.InstrumentedToolHandler("maps_get_place_details", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetPlaceDetails(ctx, request, sc)
	}))

	directionsTool := mcp.NewTool("maps_get_directions",
		mcp.WithDescription("Get directions between two places"),
		mcp.WithString("origin",
			mcp.Required(),
			mcp.Description("Starting point, as an address or place name"),
		),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("End point, as an address or place name"),
		),
		mcp.WithString("mode",
			mcp.Description("Travel mode (default: driving)"),
			mcp.Enum(googlemaps.ModeDriving, googlemaps.ModeWalking, googlemaps.ModeBicycling, googlemaps.ModeTransit),
		),
	)
	s.AddTool(directionsTool, common.InstrumentedToolHandler("maps_get_directions", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetDirections(ctx, request, sc)
	}))

	nearbyTool := mcp.NewTool("maps_get_nearby_places",
		mcp.WithDescription("Find places within a radius of a position"),
		mcp.WithNumber("lat",
			mcp.Required(),
			mcp.Description("Latitude of the center"),
		),
		mcp.WithNumber("lng",
			mcp.Required(),
			mcp.Description("Longitude of the center"),
		),
		mcp.WithNumber("radius",
			mcp.Required(),
			mcp.Description("Search radius in meters"),
		),
		mcp.WithString("type",
			mcp.Description("Place type to filter by, e.g. 'restaurant'"),
		),
	)
	s.AddTool(nearbyTool, common.InstrumentedToolHandler("maps_get_nearby_places", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetNearbyPlaces(ctx, request, sc)
	}))

	suggestTool := mcp.NewTool("maps_suggest_locations",
		mcp.WithDescription("Suggest up to 5 locations for a partially typed query (at least 3 characters)"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The partial location text"),
		),
	)
	s.AddTool(suggestTool, common.InstrumentedToolHandler("maps_suggest_locations", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSuggestLocations(ctx, request, sc)
	}))

	return nil
}

func handleSearchPlaces(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query, err := common.RequiredStringArg(args, "query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	location, err := optionalLatLng(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	places, err := sc.Maps().SearchPlaces(ctx, query, location)
	if err != nil {
		return common.ErrorResult("search places", err), nil
	}
	return common.JSONResult(places)
}

func handleGetPlaceDetails(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	placeID, err := common.RequiredStringArg(request.GetArguments(), "place_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	detail, err := sc.Maps().GetPlaceDetails(ctx, placeID)
	if err != nil {
		return common.ErrorResult("get place details", err), nil
	}
	if detail == nil {
		return mcp.NewToolResultError(fmt.Sprintf("No details found for place %s", placeID)), nil
	}
	return common.JSONResult(detail)
}

func handleGetDirections(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	origin, err := common.RequiredStringArg(args, "origin")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	destination, err := common.RequiredStringArg(args, "destination")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	directions, err := sc.Maps().GetDirections(ctx, origin, destination, common.StringArg(args, "mode"))
	if err != nil {
		return common.ErrorResult("get directions", err), nil
	}
	if directions == nil {
		return mcp.NewToolResultError("No route found"), nil
	}
	return common.JSONResult(directions)
}

func handleGetNearbyPlaces(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	location, err := optionalLatLng(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if location == nil {
		return mcp.NewToolResultError("lat and lng are required"), nil
	}

	radius, ok, err := common.NumberArg(args, "radius")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("radius is required"), nil
	}

	places, err := sc.Maps().GetNearbyPlaces(ctx, *location, int(radius), common.StringArg(args, "type"))
	if err != nil {
		return common.ErrorResult("find nearby places", err), nil
	}
	return common.JSONResult(places)
}

func handleSuggestLocations(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	query := common.StringArg(request.GetArguments(), "query")

	places, err := sc.Maps().SuggestLocations(ctx, query)
	if err != nil {
		return common.ErrorResult("suggest locations", err), nil
	}
	return common.JSONResult(places)
}

// optionalLatLng reads lat/lng. Both or neither must be given.
func optionalLatLng(args map[string]interface{}) (*googlemaps.LatLng, error) {
	lat, hasLat, err := common.NumberArg(args, "lat")
	if err != nil {
		return nil, err
	}
	lng, hasLng, err := common.NumberArg(args, "lng")
	if err != nil {
		return nil, err
	}
	if hasLat != hasLng {
		return nil, fmt.Errorf("lat and lng must be given together")
	}
	if !hasLat {
		return nil, nil
	}
	return &googlemaps.LatLng{Lat: lat, Lng: lng}, nil
}
