package cmd

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/geotodo/internal/googlemaps"
	"github.com/teemow/geotodo/internal/server"
)

func newPlacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Search places through the maps tool server",
	}

	cmd.AddCommand(newPlacesSearchCmd())
	cmd.AddCommand(newPlacesDetailsCmd())
	cmd.AddCommand(newPlacesNearbyCmd())
	cmd.AddCommand(newPlacesSuggestCmd())
	return cmd
}

func newPlacesSearchCmd() *cobra.Command {
	var lat, lng float64

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search places by free text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			near, err := latLngFlags(cmd, lat, lng)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			return withServerContext(cmd, func(ctx context.Context, sc *server.ServerContext) error {
				places, err := sc.Maps().SearchPlaces(ctx, query, near)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), flags.output, places, func(w io.Writer) error {
					return writePlaces(w, places)
				})
			})
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude to bias results towards (requires --lng)")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude to bias results towards (requires --lat)")
	return cmd
}

// latLngFlags returns nil when neither --lat nor --lng was given.
func latLngFlags(cmd *cobra.Command, lat, lng float64) (*googlemaps.LatLng, error) {
	latSet := cmd.Flags().Changed("lat")
	lngSet := cmd.Flags().Changed("lng")
	switch {
	case !latSet && !lngSet:
		return nil, nil
	case latSet != lngSet:
		return nil, errors.New("--lat and --lng must be given together")
	}
	return &googlemaps.LatLng{Lat: lat, Lng: lng}, nil
}

func newPlacesDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details <place-id>",
		Short: "Show the details of a place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServerContext(cmd, func(ctx context.Context, sc *server.ServerContext) error {
				detail, err := sc.Maps().GetPlaceDetails(ctx, args[0])
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), flags.output, detail, func(w io.Writer) error {
					return writePlaceDetail(w, detail)
				})
			})
		},
	}
}

func newPlacesNearbyCmd() *cobra.Command {
	var (
		lat, lng  float64
		radius    int
		placeType string
	)

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List places within a radius of a coordinate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			center, err := latLngFlags(cmd, lat, lng)
			if err != nil {
				return err
			}
			if center == nil {
				return errors.New("--lat and --lng are required")
			}
			return withServerContext(cmd, func(ctx context.Context, sc *server.ServerContext) error {
				places, err := sc.Maps().GetNearbyPlaces(ctx, *center, radius, placeType)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), flags.output, places, func(w io.Writer) error {
					return writePlaces(w, places)
				})
			})
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude of the center")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude of the center")
	cmd.Flags().IntVar(&radius, "radius", 1000, "Search radius in meters")
	cmd.Flags().StringVar(&placeType, "type", "", "Restrict results to a place type (e.g. cafe)")
	return cmd
}

func newPlacesSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <query>",
		Short: "Type-ahead location suggestions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return withServerContext(cmd, func(ctx context.Context, sc *server.ServerContext) error {
				places, err := sc.Maps().SuggestLocations(ctx, query)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), flags.output, places, func(w io.Writer) error {
					return writePlaces(w, places)
				})
			})
		},
	}
}
