package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/geotodo/internal/googlemaps"
	"github.com/teemow/geotodo/internal/server"
)

func newDirectionsCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "directions <origin> <destination>",
		Short: "Get directions between two places",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServerContext(cmd, func(ctx context.Context, sc *server.ServerContext) error {
				result, err := sc.Maps().GetDirections(ctx, args[0], args[1], mode)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), flags.output, result, func(w io.Writer) error {
					return writeDirections(w, result)
				})
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", googlemaps.ModeDriving, "Travel mode: driving, walking, bicycling or transit")
	return cmd
}
