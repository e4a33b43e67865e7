package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/geotodo/internal/server"
	"github.com/teemow/geotodo/internal/toolclient"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools offered by the maps tool server",
		Long: `List the tools offered by the remote maps tool server. Useful to check the
endpoint and transport settings before using places or directions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServerContext(cmd, func(ctx context.Context, sc *server.ServerContext) error {
				list, err := sc.Caller().ListTools(ctx)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), flags.output, list, func(w io.Writer) error {
					return writeToolList(w, list)
				})
			})
		},
	}
}

func writeToolList(w io.Writer, list *toolclient.ToolList) error {
	if list == nil || len(list.Tools) == 0 {
		_, err := fmt.Fprintln(w, "The server offers no tools.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDESCRIPTION")
	for _, t := range list.Tools {
		fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.Description)
	}
	return tw.Flush()
}
