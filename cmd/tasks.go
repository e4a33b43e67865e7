package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/geotodo/internal/server"
	"github.com/teemow/geotodo/internal/tasks"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"todo"},
		Short:   "Manage the local task list",
	}

	cmd.AddCommand(newTasksAddCmd())
	cmd.AddCommand(newTasksListCmd())
	cmd.AddCommand(newTasksToggleCmd())
	cmd.AddCommand(newTasksRemoveCmd())
	cmd.AddCommand(newTasksDirectionsCmd())
	return cmd
}

func newTasksAddCmd() *cobra.Command {
	var description, location, priority, due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task, optionally resolving a location",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := tasks.Draft{
				Title:       strings.Join(args, " "),
				Description: description,
				Priority:    tasks.Priority(priority),
			}
			if strings.TrimSpace(due) != "" {
				d, err := tasks.ParseDueDate(due)
				if err != nil {
					return err
				}
				draft.DueDate = &d
			}

			return withServerContext(cmd, func(ctx context.Context, sc *server.ServerContext) error {
				task, err := sc.Tasks().Create(ctx, draft, location)
				if err != nil {
					return err
				}
				if strings.TrimSpace(location) != "" && task.Location == nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not resolve location %q, task saved without it\n", location)
				}
				return render(cmd.OutOrStdout(), flags.output, task, func(w io.Writer) error {
					return writeTask(w, task)
				})
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Free-text notes")
	cmd.Flags().StringVarP(&location, "location", "l", "", "Free-text location to resolve (e.g. \"Central Park\")")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: low, medium or high (default medium)")
	cmd.Flags().StringVar(&due, "due", "", "Due date as YYYY-MM-DD or RFC3339")
	return cmd
}

func newTasksListCmd() *cobra.Command {
	var pending, completed bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pending && completed {
				return errors.New("--pending and --completed are mutually exclusive")
			}
			return withServerContext(cmd, func(ctx context.Context, sc *server.ServerContext) error {
				list := selectTasks(sc.Tasks(), pending, completed)
				return render(cmd.OutOrStdout(), flags.output, list, func(w io.Writer) error {
					return writeTasks(w, list)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&pending, "pending", false, "Only show pending tasks")
	cmd.Flags().BoolVar(&completed, "completed", false, "Only show completed tasks")
	return cmd
}

func selectTasks(store *tasks.Store, pending, completed bool) []tasks.Task {
	switch {
	case pending:
		return store.Pending()
	case completed:
		return store.Completed()
	default:
		return store.Tasks()
	}
}

func newTasksToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the completed flag of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServerContext(cmd, func(ctx context.Context, sc *server.ServerContext) error {
				task, err := sc.Tasks().ToggleCompleted(ctx, args[0])
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), flags.output, task, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Task %s is now %s.\n", task.ID, task.Status())
					return err
				})
			})
		},
	}
}

func newTasksRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServerContext(cmd, func(ctx context.Context, sc *server.ServerContext) error {
				if err := sc.Tasks().Remove(ctx, args[0]); err != nil {
					return err
				}
				result := map[string]any{"id": args[0], "removed": true}
				return render(cmd.OutOrStdout(), flags.output, result, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Task %s removed.\n", args[0])
					return err
				})
			})
		},
	}
}

func newTasksDirectionsCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "directions <id>",
		Short: "Directions to the location of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServerContext(cmd, func(ctx context.Context, sc *server.ServerContext) error {
				result, err := sc.Tasks().DirectionsTo(ctx, args[0], from)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), flags.output, result, func(w io.Writer) error {
					return writeDirections(w, result)
				})
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", tasks.DefaultOrigin, "Origin of the route")
	return cmd
}
