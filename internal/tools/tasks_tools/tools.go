package tasks_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/geotodo/internal/server"
	"github.com/teemow/geotodo/internal/tasks"
	"github.com/teemow/geotodo/internal/tools/batch"
	"github.com/teemow/geotodo/internal/tools/common"
)

// RegisterTasksTools registers all task tools with the MCP server.
// tasks_remove and tasks_remove_many are only registered when readOnly is
// false.
func RegisterTasksTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("tasks_list",
		mcp.WithDescription("List tasks in creation order"),
		mcp.WithString("status",
			mcp.Description("Filter by status (default: all)"),
			mcp.Enum("all", "pending", "completed"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("tasks_list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(ctx, request, sc)
	}))

	createTool := mcp.NewTool("tasks_create",
		mcp.WithDescription("Create a task. A location, if given, is resolved to an address and coordinates; if that fails the task is created without one."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("description",
			mcp.Description("Longer description"),
		),
		mcp.WithString("location",
			mcp.Description("Free-text location, e.g. 'Central Park'"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority (default: medium)"),
			mcp.Enum(string(tasks.PriorityLow), string(tasks.PriorityMedium), string(tasks.PriorityHigh)),
		),
		mcp.WithString("due",
			mcp.Description("Due date, RFC3339 (2024-03-12T09:00:00Z) or YYYY-MM-DD"),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandler("tasks_create", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreate(ctx, request, sc)
	}))

	toggleTool := mcp.NewTool("tasks_toggle",
		mcp.WithDescription("Mark a pending task completed, or a completed task pending"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
	)
	s.AddTool(toggleTool, common.InstrumentedToolHandler("tasks_toggle", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleToggle(ctx, request, sc)
	}))

	toggleManyTool := mcp.NewTool("tasks_toggle_many",
		mcp.WithDescription("Toggle several tasks at once. Unknown IDs are reported per ID and do not stop the others."),
		mcp.WithArray("ids",
			mcp.Required(),
			mcp.Description("Task IDs (a single ID string is accepted too)"),
			mcp.WithStringItems(),
		),
	)
	s.AddTool(toggleManyTool, common.InstrumentedToolHandler("tasks_toggle_many", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleToggleMany(ctx, request, sc)
	}))

	directionsTool := mcp.NewTool("tasks_directions",
		mcp.WithDescription("Get directions to the location of a task"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task ID"),
		),
		mcp.WithString("origin",
			mcp.Description(fmt.Sprintf("Starting point (default: %q)", tasks.DefaultOrigin)),
		),
	)
	s.AddTool(directionsTool, common.InstrumentedToolHandler("tasks_directions", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDirections(ctx, request, sc)
	}))

	if !readOnly {
		removeTool := mcp.NewTool("tasks_remove",
			mcp.WithDescription("Delete a task. Deleting an unknown ID succeeds without changes."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Task ID"),
			),
		)
		s.AddTool(removeTool, common.InstrumentedToolHandler("tasks_remove", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRemove(ctx, request, sc)
		}))

		removeManyTool := mcp.NewTool("tasks_remove_many",
			mcp.WithDescription("Delete several tasks at once"),
			mcp.WithArray("ids",
				mcp.Required(),
				mcp.Description("Task IDs (a single ID string is accepted too)"),
				mcp.WithStringItems(),
			),
		)
		s.AddTool(removeManyTool, common.InstrumentedToolHandler("tasks_remove_many", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRemoveMany(ctx, request, sc)
		}))
	}

	return nil
}

func handleList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	store := sc.Tasks()

	var list []tasks.Task
	switch status := common.StringArg(request.GetArguments(), "status"); status {
	case "", "all":
		list = store.Tasks()
	case "pending":
		list = store.Pending()
	case "completed":
		list = store.Completed()
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid status %q, must be one of: all, pending, completed", status)), nil
	}

	return common.JSONResult(list)
}

func handleCreate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	draft := tasks.Draft{
		Title:       common.StringArg(args, "title"),
		Description: common.StringArg(args, "description"),
		Priority:    tasks.Priority(common.StringArg(args, "priority")),
	}
	if due := common.StringArg(args, "due"); due != "" {
		t, err := tasks.ParseDueDate(due)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		draft.DueDate = &t
	}

	task, err := sc.Tasks().Create(ctx, draft, common.StringArg(args, "location"))
	if err != nil {
		return common.ErrorResult("create task", err), nil
	}

	return common.JSONResult(task)
}

func handleToggle(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	id, err := common.RequiredStringArg(request.GetArguments(), "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := sc.Tasks().ToggleCompleted(ctx, id)
	if err != nil {
		return common.ErrorResult("toggle task", err), nil
	}
	return common.JSONResult(task)
}

func handleRemove(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	id, err := common.RequiredStringArg(request.GetArguments(), "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sc.Tasks().Remove(ctx, id); err != nil {
		return common.ErrorResult("remove task", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Task %s removed", id)), nil
}

func handleToggleMany(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ids, err := batch.ParseIDs(request.GetArguments()["ids"], "ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary := batch.Run(ctx, ids, func(ctx context.Context, id string) (string, error) {
		task, err := sc.Tasks().ToggleCompleted(ctx, id)
		if err != nil {
			return "", err
		}
		return "now " + task.Status(), nil
	})
	return common.JSONResult(summary)
}

func handleRemoveMany(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ids, err := batch.ParseIDs(request.GetArguments()["ids"], "ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary := batch.Run(ctx, ids, func(ctx context.Context, id string) (string, error) {
		if err := sc.Tasks().Remove(ctx, id); err != nil {
			return "", err
		}
		return "removed", nil
	})
	return common.JSONResult(summary)
}

func handleDirections(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	id, err := common.RequiredStringArg(args, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	directions, err := sc.Tasks().DirectionsTo(ctx, id, common.StringArg(args, "origin"))
	if err != nil {
		return common.ErrorResult("get directions", err), nil
	}
	if directions == nil {
		return mcp.NewToolResultError("No route found"), nil
	}
	return common.JSONResult(directions)
}
