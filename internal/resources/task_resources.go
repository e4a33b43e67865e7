package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/geotodo/internal/server"
	"github.com/teemow/geotodo/internal/tasks"
)

const (
	AllTasksURI     = "tasks://all"
	PendingTasksURI = "tasks://pending"

	taskURIPrefix   = "tasks://item/"
	taskURITemplate = taskURIPrefix + "{id}"
)

// RegisterTaskResources registers the task list resources.
func RegisterTaskResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	allResource := mcp.NewResource(
		AllTasksURI,
		"All Tasks",
		mcp.WithResourceDescription("Every task in creation order"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(allResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, sc.Tasks().Tasks())
	})

	pendingResource := mcp.NewResource(
		PendingTasksURI,
		"Pending Tasks",
		mcp.WithResourceDescription("Tasks that are not completed yet"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(pendingResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, sc.Tasks().Pending())
	})

	taskTemplate := mcp.NewResourceTemplate(
		taskURITemplate,
		"Task",
		mcp.WithTemplateDescription("A single task by ID"),
		mcp.WithTemplateMIMEType("application/json"),
	)
	s.AddResourceTemplate(taskTemplate, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleTask(request, sc.Tasks())
	})

	return nil
}

func handleTask(request mcp.ReadResourceRequest, store *tasks.Store) ([]mcp.ResourceContents, error) {
	id := strings.TrimPrefix(request.Params.URI, taskURIPrefix)
	if id == "" || id == request.Params.URI {
		return nil, fmt.Errorf("invalid task URI %q", request.Params.URI)
	}

	task, err := store.Get(id)
	if err != nil {
		return nil, err
	}
	return jsonContents(request.Params.URI, task)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
