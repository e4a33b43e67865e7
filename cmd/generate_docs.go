package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/geotodo/internal/config"
	"github.com/teemow/geotodo/internal/logging"
	"github.com/teemow/geotodo/internal/server"
	"github.com/teemow/geotodo/internal/storage"
)

// toolCategories maps a tool name prefix to its section heading.
var toolCategories = map[string]string{
	"maps":  "Maps Tools",
	"tasks": "Task Tools",
}

const otherCategory = "Other"

func newGenerateDocsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate a markdown reference of every tool served by "geotodo serve".
The reference is built from the registered tool definitions, including the
task removal tools that are only served with --yolo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := servedTools()
			if err != nil {
				return err
			}
			markdown := generateToolsMarkdown(tools)

			if file == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), markdown)
				return err
			}
			if err := os.WriteFile(file, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Output file (default: stdout)")

	return cmd
}

// servedTools registers every tool group against a throwaway server. Tool
// definitions do not touch the remote endpoint or stored tasks.
func servedTools() ([]mcp.Tool, error) {
	cfg := config.DefaultConfig()
	cfg.Store = storage.BackendMemory

	sc, err := server.NewServerContext(context.Background(), cfg,
		server.WithLogger(logging.NopLogger()),
		server.WithVersion(version),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	mcpSrv, err := newMCPServer(sc, false)
	if err != nil {
		return nil, err
	}

	tools := make([]mcp.Tool, 0)
	for _, st := range mcpSrv.ListTools() {
		tools = append(tools, st.Tool)
	}
	return tools, nil
}

func getCategoryFromToolName(name string) string {
	prefix, _, _ := strings.Cut(name, "_")
	if category, ok := toolCategories[prefix]; ok {
		return category
	}
	return otherCategory
}

func generateToolsMarkdown(tools []mcp.Tool) string {
	byCategory := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		category := getCategoryFromToolName(tool.Name)
		byCategory[category] = append(byCategory[category], tool)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	slices.Sort(categories)

	var sb strings.Builder
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("Tools served by `geotodo serve`. Generated from the tool definitions with `geotodo generate-docs`.\n\n")

	sb.WriteString("## Table of Contents\n\n")
	for _, category := range categories {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", category, strings.ToLower(strings.ReplaceAll(category, " ", "-")))
	}

	sb.WriteString("\n## Conventions\n\n")
	sb.WriteString("- Maps tools forward to the remote maps tool server configured with `--endpoint`.\n")
	sb.WriteString("- Task tools operate on the local task list. `tasks_remove` and `tasks_remove_many` need `--yolo`.\n")
	sb.WriteString("- Failures are reported as tool errors with a human-readable message.\n\n")

	for _, category := range categories {
		group := byCategory[category]
		slices.SortFunc(group, func(a, b mcp.Tool) int { return strings.Compare(a.Name, b.Name) })

		fmt.Fprintf(&sb, "## %s\n\n", category)
		for _, tool := range group {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		sb.WriteString(tool.Description)
		sb.WriteString("\n\n")
	}

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return sb.String()
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)

	sb.WriteString("**Arguments:**\n")
	for _, name := range names {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		presence := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			presence = "required"
		}
		fmt.Fprintf(&sb, "- `%s` (%s): %s", name, presence, propertyDescription(prop))
		if values, ok := prop["enum"].([]string); ok && len(values) > 0 {
			fmt.Fprintf(&sb, " One of: `%s`.", strings.Join(values, "`, `"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func propertyDescription(prop map[string]any) string {
	if desc, ok := prop["description"].(string); ok && desc != "" {
		return desc
	}
	if typ, ok := prop["type"].(string); ok {
		return typ + " parameter"
	}
	return "any parameter"
}
