package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/michaperki/mila/internal/mcp"
)

func init() {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server on stdio",
		Long: `Start an MCP (Model Context Protocol) server on stdio, exposing
segment_text, extract_root, transliterate, strip_nikud, gloss_for_root
and search_gloss to LLM agents.`,
		Example: `  # claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "mila": {"command": "mila", "args": ["mcp"]}
  #   }
  # }`,
		RunE: runMCP,
	}

	RootCmd.AddCommand(cmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a := loadApp()
	server := mcp.NewServer(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Logger.Info("mcp server starting on stdio", slog.String("name", mcp.ServerName))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("mcp server shutting down")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
