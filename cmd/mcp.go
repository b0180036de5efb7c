package cmd

import (
	"github.com/agentic-research/jsxprops/internal/mcptool"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the extraction tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := mcptool.NewServer(Version, &mcptool.Handlers{
				Extractor: a.extractor(),
				Logger:    a.logger,
			})
			a.logger.Info("serving MCP on stdio", "version", Version)
			return server.ServeStdio(s)
		},
	}
}
