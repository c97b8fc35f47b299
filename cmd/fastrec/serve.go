package main

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/jaspervw/fastrec/internal/server"
)

func serveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Serve exposes the advisor over the Model Context Protocol on stdio.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "fastrec": {
        "command": "fastrec",
        "args": ["serve"]
      }
    }
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(flags.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			s, cleanup, err := server.New(server.Options{
				KBPath:  flags.kbPath,
				DataDir: flags.dataDir,
				Logger:  log,
			})
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			// ServeStdio installs its own signal handling and returns
			// when the client disconnects or the process is interrupted.
			return mcpserver.ServeStdio(s)
		},
	}
}
