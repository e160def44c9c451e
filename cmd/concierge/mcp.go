package main

import (
	"github.com/spf13/cobra"

	"github.com/concierge-chat/concierge/internal/knowledge"
	"github.com/concierge-chat/concierge/internal/mcpserver"
	"github.com/concierge-chat/concierge/pkg/app"
)

// mcpCmd serves the knowledge base as MCP tools over stdio. It loads the
// same seed sources as the gateway but runs no HTTP server.
func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the knowledge base as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seedFile, _ := cmd.Flags().GetString("seed-file")
			noBuiltin, _ := cmd.Flags().GetBool("no-builtin-seed")

			store := knowledge.NewStore()
			if !noBuiltin {
				store.BulkImport(knowledge.SeedEntries())
			}
			if seedFile != "" {
				entries, err := app.LoadSeedFile(seedFile)
				if err != nil {
					return err
				}
				store.BulkImport(entries)
			}

			srv := mcpserver.New(store, knowledge.NewSearcher(store), version)
			return srv.ServeStdio()
		},
	}
	cmd.Flags().String("seed-file", "", "YAML seed file to load")
	cmd.Flags().Bool("no-builtin-seed", false, "Skip the built-in seed entries")
	return cmd
}
