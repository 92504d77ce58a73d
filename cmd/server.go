package cmd

import (
	"context"
	"log"
	"time"

	"github.com/kris-hansen/chainforge/utils/config"
	"github.com/kris-hansen/chainforge/utils/server"
	"github.com/kris-hansen/chainforge/utils/storage"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the HTTP editing API",
	Long: `Start the Chainforge HTTP server on the configured port
(default: 8080).

Endpoints:
  GET  /health                       Health check
  GET  /chains                       List stored chain documents
  POST /chains/{name}/open           Open an editing session
  GET  /sessions/{name}              Session state
  POST /sessions/{name}/insert       Insert a default node
  POST /sessions/{name}/replace      Replace a subtree
  POST /sessions/{name}/prompt       Edit a prompt, re-derive inputs
  POST /sessions/{name}/extract      Extract inputs from a bare template
  POST /sessions/{name}/commit       Validate, accept and persist

Documents are held in memory unless a Postgres URL is configured under
the server block of ~/.chainforge/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Server logs keep timestamps.
		log.SetFlags(log.LstdFlags)

		serverConfig := envConfig.GetServerConfig()

		var store storage.Store
		if serverConfig.DatabaseURL != "" {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			pg, err := storage.NewPostgresStore(ctx, serverConfig.DatabaseURL)
			if err != nil {
				return err
			}
			defer pg.Close()
			store = pg
			config.VerboseLog("[Server] using Postgres document store")
		} else {
			store = storage.NewMemoryStore()
			config.VerboseLog("[Server] using in-memory document store")
		}

		return server.NewServer(serverConfig, store).Run()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
