package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-manuals/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the manual engine over HTTP.

Routes:
  POST   /v1/conversations/:id/manual                    ingest sources
  GET    /v1/conversations/:id/manual                    manual status
  DELETE /v1/conversations/:id/manual/sources/:sourceId  remove a source
  POST   /v1/conversations/:id/manual/query              retrieve fragments
  DELETE /v1/owners/:type/:id/manual                     delete an owner's manual
  GET    /healthz

The caller is identified by the X-Principal-ID header.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if manualService == nil {
		return errors.New("manual service not configured")
	}

	addr := serveAddr
	if addr == "" {
		addr = listenAddr()
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Manuals:   manualService,
		Owners:    ownerResolver,
		Retrieval: retrievalService,
	})
	if err != nil {
		return err
	}

	cmd.Printf("HTTP API listening on http://%s\n", addr)
	if err := server.Run(cmd.Context(), addr); err != nil {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

// listenAddr returns the configured listen address.
func listenAddr() string {
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil && s.Server.Addr != "" {
			return s.Server.Addr
		}
		return settingsService.GetDefaults().Server.Addr
	}
	return "127.0.0.1:8080"
}
