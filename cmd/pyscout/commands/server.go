package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pyscout/internal/errors"
	"github.com/thoreinstein/pyscout/internal/logging"
	"github.com/thoreinstein/pyscout/internal/server"
)

var serverClientLogs bool

func init() {
	serverCmd.Flags().BoolVar(&serverClientLogs, "client-logs", true,
		"mirror warnings and errors to the client as log notifications")
	rootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the JSON-RPC discovery server on stdio",
	Long: `Serve JSON-RPC 2.0 over stdin/stdout with Content-Length framing,
for editors and IDE extensions.

The client drives discovery with configure and refresh requests;
environments stream back as notifications while a scan runs. resolve
and find answer questions about individual interpreters between scans.

Diagnostics go to stderr. Stdout carries protocol frames only.`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := logging.FromContext(cmd.Context())

	srv := server.New(os.Stdin, os.Stdout, discoveryEnv(), logger)
	srv.SetProbeTimeout(cfg.ProbeTimeout)
	if serverClientLogs {
		srv.AttachClientLogs(slog.LevelWarn)
	}

	logger.Info("server listening on stdio")
	if err := srv.Serve(cmd.Context()); err != nil {
		return errors.Wrap(err, "serving")
	}
	return nil
}
