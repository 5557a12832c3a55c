package cli

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-augment/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Serve speaks MCP (JSON-RPC 2.0, one message per line) on stdin and stdout.
Configure it in an MCP client as the command "imgaug serve".

Logs go to stderr. Use --verbose, or set IMAGE_AUGMENT_LOG_LEVEL to a level
name such as debug, to see every tool call.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			if env := os.Getenv("IMAGE_AUGMENT_LOG_LEVEL"); env != "" {
				level, err := charmlog.ParseLevel(env)
				if err != nil {
					logger.Warn("ignoring IMAGE_AUGMENT_LOG_LEVEL", "err", err)
				} else {
					logger.SetLevel(level)
				}
			}
			logger.Debug("starting MCP server", "version", version, "commit", commit, "built", date)

			srv := server.New(server.WithLogger(logger), server.WithVersion(version))
			return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
