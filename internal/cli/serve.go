package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/internal/server"
	"github.com/matzehuels/gridboard/pkg/buildinfo"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over a JSON HTTP API",
		Long: `Serve the board over HTTP until interrupted.

All requests share one session, so edits from several clients interleave
into one history. The board is saved after every change and once more on
shutdown.`,
		Example: `  gridboard serve --addr :8080
  curl -X POST localhost:8080/blocks -d '{"type":"text"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withBoard(c.context(cmd), func(ctx context.Context, b *board) error {
				if addr == "" {
					addr = b.cfg.Server.Addr
				}
				printInfo("Serving board %s on %s", StyleHighlight.Render(b.cfg.Store.Namespace), StyleLink.Render("http://"+addr))
				printDetail("gridboard %s", buildinfo.Short())
				return server.New(b.sess, loggerFromContext(ctx)).Run(ctx, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")

	return cmd
}
