package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gradlerepo/internal/server"
	"github.com/matzehuels/gradlerepo/pkg/repository"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local repository over HTTP",
		Long: `Serve the local repository read-only over HTTP so it can be used as a Maven
remote repository. GET /healthz reports liveness and GET /artifacts/<version>
lists the installed Gradle artifacts of a version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := repository.NewResolver(c.cfg.Repository, c.cfg.Layout().GroupID)
			return server.New(paths, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
