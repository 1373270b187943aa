package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gradlerepo/pkg/distribution"
	"github.com/matzehuels/gradlerepo/pkg/observability"
)

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		force        bool
		paths        bool
		noToolingAPI bool
		artifacts    []string
	)

	cmd := &cobra.Command{
		Use:   "resolve <version>",
		Short: "Install a Gradle distribution into the local repository",
		Long: `Install a Gradle distribution into the local repository and print the
installed artifact ids (or file paths with --paths), one per line.

Without --artifact every jar of the distribution is installed. With --artifact
only the named jars are installed, and nothing is downloaded if they are
already present.`,
		Example: `  gradlerepo resolve 8.5
  gradlerepo resolve 8.5 --paths
  gradlerepo resolve 8.5 --artifact gradle-core-api --artifact gradle-tooling-api`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := &observability.Recorder{}
			engine, err := c.newEngine(c.cfg.ToolingAPI && !noToolingAPI, rec)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			res, err := engine.Resolve(cmd.Context(), distribution.Request{
				Version:   args[0],
				Force:     force,
				Artifacts: artifacts,
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Resolved %d artifacts for Gradle %s", len(res.Artifacts), res.Version))
			c.Logger.Debug("transfer summary", "downloads", len(rec.Downloads()), "bytes", rec.Bytes(), "extracted", len(rec.Extracted()))

			lines := res.IDs()
			if paths {
				lines = res.Paths()
			}
			out := cmd.OutOrStdout()
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "re-download and reinstall even if present")
	cmd.Flags().BoolVar(&paths, "paths", false, "print jar paths instead of artifact ids")
	cmd.Flags().BoolVar(&noToolingAPI, "no-tooling-api", false, "do not fetch gradle-tooling-api")
	cmd.Flags().StringArrayVarP(&artifacts, "artifact", "a", nil, "install only this artifact id (repeatable)")

	return cmd
}
