package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gradlerepo/pkg/distribution"
	"github.com/matzehuels/gradlerepo/pkg/project"
)

// rewriteCommand creates the rewrite command.
func (c *CLI) rewriteCommand() *cobra.Command {
	var (
		force  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "rewrite <pom.xml>...",
		Short: "Replace the gradle-all dependency with the installed Gradle jars",
		Long: `Replace the org.gradle:gradle-all dependency of each pom.xml with one
dependency per jar of that Gradle version, installing the distribution first.

All projects must declare the same Gradle version.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poms, err := parsePOMs(args)
			if err != nil {
				return err
			}

			layout := c.cfg.Layout()
			coord := layout.GroupID + ":" + layout.UmbrellaID
			version, ok, err := project.UmbrellaVersion(poms, layout.GroupID, layout.UmbrellaID)
			if err != nil {
				return err
			}
			if !ok {
				printWarning("No project declares %s", coord)
				return nil
			}

			engine, err := c.newEngine(c.cfg.ToolingAPI, nil)
			if err != nil {
				return err
			}
			res, err := engine.Resolve(cmd.Context(), distribution.Request{Version: version, Force: force})
			if err != nil {
				return err
			}
			ids := res.IDs()

			for _, p := range poms {
				changed, err := p.Rewrite(layout.GroupID, layout.UmbrellaID, ids)
				if err != nil {
					return err
				}
				if !changed {
					printDetail("%s: no %s dependency", p.Path, coord)
					continue
				}
				if dryRun {
					fmt.Fprint(cmd.OutOrStdout(), string(p.Bytes()))
					continue
				}
				if err := p.WriteFile(); err != nil {
					return err
				}
				printSuccess("Rewrote %s", p.Path)
				printDetail("%s %s → %d artifacts", coord, version, len(ids))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "re-download and reinstall the distribution")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print rewritten documents instead of writing them")

	return cmd
}

func parsePOMs(paths []string) ([]*project.POM, error) {
	poms := make([]*project.POM, 0, len(paths))
	for _, path := range paths {
		p, err := project.ParsePOM(path)
		if err != nil {
			return nil, err
		}
		poms = append(poms, p)
	}
	return poms, nil
}
