package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gradlerepo/pkg/project"
)

// checkCommand creates the check command. It never modifies anything.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [pom.xml]...",
		Short: "Show the configuration and check pom.xml files for gradle-all",
		Long: `Show the effective configuration and report, for each pom.xml, whether it
declares org.gradle:gradle-all. Defaults to ./pom.xml when it exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := c.cfg.Layout()
			printKeyValue("Repository", c.cfg.Repository)
			printKeyValue("Downloads", layout.DistributionURL)
			printKeyValue("Releases", layout.ReleasesURL)
			if p := c.cfg.FetchProxy(); p != nil {
				printKeyValue("Proxy", p.String())
			}

			if len(args) == 0 {
				if _, err := os.Stat("pom.xml"); err != nil {
					return nil
				}
				args = []string{"pom.xml"}
			}

			poms, err := parsePOMs(args)
			if err != nil {
				return err
			}
			coord := layout.GroupID + ":" + layout.UmbrellaID
			for _, p := range poms {
				r := project.Check(p, layout.GroupID, layout.UmbrellaID)
				if r.Declared {
					printSuccess("%s declares %s %s", r.Path, coord, r.Version)
				} else {
					printWarning("%s does not declare %s", r.Path, coord)
				}
			}

			_, _, err = project.UmbrellaVersion(poms, layout.GroupID, layout.UmbrellaID)
			return err
		},
	}
}
