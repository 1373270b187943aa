package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gradlerepo/pkg/errors"
	"github.com/matzehuels/gradlerepo/pkg/repository"
)

// repoCommand creates the local repository management command.
func (c *CLI) repoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage the local repository",
	}

	cmd.AddCommand(c.repoPathCommand())
	cmd.AddCommand(c.repoCleanCommand())

	return cmd
}

// repoPathCommand creates the "repo path" subcommand.
func (c *CLI) repoPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the local repository directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cfg.Repository)
			return nil
		},
	}
}

// repoCleanCommand creates the "repo clean" subcommand.
func (c *CLI) repoCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean <version>",
		Short: "Remove every installed artifact of a Gradle version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := args[0]
			if err := errors.ValidateVersion(version); err != nil {
				return err
			}

			paths := repository.NewResolver(c.cfg.Repository, c.cfg.Layout().GroupID)
			count, err := cleanVersion(paths, version)
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Nothing installed for Gradle %s", version)
				return nil
			}
			printSuccess("Removed %d artifacts of Gradle %s", count, version)
			printDetail("Directory: %s", paths.GroupDir())
			return nil
		},
	}
}

// cleanVersion removes <group>/<id>/<version> for every artifact id and then
// any artifact directory left empty. It returns the number of versions removed.
func cleanVersion(paths *repository.Resolver, version string) (int, error) {
	entries, err := os.ReadDir(paths.GroupDir())
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeFilesystem, err, "couldn't list %s", paths.GroupDir())
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := paths.Dir(e.Name(), version)
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return count, errors.Wrap(errors.ErrCodeFilesystem, err, "couldn't remove %s", dir)
		}
		count++
		_ = os.Remove(filepath.Dir(dir)) // Only succeeds when empty
	}
	return count, nil
}
