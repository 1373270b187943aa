package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gradlerepo/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags are applied before any subcommand runs: the log level is
// set and the config file is loaded with flag overrides on top.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gradlerepo installs Gradle distributions into a local Maven repository",
		Long: `gradlerepo downloads a Gradle distribution, extracts its jars into a local
Maven repository with generated POM descriptors, and rewrites Maven projects
that depend on org.gradle:gradle-all to depend on the individual jars instead.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.SetLogLevel(c.logLevel())
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gradlerepo/config.toml)")
	flags.StringVarP(&c.repository, "repository", "r", "", "local repository directory (default ~/.m2/repository)")
	flags.StringVar(&c.proxy, "proxy", "", "proxy as host:port or scheme://host:port")
	flags.StringVar(&c.proxyUser, "proxy-user", "", "proxy username")
	flags.StringVar(&c.proxyPassword, "proxy-password", "", "proxy password")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.BoolVarP(&c.quiet, "quiet", "q", false, "only log warnings and errors")

	// Register all subcommands
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.rewriteCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.repoCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
