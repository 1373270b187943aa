// Package cli implements the gradlerepo command-line interface.
//
// The commands install Gradle distributions into a local Maven repository
// and point Maven projects at the installed artifacts:
//   - resolve: install a distribution version and list its artifacts
//   - rewrite: replace the gradle-all dependency of pom.xml files
//   - check: report whether pom.xml files declare gradle-all
//   - repo: inspect or clean the local repository
//   - serve: expose the repository over HTTP
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and --quiet (-q)
// to show warnings only. Logs go to stderr; command results go to stdout.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gradlerepo/pkg/buildinfo"
	"github.com/matzehuels/gradlerepo/pkg/config"
	"github.com/matzehuels/gradlerepo/pkg/distribution"
	"github.com/matzehuels/gradlerepo/pkg/errors"
	"github.com/matzehuels/gradlerepo/pkg/fetch"
	"github.com/matzehuels/gradlerepo/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gradlerepo"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags
	configPath    string
	repository    string
	proxy         string
	proxyUser     string
	proxyPassword string
	verbose       bool
	quiet         bool

	cfg config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// logLevel maps --verbose and --quiet onto a level; --verbose wins.
func (c *CLI) logLevel() log.Level {
	switch {
	case c.verbose:
		return LogDebug
	case c.quiet:
		return LogWarn
	default:
		return LogInfo
	}
}

// FormatError renders a command error for stderr, tagged with its code when
// it has one.
func FormatError(err error) string {
	msg := errors.UserMessage(err)
	if code := errors.GetCode(err); code != "" {
		return fmt.Sprintf("Error [%s]: %s", code, msg)
	}
	return "Error: " + msg
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.repository != "" {
		cfg.Repository = c.repository
	}
	if c.proxy != "" {
		p, err := fetch.ParseProxy(c.proxy)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidProxy, err, "invalid --proxy")
		}
		cfg.Proxy.Type, cfg.Proxy.Host, cfg.Proxy.Port = p.Type, p.Host, p.Port
	}
	if c.proxyUser != "" {
		cfg.Proxy.Username = c.proxyUser
		cfg.Proxy.Password = c.proxyPassword
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine creates a resolution engine from the loaded configuration.
func (c *CLI) newEngine(toolingAPI bool, hooks observability.ResolveHooks) (*distribution.Engine, error) {
	client, err := fetch.NewClient(fetch.Options{
		Proxy:       c.cfg.FetchProxy(),
		Credentials: c.cfg.Credentials(),
		Logger:      c.Logger,
		UserAgent:   appName + "/" + buildinfo.Version,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProxy, err, "invalid proxy")
	}

	layout := c.cfg.Layout()
	if !toolingAPI {
		layout = layout.WithoutCompanion()
	}
	return distribution.New(distribution.Options{
		Repository: c.cfg.Repository,
		Layout:     layout,
		Downloader: client,
		Logger:     c.Logger,
		Hooks:      hooks,
	})
}
