// Package config loads the optional gradlerepo TOML configuration file.
//
// A missing file is not an error: [Load] returns [Default] in that case.
// Command-line flags are applied on top of the loaded values by the CLI.
//
// Example config.toml:
//
//	repository = "/srv/maven"
//	tooling_api = false
//
//	[proxy]
//	type = "http"
//	host = "proxy.internal"
//	port = 3128
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gradlerepo/pkg/distribution"
	"github.com/matzehuels/gradlerepo/pkg/errors"
	"github.com/matzehuels/gradlerepo/pkg/fetch"
)

const (
	appName  = "gradlerepo"
	fileName = "config.toml"
)

// Config is the file-level configuration.
type Config struct {
	Repository      string `toml:"repository"`
	DistributionURL string `toml:"distribution_url"`
	ReleasesURL     string `toml:"releases_url"`
	ToolingAPI      bool   `toml:"tooling_api"`
	Proxy           Proxy  `toml:"proxy"`
}

// Proxy is the [proxy] table.
type Proxy struct {
	Type     string `toml:"type"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	layout := distribution.Gradle()
	return Config{
		Repository:      DefaultRepository(),
		DistributionURL: layout.DistributionURL,
		ReleasesURL:     layout.ReleasesURL,
		ToolingAPI:      true,
	}
}

// DefaultRepository returns ~/.m2/repository, or a relative path if the home
// directory is unknown.
func DefaultRepository() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".m2", "repository")
	}
	return filepath.Join(home, ".m2", "repository")
}

// Path returns the default config file location using the XDG standard
// (~/.config/gradlerepo/config.toml).
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the file at path over [Default]. An empty path means [Path].
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "couldn't read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "couldn't parse config %s", path)
	}
	cfg.Repository = expandHome(cfg.Repository)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks URLs and the proxy table.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Repository) == "" {
		return errors.New(errors.ErrCodeInvalidPath, "repository cannot be empty")
	}
	if err := errors.ValidateURL(c.DistributionURL); err != nil {
		return err
	}
	if err := errors.ValidateURL(c.ReleasesURL); err != nil {
		return err
	}
	if p := c.FetchProxy(); p != nil {
		if err := p.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidProxy, err, "invalid [proxy] table")
		}
	}
	return nil
}

// FetchProxy returns the configured proxy, or nil if no host is set.
func (c Config) FetchProxy() *fetch.Proxy {
	if c.Proxy.Host == "" {
		return nil
	}
	typ := c.Proxy.Type
	if typ == "" {
		typ = "http"
	}
	return &fetch.Proxy{Type: typ, Host: c.Proxy.Host, Port: c.Proxy.Port}
}

// Credentials returns the proxy credentials, or nil if no username is set.
func (c Config) Credentials() *fetch.Credentials {
	if c.Proxy.Username == "" {
		return nil
	}
	return &fetch.Credentials{Username: c.Proxy.Username, Password: c.Proxy.Password}
}

// Layout returns the Gradle layout with the configured URLs, without the
// companion artifact when tooling_api is false.
func (c Config) Layout() distribution.Layout {
	l := distribution.Gradle()
	l.DistributionURL = c.DistributionURL
	l.ReleasesURL = c.ReleasesURL
	if !c.ToolingAPI {
		l = l.WithoutCompanion()
	}
	return l
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
