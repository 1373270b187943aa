package fetch

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Proxy types understood by [Proxy.URL].
const (
	ProxyHTTP   = "http"
	ProxyHTTPS  = "https"
	ProxySOCKS5 = "socks5"
)

// Proxy describes the proxy all requests are routed through.
type Proxy struct {
	Type string // "http" (default), "https" or "socks5"
	Host string
	Port int
}

// Credentials authenticate against a proxy.
type Credentials struct {
	Username string
	Password string
}

// ParseProxy parses "host:port" or "scheme://host:port" into a Proxy.
func ParseProxy(s string) (*Proxy, error) {
	typ := ProxyHTTP
	if i := strings.Index(s, "://"); i >= 0 {
		typ, s = s[:i], s[i+3:]
	}
	host, portStr, err := net.SplitHostPort(strings.TrimSuffix(s, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", s, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy port %q", portStr)
	}
	p := &Proxy{Type: typ, Host: host, Port: port}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the proxy has a known type, a host and a usable port.
func (p *Proxy) Validate() error {
	switch p.scheme() {
	case ProxyHTTP, ProxyHTTPS, ProxySOCKS5:
	default:
		return fmt.Errorf("unsupported proxy type %q", p.Type)
	}
	if p.Host == "" {
		return fmt.Errorf("proxy host cannot be empty")
	}
	if p.Port <= 0 || p.Port > 65535 {
		return fmt.Errorf("proxy port %d out of range", p.Port)
	}
	return nil
}

// Address returns host:port.
func (p *Proxy) Address() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// URL returns the proxy URL, embedding creds as userinfo when present.
func (p *Proxy) URL(creds *Credentials) *url.URL {
	u := &url.URL{Scheme: p.scheme(), Host: p.Address()}
	if creds != nil && creds.Username != "" {
		u.User = url.UserPassword(creds.Username, creds.Password)
	}
	return u
}

// String returns the proxy URL without credentials.
func (p *Proxy) String() string { return p.URL(nil).String() }

func (p *Proxy) scheme() string {
	if p.Type == "" {
		return ProxyHTTP
	}
	return strings.ToLower(p.Type)
}
