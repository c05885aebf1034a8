package health

import (
	"context"
	"fmt"
	"net"
	"net/url"
)

// DialChecker checks that a TCP connection can be opened to every host
// behind the given URLs.
type DialChecker struct {
	name string
	urls []string
}

// NewDialChecker creates a checker for the hosts of urls.
func NewDialChecker(name string, urls ...string) *DialChecker {
	return &DialChecker{name: name, urls: urls}
}

func (c *DialChecker) Name() string {
	return c.name
}

// Check dials each host and reports the first one that is unreachable.
func (c *DialChecker) Check(ctx context.Context) Result {
	var d net.Dialer
	for _, raw := range c.urls {
		addr, err := hostPort(raw)
		if err != nil {
			return Result{Status: StatusDown, Message: err.Error()}
		}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return Result{Status: StatusDown, Message: fmt.Sprintf("%s unreachable", addr)}
		}
		_ = conn.Close()
	}
	return Result{Status: StatusUp}
}

func hostPort(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("no host in %q", raw)
	}
	if u.Port() != "" {
		return u.Host, nil
	}
	port := "443"
	if u.Scheme == "http" {
		port = "80"
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
