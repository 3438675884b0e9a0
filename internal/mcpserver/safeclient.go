package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/erraggy/oassync/oaserrors"
)

const maxRedirects = 10

// isBlockedIP reports whether ip is private, loopback, link-local or unspecified.
func isBlockedIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}

type ipResolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// hostGuard rejects hosts that resolve to a blocked address.
type hostGuard struct {
	resolver ipResolver
}

// resolve returns the addresses of host, failing if any of them is blocked.
func (g *hostGuard) resolve(ctx context.Context, host string) ([]net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if isBlockedIP(ip) {
			return nil, blockedHost(host, ip)
		}
		return []net.IP{ip}, nil
	}
	addrs, err := g.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return nil, &oaserrors.NetworkError{URL: host, Reason: oaserrors.NetworkConnection, Message: "host has no addresses"}
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		if isBlockedIP(a.IP) {
			return nil, blockedHost(host, a.IP)
		}
		ips = append(ips, a.IP)
	}
	return ips, nil
}

func blockedHost(host string, ip net.IP) error {
	return &oaserrors.NetworkError{
		URL:     host,
		Reason:  oaserrors.NetworkConnection,
		Message: fmt.Sprintf("refusing to connect to private or loopback address %s", ip),
	}
}

// NewSafeHTTPClient returns an HTTP client for agent-supplied URLs. It
// refuses to dial private, loopback and link-local addresses, checks every
// redirect target the same way and dials the vetted address rather than
// resolving the name a second time.
func NewSafeHTTPClient(timeout time.Duration) *http.Client {
	return newGuardedClient(&hostGuard{resolver: net.DefaultResolver}, timeout)
}

func newGuardedClient(g *hostGuard, timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, err
				}
				ips, err := g.resolve(ctx, host)
				if err != nil {
					return nil, err
				}
				return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].String(), port))
			},
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConnsPerHost: 4,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			_, err := g.resolve(req.Context(), req.URL.Hostname())
			return err
		},
	}
}
