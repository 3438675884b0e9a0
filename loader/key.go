package loader

import (
	"net"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/erraggy/oassync/oaserrors"
)

// IsURL reports whether source names an http or https resource.
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// NormalizeKey returns the cache key for source. URLs get a lower-case
// scheme and host, lose default ports and fragments; file paths become
// absolute and clean.
func NormalizeKey(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", &oaserrors.ConfigError{Option: "source", Message: "a source path or URL is required"}
	}
	if !IsURL(source) {
		abs, err := filepath.Abs(source)
		if err != nil {
			return "", &oaserrors.ConfigError{Option: "source", Value: source, Message: "cannot resolve path", Cause: err}
		}
		return filepath.Clean(abs), nil
	}
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return "", &oaserrors.ConfigError{Option: "source", Value: source, Message: "invalid URL", Cause: err}
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host, port := u.Hostname(), u.Port()
	host = strings.ToLower(host)
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		u.Host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		u.Host = "[" + host + "]"
	} else {
		u.Host = host
	}
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}
