package loader

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/erraggy/oassync/normalizer"
	"github.com/erraggy/oassync/oaserrors"
	"github.com/go-resty/resty/v2"
)

// fetched is the raw outcome of one fetch.
type fetched struct {
	data         []byte
	notModified  bool
	etag         string
	lastModified string
	modTime      time.Time
	contentHint  string
}

// validators are sent on conditional requests.
type validators struct {
	etag         string
	lastModified string
}

func newRestyClient(cfg *config) *resty.Client {
	var client *resty.Client
	if cfg.httpClient != nil {
		client = resty.NewWithClient(cfg.httpClient)
	} else {
		client = resty.New()
	}
	return client.
		SetTimeout(cfg.timeout).
		SetHeader("User-Agent", cfg.userAgent).
		SetHeader("Accept", "application/json, application/yaml, text/yaml;q=0.9, */*;q=0.8")
}

// fetchRemote performs a GET, conditional when v carries validators, and
// retries connection failures, 429 and 5xx responses with exponential
// backoff.
func (l *Loader) fetchRemote(ctx context.Context, url string, v validators) (*fetched, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = l.cfg.retryInterval
	bo.MaxInterval = 10 * l.cfg.retryInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(l.cfg.retries)), ctx)

	var out *fetched
	attempt := 0
	op := func() error {
		attempt++
		req := l.client.R().SetContext(ctx)
		if v.etag != "" {
			req.SetHeader("If-None-Match", v.etag)
		}
		if v.lastModified != "" {
			req.SetHeader("If-Modified-Since", v.lastModified)
		}
		resp, err := req.Get(url)
		if err != nil {
			nerr := classifyTransportError(url, err)
			if ctx.Err() != nil {
				return backoff.Permanent(nerr)
			}
			l.cfg.logger.Debug("fetch attempt failed", "url", url, "attempt", attempt, "error", err)
			return nerr
		}
		status := resp.StatusCode()
		switch {
		case status == http.StatusNotModified:
			out = &fetched{notModified: true}
			return nil
		case status >= 200 && status < 300:
			out = &fetched{
				data:         resp.Body(),
				etag:         resp.Header().Get("ETag"),
				lastModified: resp.Header().Get("Last-Modified"),
				contentHint:  contentHint(resp.Header().Get("Content-Type"), url),
			}
			return nil
		}
		nerr := &oaserrors.NetworkError{URL: url, Reason: oaserrors.NetworkStatus, StatusCode: status}
		if status == http.StatusTooManyRequests || status >= 500 {
			l.cfg.logger.Debug("fetch attempt failed", "url", url, "attempt", attempt, "status", status)
			return nerr
		}
		return backoff.Permanent(nerr)
	}
	if err := backoff.Retry(op, policy); err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return nil, perm.Err
		}
		return nil, err
	}
	return out, nil
}

func classifyTransportError(url string, err error) error {
	reason := oaserrors.NetworkConnection
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		reason = oaserrors.NetworkTimeout
	}
	return &oaserrors.NetworkError{URL: url, Reason: reason, Cause: err}
}

// readLocal reads a file, returning its contents and modification time.
func readLocal(path string) (*fetched, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, filesystemError(path, "stat", err)
	}
	if info.IsDir() {
		return nil, &oaserrors.FilesystemError{Path: path, Op: "read", Reason: oaserrors.FilesystemIO, Cause: errors.New("is a directory")}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, filesystemError(path, "read", err)
	}
	return &fetched{data: data, modTime: info.ModTime(), contentHint: contentHint("", path)}, nil
}

func filesystemError(path, op string, err error) error {
	reason := oaserrors.FilesystemIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		reason = oaserrors.FilesystemNotFound
	case errors.Is(err, fs.ErrPermission):
		reason = oaserrors.FilesystemPermission
	}
	return &oaserrors.FilesystemError{Path: path, Op: op, Reason: reason, Cause: err}
}

// contentHint picks a decoding hint from a Content-Type header or a file
// extension. An empty hint lets the normalizer sniff.
func contentHint(contentType, name string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "json"):
		return normalizer.FormatJSON
	case strings.Contains(ct, "yaml"):
		return normalizer.FormatYAML
	}
	name = strings.ToLower(name)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch {
	case strings.HasSuffix(name, ".json"):
		return normalizer.FormatJSON
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return normalizer.FormatYAML
	}
	return ""
}
