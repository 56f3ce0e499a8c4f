package content

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ClientOptions tunes the HTTP client built by NewHTTPClient.
type ClientOptions struct {
	Timeout  time.Duration
	Insecure bool
}

// NewHTTPClient builds the client used for remote content.
func NewHTTPClient(opts ClientOptions) *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Insecure {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: t,
	}
}

// URLResolver opens http and https URLs. Any other scheme, or no scheme,
// is not handled.
type URLResolver struct {
	client *http.Client
	logger *zap.Logger
}

func NewURLResolver(client *http.Client, logger *zap.Logger) *URLResolver {
	if client == nil {
		client = NewHTTPClient(ClientOptions{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &URLResolver{client: client, logger: logger}
}

func (r *URLResolver) Resolve(ctx context.Context, u *url.URL) (*Content, error) {
	if u == nil || u.Scheme == "" {
		return nil, ErrNotHandled
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrNotHandled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &OpenError{URL: u.String(), Err: err}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &OpenError{URL: u.String(), Err: err}
	}
	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &OpenError{
			URL: u.String(),
			Err: &StatusError{Code: resp.StatusCode, Status: resp.Status},
		}
	}

	r.logger.Debug("Found accessible remote file", zap.String("url", u.String()))
	return NewContent(u, resp.Body), nil
}

// ResolveDirectory always reports no directory; remote URLs have no local
// directory.
func (r *URLResolver) ResolveDirectory(*url.URL) (string, bool) {
	return "", false
}

var _ Resolver = (*URLResolver)(nil)
