// Package content locates workload and data files by URI.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// ErrNotHandled means a resolver declined the URI. Nothing was opened and
// nothing needs to be closed.
var ErrNotHandled = errors.New("content: uri not handled by resolver")

// Resolver turns a URI into readable content.
type Resolver interface {
	// Resolve returns ErrNotHandled when the URI is not for this resolver.
	Resolve(ctx context.Context, u *url.URL) (*Content, error)
	// ResolveDirectory returns a local directory for the URI, if there is one.
	ResolveDirectory(u *url.URL) (string, bool)
}

// ParseURI parses raw like url.Parse but keeps the scheme exactly as
// written, so resolvers comparing schemes see "HTTP" rather than "http".
func ParseURI(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "" && strings.HasPrefix(strings.ToLower(raw), u.Scheme+":") {
		u.Scheme = raw[:len(u.Scheme)]
	}
	return u, nil
}

// Content is an open stream together with where it came from.
// The caller must Close it.
type Content struct {
	URL  *url.URL
	body io.ReadCloser
}

func NewContent(u *url.URL, body io.ReadCloser) *Content {
	return &Content{URL: u, body: body}
}

func (c *Content) Read(p []byte) (int, error) {
	return c.body.Read(p)
}

func (c *Content) Close() error {
	return c.body.Close()
}

// OpenError is a failure to open a resource the resolver did claim.
// It is not retried by the resolver.
type OpenError struct {
	URL string
	Err error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.URL, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// StatusError is returned when a remote server answers with an error status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected response status " + e.Status
}
