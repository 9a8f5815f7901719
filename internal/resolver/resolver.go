// Package resolver looks up the latest upstream version per release channel.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	errBadHTTPStatus = errors.New("unexpected http status")
	errEmptyVersion  = errors.New("empty version response")
)

// Resolver resolves the latest stable and nightly version identifiers.
type Resolver interface {
	LatestStable(ctx context.Context) (string, error)
	LatestNightly(ctx context.Context) (string, error)
}

// HTTPResolver fetches version strings from two configured endpoints.
// Each endpoint is expected to answer a GET with the bare version string.
type HTTPResolver struct {
	// client is the HTTP client used for version lookups.
	client *http.Client
	// stableURL answers with the latest stable version.
	stableURL string
	// nightlyURL answers with the latest nightly version.
	nightlyURL string
}

// NewHTTPResolver creates a resolver for the provided endpoints.
func NewHTTPResolver(stableURL, nightlyURL string, timeout time.Duration) *HTTPResolver {
	return &HTTPResolver{
		client:     &http.Client{Timeout: timeout},
		stableURL:  stableURL,
		nightlyURL: nightlyURL,
	}
}

// LatestStable returns the latest stable version string.
func (r *HTTPResolver) LatestStable(ctx context.Context) (string, error) {
	return r.fetch(ctx, r.stableURL)
}

// LatestNightly returns the latest nightly version string.
func (r *HTTPResolver) LatestNightly(ctx context.Context) (string, error) {
	return r.fetch(ctx, r.nightlyURL)
}

// fetch performs the GET and returns the trimmed response body.
func (r *HTTPResolver) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", err
	}

	response, err := r.client.Do(req)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s, %s: %w", rawURL, response.Status, errBadHTTPStatus)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	version := strings.TrimSpace(string(data))
	if version == "" {
		return "", fmt.Errorf("%s: %w", rawURL, errEmptyVersion)
	}

	return version, nil
}
