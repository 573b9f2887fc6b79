package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// httpProvider reads files relative to a base URL.
type httpProvider struct {
	baseURL string
	client  *http.Client
	maxSize int64
}

// NewHTTP creates a Provider that GETs baseURL/name.
func NewHTTP(baseURL string, timeout time.Duration) Provider {
	return &httpProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		maxSize: maxFileSize,
	}
}

// ReadFile downloads the named file.
func (p *httpProvider) ReadFile(ctx context.Context, name string) ([]byte, error) {
	target := p.baseURL + "/" + url.PathEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", name, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("download %s failed with status: %d", name, resp.StatusCode)
	}

	data, err := readLimited(resp.Body, name, p.maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
