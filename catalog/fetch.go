package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Fetcher retrieves the default product dataset used to seed the catalog.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Product, error)
}

// HTTPFetcher fetches the default dataset from a static URL.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher for the given URL.
func NewHTTPFetcher(url string) *HTTPFetcher {
	return &HTTPFetcher{URL: url, Client: http.DefaultClient}
}

// Fetch downloads and sanitizes the default dataset. Any HTTP failure or a
// body that is not a JSON list is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", f.URL, resp.StatusCode)
	}

	return decodeList(resp.Body)
}

// FileFetcher reads the default dataset from a local seed file.
type FileFetcher struct {
	Path string
}

// NewFileFetcher creates a FileFetcher for the given path.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{Path: path}
}

// Fetch reads and sanitizes the seed file.
func (f *FileFetcher) Fetch(_ context.Context) ([]Product, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer file.Close()

	return decodeList(file)
}

// decodeList decodes a JSON document that must be a list of
// product-shaped records and sanitizes it.
func decodeList(r io.Reader) ([]Product, error) {
	var raw any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("products document must be a list")
	}

	return Sanitize(list), nil
}
