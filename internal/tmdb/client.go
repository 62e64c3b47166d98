// Package tmdb is the client for the third-party movie catalog: title
// search, detail lookup by catalog id, and poster image fetches.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrNotFound is returned when the catalog has no movie for an id.
var ErrNotFound = errors.New("movie not found in catalog")

// MovieDetails is the subset of catalog movie fields the application
// persists.
type MovieDetails struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

// Image is a proxied catalog image. The caller owns Body and must
// close it.
type Image struct {
	ContentType   string
	ContentLength int64
	Body          io.ReadCloser
}

// Client calls the movie catalog API. All configuration is injected so
// tests can point it at a local server.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	imageBaseURL string
}

// New creates a catalog client.
func New(apiKey, baseURL, imageBaseURL string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		apiKey:       apiKey,
		baseURL:      baseURL,
		imageBaseURL: imageBaseURL,
	}
}

// Search queries the catalog's movie search endpoint and returns the
// response body verbatim; the API passes it through to clients
// unchanged.
func (c *Client) Search(ctx context.Context, title string, page int) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/search/movie?%s", c.baseURL, url.Values{
		"api_key": {c.apiKey},
		"query":   {title},
		"page":    {strconv.Itoa(page)},
	}.Encode())

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog search: unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// MovieByID fetches one movie's details by its catalog id.
func (c *Client) MovieByID(ctx context.Context, movieID string) (*MovieDetails, error) {
	endpoint := fmt.Sprintf("%s/movie/%s?%s", c.baseURL, url.PathEscape(movieID), url.Values{
		"api_key": {c.apiKey},
	}.Encode())

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("catalog movie lookup: unexpected status %d", resp.StatusCode)
	}

	details := &MovieDetails{}
	if err := json.NewDecoder(resp.Body).Decode(details); err != nil {
		return nil, fmt.Errorf("decoding catalog movie: %w", err)
	}

	return details, nil
}

// ImageByPath fetches image bytes for a poster path at the given size
// ("original", "w500", ...).
func (c *Client) ImageByPath(ctx context.Context, size, path string) (*Image, error) {
	endpoint := fmt.Sprintf("%s/%s/%s?%s", c.imageBaseURL, url.PathEscape(size), url.PathEscape(path), url.Values{
		"api_key": {c.apiKey},
	}.Encode())

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("catalog image fetch: unexpected status %d", resp.StatusCode)
	}

	return &Image{
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	return c.httpClient.Do(req)
}
