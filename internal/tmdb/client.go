package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/actuallystonmai/movie-catalog/internal/domain"
	"github.com/actuallystonmai/movie-catalog/internal/metrics"
)

const maxErrorBody = 64 << 10

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	BaseURL     string
	APIKey      string
	AccessToken string
	Language    string
}

type Client struct {
	baseURL     string
	apiKey      string
	accessToken string
	language    string
	http        Doer
}

var _ domain.MovieCatalog = (*Client)(nil)

func NewClient(opts Options, httpClient Doer) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(10*time.Second, 0)
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/") + "/3",
		apiKey:      opts.APIKey,
		accessToken: opts.AccessToken,
		language:    opts.Language,
		http:        httpClient,
	}
}

// GET /movie/popular?page=N
func (c *Client) PopularMovies(ctx context.Context, page int) (*domain.MoviePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var out domain.MoviePage
	if err := c.get(ctx, "popular", "/movie/popular", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GET /search/movie?query=Q&page=N
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*domain.MoviePage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var out domain.MoviePage
	if err := c.get(ctx, "search", "/search/movie", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GET /movie/{id}
func (c *Client) MovieDetails(ctx context.Context, movieID int64) (*domain.Movie, error) {
	var out domain.Movie
	path := "/movie/" + strconv.FormatInt(movieID, 10)
	if err := c.get(ctx, "details", path, url.Values{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	const op = "tmdb.Client.get"

	if c.accessToken == "" {
		params.Set("api_key", c.apiKey)
	}
	if c.language != "" {
		params.Set("language", c.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %s: %w", op, endpoint, ctx.Err())
		}
		return fmt.Errorf("%s: %s: %w: %v", op, endpoint, domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(endpoint, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode %s response: %w", op, endpoint, err)
	}
	return nil
}

func decodeAPIError(endpoint string, resp *http.Response) error {
	apiErr := &APIError{Endpoint: endpoint, HTTPStatus: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(body) > 0 {
		// TMDB answers {"status_code":34,"status_message":"..."}; anything
		// else keeps the bare status.
		_ = json.Unmarshal(body, apiErr)
	}
	return apiErr
}
