// Package jobs integrates the developer job board with two outbound HTTP
// APIs: JSearch (a RapidAPI job-listing aggregator) for the listings
// themselves, and REST Countries for the country filter shown next to the
// search box.
//
// Both clients follow the same shape: a struct holding the base URL and an
// *http.Client, methods that take a context.Context, and typed response
// structs that decode only the fields the app renders. Cancelling the
// context aborts the in-flight request.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// defaultTimeout bounds a single outbound call when the caller's context
// carries no deadline of its own.
const defaultTimeout = 10 * time.Second

// Job is one listing, trimmed to the fields the job board renders.
// Field names mirror the JSearch response payload.
type Job struct {
	ID             string `json:"job_id"`
	Title          string `json:"job_title"`
	Description    string `json:"job_description"`
	EmploymentType string `json:"job_employment_type"`
	ApplyLink      string `json:"job_apply_link"`
	Location       string `json:"job_location"`
	EmployerName   string `json:"employer_name"`
	EmployerLogo   string `json:"employer_logo"`
	Salary         string `json:"job_salary"`
	Country        string `json:"job_country"`
}

// SearchParams narrows a job search. Country is an ISO 3166-1 alpha-2 code
// in lower case, the way JSearch expects it.
type SearchParams struct {
	Query   string
	Country string
	Page    int
}

// SearchResult is one page of listings plus a has-more hint for pagination.
type SearchResult struct {
	Jobs   []Job `json:"jobs"`
	IsNext bool  `json:"isNext"`
}

// Client calls the JSearch API. Zero credentials (an empty API key) is a
// valid configuration: Search then fails with ErrNotConfigured and the
// handler reports the job board as unavailable.
type Client struct {
	baseURL    string
	apiKey     string
	apiHost    string
	httpClient *http.Client
}

// ErrNotConfigured is returned when the JSearch API key is absent.
var ErrNotConfigured = fmt.Errorf("job search API key not configured")

// NewClient builds a JSearch client.
func NewClient(baseURL, apiKey, apiHost string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		apiHost: apiHost,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// jsearchResponse is the envelope JSearch wraps every response in.
type jsearchResponse struct {
	Status string `json:"status"`
	Data   []Job  `json:"data"`
}

// Search fetches one page of job listings.
//
// JSearch authenticates via two request headers (x-rapidapi-key and
// x-rapidapi-host) rather than a bearer token; everything else is plain
// query parameters on GET /search.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if params.Query == "" {
		params.Query = "developer jobs"
	}
	if params.Page < 1 {
		params.Page = 1
	}

	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("num_pages", "1")
	if params.Country != "" {
		q.Set("country", params.Country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building job search request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling job search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("job search API returned %d: %s", resp.StatusCode, body)
	}

	var payload jsearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding job search response: %w", err)
	}

	return &SearchResult{
		Jobs:   payload.Data,
		IsNext: len(payload.Data) > 0,
	}, nil
}
