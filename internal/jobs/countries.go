package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// Country is one entry in the job board's country filter.
type Country struct {
	Name string `json:"name"`
	Code string `json:"code"` // ISO 3166-1 alpha-2
	Flag string `json:"flag,omitempty"`
}

// countriesCacheTTL controls how long the country list is served from
// memory. The set of countries changes on a geopolitical timescale, so a
// long TTL is safe; it mostly exists so a restarted server re-fetches.
const countriesCacheTTL = 24 * time.Hour

// CountriesClient fetches country names and flags from the REST Countries
// API, with an in-process cache in front. Safe for concurrent use.
type CountriesClient struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.Mutex
	cached    []Country
	fetchedAt time.Time
}

// NewCountriesClient builds a REST Countries client.
func NewCountriesClient(baseURL string) *CountriesClient {
	return &CountriesClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// restCountry mirrors the REST Countries v3.1 payload shape for the fields
// we request.
type restCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2  string `json:"cca2"`
	Flags struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
	} `json:"flags"`
}

// List returns every country, sorted by name, for the filter dropdown.
// Results are cached; concurrent callers during a refresh share one fetch.
func (c *CountriesClient) List(ctx context.Context) ([]Country, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < countriesCacheTTL {
		return c.cached, nil
	}

	// Ask only for the fields we use; the full payload is ~600KB.
	var raw []restCountry
	if err := c.getJSON(ctx, "/all?fields=name,cca2,flags", &raw); err != nil {
		// Serve a stale list over an error if we have one.
		if c.cached != nil {
			return c.cached, nil
		}
		return nil, err
	}

	countries := make([]Country, 0, len(raw))
	for _, rc := range raw {
		if rc.CCA2 == "" {
			continue
		}
		countries = append(countries, Country{
			Name: rc.Name.Common,
			Code: rc.CCA2,
			Flag: rc.Flags.PNG,
		})
	}
	sort.Slice(countries, func(i, j int) bool { return countries[i].Name < countries[j].Name })

	c.cached = countries
	c.fetchedAt = time.Now()
	return countries, nil
}

// Get looks up one country by its alpha-2 code.
func (c *CountriesClient) Get(ctx context.Context, code string) (*Country, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return nil, fmt.Errorf("invalid country code %q", code)
	}

	var raw []restCountry
	if err := c.getJSON(ctx, "/alpha/"+url.PathEscape(code)+"?fields=name,cca2,flags", &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("country %q not found", code)
	}

	return &Country{
		Name: raw[0].Name.Common,
		Code: raw[0].CCA2,
		Flag: raw[0].Flags.PNG,
	}, nil
}

func (c *CountriesClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building countries request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling countries API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("countries API returned %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding countries response: %w", err)
	}
	return nil
}
