package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/sakif/devforum/internal/jobs"
	"github.com/sakif/devforum/internal/validation"
)

// JobHandler serves the job board: listings proxied from the JSearch API
// and the country filter from REST Countries.
//
// Both upstreams are optional. With no RapidAPI key configured the job
// search responds 503, and a country-API outage degrades to an empty
// filter list rather than breaking the page.
type JobHandler struct {
	client    *jobs.Client
	countries *jobs.CountriesClient
	logger    *slog.Logger
}

func NewJobHandler(client *jobs.Client, countries *jobs.CountriesClient, logger *slog.Logger) *JobHandler {
	return &JobHandler{client: client, countries: countries, logger: logger}
}

// HandleSearch returns one page of job listings.
//
// HTTP: GET /api/jobs?query=&country=&page=
func (h *JobHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	params := validation.GetJobsParams{
		Query:   q.Get("query"),
		Country: strings.ToLower(q.Get("country")),
		Page:    page,
	}
	if params.Query == "" {
		params.Query = "developer jobs"
	}
	if err := validation.Check(params); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.client.Search(r.Context(), jobs.SearchParams{
		Query:   params.Query,
		Country: params.Country,
		Page:    params.Page,
	})
	if err != nil {
		if errors.Is(err, jobs.ErrNotConfigured) {
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
				Error:   "unavailable",
				Message: "job search is not configured on this server",
			})
			return
		}
		h.logger.Error("job search failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: "job search is temporarily unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleCountries returns the country list for the job board filter.
//
// HTTP: GET /api/jobs/countries
func (h *JobHandler) HandleCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.countries.List(r.Context())
	if err != nil {
		// The filter is decoration; an empty list keeps the page working.
		h.logger.Warn("country list fetch failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, []jobs.Country{})
		return
	}

	writeJSON(w, http.StatusOK, countries)
}
