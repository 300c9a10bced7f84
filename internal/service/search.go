package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/devforum/internal/repository"
)

// Searchable entity kinds, also the accepted values of the "type" filter.
const (
	SearchTypeQuestion = "question"
	SearchTypeAnswer   = "answer"
	SearchTypeUser     = "user"
	SearchTypeTag      = "tag"
)

// globalSearchLimit caps results per entity kind. Global search is a
// navigation aid, not a listing — a handful of hits per kind is plenty.
const globalSearchLimit = 8

// SearchResult is one hit in the global search, flattened to what the
// search dropdown renders.
type SearchResult struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// SearchService implements cross-entity search over questions, answers,
// users, and tags.
type SearchService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewSearchService(store repository.Store, logger *slog.Logger) *SearchService {
	return &SearchService{store: store, logger: logger}
}

// Global searches every entity kind, or just one when typeFilter names it.
// An unknown typeFilter matches nothing rather than erroring — the filter
// comes straight from a query parameter.
func (s *SearchService) Global(ctx context.Context, query, typeFilter string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}

	want := func(kind string) bool {
		return typeFilter == "" || typeFilter == kind
	}
	opts := repository.ListOptions{Query: query, Limit: globalSearchLimit}
	results := []SearchResult{}

	if want(SearchTypeQuestion) {
		questions, _, err := s.store.Questions().List(ctx, opts)
		if err != nil {
			return nil, err
		}
		for _, q := range questions {
			results = append(results, SearchResult{ID: q.ID, Type: SearchTypeQuestion, Title: q.Title})
		}
	}

	if want(SearchTypeAnswer) {
		answers, err := s.store.Answers().Search(ctx, query, globalSearchLimit)
		if err != nil {
			return nil, err
		}
		for _, a := range answers {
			results = append(results, SearchResult{ID: a.QuestionID, Type: SearchTypeAnswer, Title: snippet(a.Content)})
		}
	}

	if want(SearchTypeUser) {
		users, _, err := s.store.Users().List(ctx, opts)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			results = append(results, SearchResult{ID: u.ID, Type: SearchTypeUser, Title: u.Name})
		}
	}

	if want(SearchTypeTag) {
		tags, _, err := s.store.Tags().List(ctx, opts)
		if err != nil {
			return nil, err
		}
		for _, t := range tags {
			results = append(results, SearchResult{ID: t.ID, Type: SearchTypeTag, Title: t.Name})
		}
	}

	return results, nil
}

// snippet truncates answer content for display as a search hit title.
func snippet(content string) string {
	const max = 80
	content = strings.TrimSpace(content)
	if len(content) <= max {
		return content
	}
	return content[:max] + "…"
}
