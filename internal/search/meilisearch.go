// Package search wraps the Meilisearch index for project full-text search.
// The client is optional; a nil *SearchClient degrades to database LIKE
// queries at the call sites.
package search

import (
	"fmt"
	"log"
	"strings"

	"farmland-portal/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

const projectIndex = "projects"

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  projectIndex,
	}
}

// InitIndex creates the projects index and configures its attributes
func (s *SearchClient) InitIndex() error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"name",
		"location",
		"state",
		"district",
		"description",
		"features",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"project_type",
		"state",
		"featured",
		"price_per_sq_ft",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price_per_sq_ft",
		"name",
		"created_at",
	})
	if err != nil {
		return err
	}

	return nil
}

// IndexProject indexes a single project
func (s *SearchClient) IndexProject(project *models.Project) error {
	_, err := s.client.Index(s.index).AddDocuments([]models.Project{*project})
	return err
}

// IndexProjects indexes multiple projects
func (s *SearchClient) IndexProjects(projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(projects)
	return err
}

// DeleteProject removes a project from the index. Soft-deleted projects
// must disappear from search results immediately.
func (s *SearchClient) DeleteProject(id string) error {
	_, err := s.client.Index(s.index).DeleteDocument(id)
	return err
}

// Reindex replaces the full index content with the given projects
func (s *SearchClient) Reindex(projects []models.Project) error {
	if _, err := s.client.Index(s.index).DeleteAllDocuments(); err != nil {
		return err
	}
	if err := s.IndexProjects(projects); err != nil {
		return err
	}
	log.Printf("[search] reindexed %d projects", len(projects))
	return nil
}

// FilterParams narrows a full-text search
type FilterParams struct {
	Query    string
	Type     string
	State    string
	Featured *bool
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
	Limit    int64
	Offset   int64
}

// SearchResult is a page of matching projects
type SearchResult struct {
	Hits      []models.Project
	TotalHits int64
}

// Search runs a filtered full-text query against the projects index
func (s *SearchClient) Search(params FilterParams) (*SearchResult, error) {
	var filters []string

	if params.Type != "" {
		filters = append(filters, "project_type = "+quoteFilterValue(params.Type))
	}
	if params.State != "" {
		filters = append(filters, "state = "+quoteFilterValue(params.State))
	}
	if params.Featured != nil {
		filters = append(filters, fmt.Sprintf("featured = %v", *params.Featured))
	}
	if params.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price_per_sq_ft >= %g", *params.MinPrice))
	}
	if params.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price_per_sq_ft <= %g", *params.MaxPrice))
	}

	if params.Limit <= 0 {
		params.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if len(filters) > 0 {
		searchReq.Filter = strings.Join(filters, " AND ")
	}
	if params.SortBy != "" {
		searchReq.Sort = []string{params.SortBy}
	}

	searchRes, err := s.client.Index(s.index).Search(params.Query, searchReq)
	if err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		projects = append(projects, parseProjectFromHit(hit))
	}

	return &SearchResult{
		Hits:      projects,
		TotalHits: searchRes.EstimatedTotalHits,
	}, nil
}

// quoteFilterValue wraps a caller-supplied value as a filter string literal,
// escaping backslashes and quotes so the value cannot break out of it
func quoteFilterValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// parseProjectFromHit converts a search hit to a Project
func parseProjectFromHit(hit interface{}) models.Project {
	hitMap, ok := hit.(map[string]interface{})
	if !ok {
		return models.Project{}
	}

	project := models.Project{
		ID:              getString(hitMap, "id"),
		Slug:            getString(hitMap, "slug"),
		Name:            getString(hitMap, "name"),
		Description:     getString(hitMap, "description"),
		Location:        getString(hitMap, "location"),
		State:           getString(hitMap, "state"),
		District:        getString(hitMap, "district"),
		ProjectType:     models.ProjectType(getString(hitMap, "project_type")),
		ExpectedReturns: getString(hitMap, "expected_returns"),
	}

	if price, ok := hitMap["price_per_sq_ft"].(float64); ok {
		project.PricePerSqFt = price
	}
	if featured, ok := hitMap["featured"].(bool); ok {
		project.Featured = featured
	}
	if features, ok := hitMap["features"].([]interface{}); ok {
		for _, f := range features {
			if str, ok := f.(string); ok {
				project.Features = append(project.Features, str)
			}
		}
	}
	if images, ok := hitMap["images"].([]interface{}); ok {
		for _, img := range images {
			if str, ok := img.(string); ok {
				project.Images = append(project.Images, str)
			}
		}
	}

	return project
}

// getString safely extracts a string from map
func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}
