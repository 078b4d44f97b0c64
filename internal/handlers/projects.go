package handlers

import (
	"net/http"
	"strconv"

	"farmland-portal/internal/middleware"
	"farmland-portal/internal/models"
	"farmland-portal/internal/search"
	"farmland-portal/internal/storage"

	"github.com/gin-gonic/gin"
)

// ListProjects returns active projects, filtered via query parameters
func (h *Handler) ListProjects(c *gin.Context) {
	filters := storage.ProjectFilters{
		Type:     models.ProjectType(c.Query("type")),
		State:    c.Query("state"),
		Location: c.Query("location"),
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		filters.Featured = &featured
	}
	if v := c.Query("min_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MinPrice = &price
		}
	}
	if v := c.Query("max_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MaxPrice = &price
		}
	}

	page, err := h.store.GetProjects(c.Request.Context(), filters)
	if err != nil {
		c.Error(err)
		return
	}
	respondPage(c, page.Items, page.Paginated)
}

// FeaturedProjects returns the featured subset for the landing page
func (h *Handler) FeaturedProjects(c *gin.Context) {
	featured := true
	page, err := h.store.GetProjects(c.Request.Context(), storage.ProjectFilters{
		Featured: &featured,
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	respondPage(c, page.Items, page.Paginated)
}

// GetProject returns one active project by slug and records the view
func (h *Handler) GetProject(c *gin.Context) {
	slug := c.Param("slug")

	project, err := h.store.GetProjectBySlug(c.Request.Context(), slug)
	if err != nil {
		c.Error(err)
		return
	}

	view := &models.ProjectView{
		ProjectID: project.ID,
		SessionID: c.GetHeader("X-Session-Id"),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}
	// View recording must never fail the page load
	_ = h.store.RecordProjectView(c.Request.Context(), view)

	respond(c, http.StatusOK, project)
}

// SearchProjects runs a full-text query over the projects index, falling
// back to the database filter when search is disabled
func (h *Handler) SearchProjects(c *gin.Context) {
	query := c.Query("q")

	if h.search == nil {
		page, err := h.store.GetProjects(c.Request.Context(), storage.ProjectFilters{
			Location: query,
			Limit:    queryInt(c, "limit"),
			Offset:   queryInt(c, "offset"),
		})
		if err != nil {
			c.Error(err)
			return
		}
		respondPage(c, page.Items, page.Paginated)
		return
	}

	params := searchParamsFromQuery(c, query)
	result, err := h.search.Search(params)
	if err != nil {
		c.Error(err)
		return
	}

	respondPage(c, result.Hits, storage.Paginated{
		Limit:  int(params.Limit),
		Offset: int(params.Offset),
		Total:  result.TotalHits,
	})
}

func searchParamsFromQuery(c *gin.Context, query string) search.FilterParams {
	params := search.FilterParams{
		Query:  query,
		Type:   c.Query("type"),
		State:  c.Query("state"),
		SortBy: c.Query("sort"),
		Limit:  int64(queryInt(c, "limit")),
		Offset: int64(queryInt(c, "offset")),
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		params.Featured = &featured
	}
	if v := c.Query("min_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			params.MinPrice = &price
		}
	}
	if v := c.Query("max_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			params.MaxPrice = &price
		}
	}
	return params
}

func queryInt(c *gin.Context, key string) int {
	v, _ := strconv.Atoi(c.Query(key))
	return v
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.Error(middleware.BindError(err))
		return false
	}
	return true
}
