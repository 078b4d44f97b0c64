package handlers

import (
	"farmland-portal/internal/storage"

	"github.com/gin-gonic/gin"
)

// ListTestimonials returns approved testimonials for the public site
func (h *Handler) ListTestimonials(c *gin.Context) {
	filters := storage.TestimonialFilters{
		ProjectID:    c.Query("project_id"),
		ApprovedOnly: true,
		Limit:        queryInt(c, "limit"),
		Offset:       queryInt(c, "offset"),
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		filters.Featured = &featured
	}

	page, err := h.store.GetTestimonials(c.Request.Context(), filters)
	if err != nil {
		c.Error(err)
		return
	}
	respondPage(c, page.Items, page.Paginated)
}
