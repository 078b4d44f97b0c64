package handlers

import (
	"net/http"

	"farmland-portal/internal/storage"

	"github.com/gin-gonic/gin"
)

// ListBlogPosts returns published posts for the public blog
func (h *Handler) ListBlogPosts(c *gin.Context) {
	page, err := h.store.GetBlogPosts(c.Request.Context(), storage.BlogFilters{
		Category:      c.Query("category"),
		Tag:           c.Query("tag"),
		PublishedOnly: true,
		Limit:         queryInt(c, "limit"),
		Offset:        queryInt(c, "offset"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	respondPage(c, page.Items, page.Paginated)
}

// GetBlogPost returns a single published post by slug
func (h *Handler) GetBlogPost(c *gin.Context) {
	post, err := h.store.GetBlogPostBySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, post)
}
