package handlers

import (
	"farmland-portal/internal/middleware"
	"farmland-portal/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// Limiters groups the per-tier rate limiters. The global limiter covers
// every /api route; strict and auth add tighter caps on the abuse-prone
// write endpoints.
type Limiters struct {
	Global *ratelimit.Limiter
	Strict *ratelimit.Limiter
	Auth   *ratelimit.Limiter
}

// RegisterRoutes wires every route group onto the engine
func (h *Handler) RegisterRoutes(router *gin.Engine, limiters Limiters) {
	api := router.Group("/api")
	api.Use(middleware.ErrorHandler())
	api.Use(middleware.RateLimit(limiters.Global))

	api.GET("/health", h.Health)

	projects := api.Group("/projects")
	{
		projects.GET("", h.ListProjects)
		projects.GET("/featured", h.FeaturedProjects)
		projects.GET("/search", h.SearchProjects)
		projects.GET("/:slug", h.GetProject)
	}

	api.POST("/leads", middleware.RateLimit(limiters.Strict), h.CreateLead)

	blog := api.Group("/blog")
	{
		blog.GET("", h.ListBlogPosts)
		blog.GET("/:slug", h.GetBlogPost)
	}

	api.GET("/testimonials", h.ListTestimonials)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", middleware.RateLimit(limiters.Strict), h.Register)
		authGroup.POST("/login", middleware.RateLimit(limiters.Auth), h.Login)

		me := authGroup.Group("", middleware.Authenticate(h.tokens))
		me.GET("/me", h.Me)
		me.PUT("/me", h.UpdateMe)
	}

	admin := api.Group("/admin", middleware.Authenticate(h.tokens), middleware.RequireAdmin())
	{
		admin.GET("/leads", h.AdminListLeads)
		admin.GET("/leads/:id", h.AdminGetLead)
		admin.PUT("/leads/:id", h.AdminUpdateLead)
		admin.GET("/leads/:id/activities", h.AdminLeadActivities)

		admin.POST("/projects", h.AdminCreateProject)
		admin.PUT("/projects/:id", h.AdminUpdateProject)
		admin.DELETE("/projects/:id", h.AdminDeleteProject)

		admin.GET("/blog", h.AdminListBlogPosts)
		admin.POST("/blog", h.AdminCreateBlogPost)
		admin.PUT("/blog/:id", h.AdminUpdateBlogPost)
		admin.DELETE("/blog/:id", h.AdminDeleteBlogPost)

		admin.POST("/testimonials", h.AdminCreateTestimonial)
		admin.PUT("/testimonials/:id", h.AdminUpdateTestimonial)

		admin.GET("/analytics", h.AdminDashboard)
		admin.GET("/analytics/leads-trend", h.AdminLeadTrend)

		admin.POST("/search/reindex", h.AdminReindex)
		admin.POST("/maintenance/run", h.AdminRunMaintenance)
		admin.POST("/cleanup/run", h.AdminRunCleanup)
		admin.GET("/cleanup/logs", h.AdminCleanupLogs)
	}
}
