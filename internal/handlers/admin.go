package handlers

import (
	"log"
	"net/http"
	"time"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/middleware"
	"farmland-portal/internal/models"
	"farmland-portal/internal/storage"

	"github.com/gin-gonic/gin"
)

// --- Leads ---

// AdminListLeads lists captured leads with operator filters
func (h *Handler) AdminListLeads(c *gin.Context) {
	filters := storage.LeadFilters{
		Status: models.LeadStatus(c.Query("status")),
		Source: models.LeadSource(c.Query("source")),
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
	}
	if v := c.Query("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.DateFrom = &t
		}
	}
	if v := c.Query("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filters.DateTo = &end
		}
	}

	page, err := h.store.GetLeads(c.Request.Context(), filters)
	if err != nil {
		c.Error(err)
		return
	}
	respondPage(c, page.Items, page.Paginated)
}

// AdminGetLead returns a single lead
func (h *Handler) AdminGetLead(c *gin.Context) {
	lead, err := h.store.GetLeadByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, lead)
}

type updateLeadRequest struct {
	Status     *string    `json:"status"`
	Notes      *string    `json:"notes"`
	AssignedTo *string    `json:"assigned_to"`
	FollowUpAt *time.Time `json:"follow_up_at"`
}

// AdminUpdateLead applies an operator update to a lead
func (h *Handler) AdminUpdateLead(c *gin.Context) {
	var req updateLeadRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := storage.LeadPatch{
		Notes:      req.Notes,
		AssignedTo: req.AssignedTo,
		FollowUpAt: req.FollowUpAt,
	}
	if req.Status != nil {
		status := models.LeadStatus(*req.Status)
		patch.Status = &status
	}

	actorID := ""
	if claims := middleware.GetClaims(c); claims != nil {
		actorID = claims.UserID
	}

	lead, err := h.store.UpdateLead(c.Request.Context(), c.Param("id"), patch, actorID)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, lead)
}

// AdminLeadActivities returns a lead's timeline
func (h *Handler) AdminLeadActivities(c *gin.Context) {
	activities, err := h.store.GetLeadActivities(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, activities)
}

// --- Projects ---

type createProjectRequest struct {
	Slug            string              `json:"slug" binding:"required,min=3,max=255"`
	Name            string              `json:"name" binding:"required,min=3,max=255"`
	Description     string              `json:"description"`
	Location        string              `json:"location" binding:"required"`
	State           string              `json:"state" binding:"required"`
	District        string              `json:"district"`
	ProjectType     string              `json:"project_type" binding:"required"`
	PricePerSqFt    float64             `json:"price_per_sq_ft" binding:"required,gt=0"`
	TotalArea       *float64            `json:"total_area"`
	AvailableArea   *float64            `json:"available_area"`
	MinInvestment   *float64            `json:"min_investment"`
	ExpectedReturns string              `json:"expected_returns"`
	Coordinates     *models.Coordinates `json:"coordinates"`
	Features        []string            `json:"features"`
	Images          []string            `json:"images"`
	Featured        bool                `json:"featured"`
}

// AdminCreateProject creates a project and indexes it for search
func (h *Handler) AdminCreateProject(c *gin.Context) {
	var req createProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	projectType := models.ProjectType(req.ProjectType)
	if !projectType.Valid() {
		c.Error(apperr.Validation("Invalid project type",
			apperr.FieldDetail{Field: "project_type", Message: "unknown project type"}))
		return
	}
	if req.Coordinates != nil && !req.Coordinates.ValidCoordinates() {
		c.Error(apperr.Validation("Invalid coordinates",
			apperr.FieldDetail{Field: "coordinates", Message: "latitude or longitude out of range"}))
		return
	}

	project := &models.Project{
		Slug:            req.Slug,
		Name:            req.Name,
		Description:     req.Description,
		Location:        req.Location,
		State:           req.State,
		District:        req.District,
		ProjectType:     projectType,
		PricePerSqFt:    req.PricePerSqFt,
		TotalArea:       req.TotalArea,
		AvailableArea:   req.AvailableArea,
		MinInvestment:   req.MinInvestment,
		ExpectedReturns: req.ExpectedReturns,
		Coordinates:     req.Coordinates,
		Features:        req.Features,
		Images:          req.Images,
		Featured:        req.Featured,
	}

	created, err := h.store.CreateProject(c.Request.Context(), project)
	if err != nil {
		c.Error(err)
		return
	}

	h.indexProject(created)
	respond(c, http.StatusCreated, created)
}

// AdminUpdateProject applies a partial project update and refreshes the index
func (h *Handler) AdminUpdateProject(c *gin.Context) {
	var patch storage.ProjectPatch
	if !bindJSON(c, &patch) {
		return
	}

	if patch.ProjectType != nil && !patch.ProjectType.Valid() {
		c.Error(apperr.Validation("Invalid project type",
			apperr.FieldDetail{Field: "project_type", Message: "unknown project type"}))
		return
	}
	if patch.Coordinates != nil && !patch.Coordinates.ValidCoordinates() {
		c.Error(apperr.Validation("Invalid coordinates",
			apperr.FieldDetail{Field: "coordinates", Message: "latitude or longitude out of range"}))
		return
	}

	project, err := h.store.UpdateProject(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		c.Error(err)
		return
	}

	if project.Active {
		h.indexProject(project)
	} else {
		h.deindexProject(project.ID)
	}
	respond(c, http.StatusOK, project)
}

// AdminDeleteProject soft-deletes a project and removes it from search
func (h *Handler) AdminDeleteProject(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteProject(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	h.deindexProject(id)
	respondMessage(c, http.StatusOK, nil, "Project deactivated")
}

func (h *Handler) indexProject(project *models.Project) {
	if h.search == nil {
		return
	}
	if err := h.search.IndexProject(project); err != nil {
		log.Printf("[handlers] search index failed project=%s: %v", project.ID, err)
	}
}

func (h *Handler) deindexProject(id string) {
	if h.search == nil {
		return
	}
	if err := h.search.DeleteProject(id); err != nil {
		log.Printf("[handlers] search deindex failed project=%s: %v", id, err)
	}
}

// --- Blog ---

// AdminListBlogPosts lists all posts including drafts
func (h *Handler) AdminListBlogPosts(c *gin.Context) {
	page, err := h.store.GetBlogPosts(c.Request.Context(), storage.BlogFilters{
		Category:      c.Query("category"),
		Tag:           c.Query("tag"),
		PublishedOnly: false,
		Limit:         queryInt(c, "limit"),
		Offset:        queryInt(c, "offset"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	respondPage(c, page.Items, page.Paginated)
}

type createBlogPostRequest struct {
	Slug          string   `json:"slug" binding:"required,min=3,max=255"`
	Title         string   `json:"title" binding:"required,min=3,max=255"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content" binding:"required"`
	FeaturedImage string   `json:"featured_image"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	Published     bool     `json:"published"`
}

// AdminCreateBlogPost creates a post, deriving excerpt and reading time
func (h *Handler) AdminCreateBlogPost(c *gin.Context) {
	var req createBlogPostRequest
	if !bindJSON(c, &req) {
		return
	}

	post := &models.BlogPost{
		Slug:          req.Slug,
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Category:      req.Category,
		Tags:          req.Tags,
		Published:     req.Published,
	}

	created, err := h.store.CreateBlogPost(c.Request.Context(), post)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusCreated, created)
}

type updateBlogPostRequest struct {
	Title         *string  `json:"title" binding:"omitempty,min=3,max=255"`
	Excerpt       *string  `json:"excerpt"`
	Content       *string  `json:"content"`
	FeaturedImage *string  `json:"featured_image"`
	Category      *string  `json:"category"`
	Tags          []string `json:"tags"`
	Published     *bool    `json:"published"`
}

// AdminUpdateBlogPost applies a partial post update
func (h *Handler) AdminUpdateBlogPost(c *gin.Context) {
	var req updateBlogPostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.store.UpdateBlogPost(c.Request.Context(), c.Param("id"), storage.BlogPatch{
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Category:      req.Category,
		Tags:          req.Tags,
		Published:     req.Published,
	})
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, post)
}

// AdminDeleteBlogPost removes a post permanently
func (h *Handler) AdminDeleteBlogPost(c *gin.Context) {
	if err := h.store.DeleteBlogPost(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "Blog post deleted")
}

// --- Testimonials ---

type createTestimonialRequest struct {
	Name      string  `json:"name" binding:"required,min=2,max=100"`
	Location  string  `json:"location" binding:"max=100"`
	Content   string  `json:"content" binding:"required,min=10"`
	Rating    int     `json:"rating" binding:"required,min=1,max=5"`
	ProjectID *string `json:"project_id"`
}

// AdminCreateTestimonial adds a testimonial, pending approval
func (h *Handler) AdminCreateTestimonial(c *gin.Context) {
	var req createTestimonialRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.store.CreateTestimonial(c.Request.Context(), &models.Testimonial{
		Name:      req.Name,
		Location:  req.Location,
		Content:   req.Content,
		Rating:    req.Rating,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusCreated, created)
}

type updateTestimonialRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=100"`
	Location *string `json:"location"`
	Content  *string `json:"content" binding:"omitempty,min=10"`
	Rating   *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Featured *bool   `json:"featured"`
	Approved *bool   `json:"approved"`
	Active   *bool   `json:"active"`
}

// AdminUpdateTestimonial moderates a testimonial
func (h *Handler) AdminUpdateTestimonial(c *gin.Context) {
	var req updateTestimonialRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.store.UpdateTestimonial(c.Request.Context(), c.Param("id"), storage.TestimonialPatch{
		Name:     req.Name,
		Location: req.Location,
		Content:  req.Content,
		Rating:   req.Rating,
		Featured: req.Featured,
		Approved: req.Approved,
		Active:   req.Active,
	})
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// --- Analytics and maintenance ---

// AdminDashboard returns the aggregate dashboard stats
func (h *Handler) AdminDashboard(c *gin.Context) {
	stats, err := h.store.GetDashboardStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// AdminLeadTrend returns daily lead counts for charts
func (h *Handler) AdminLeadTrend(c *gin.Context) {
	days := queryInt(c, "days")
	trend, err := h.store.GetLeadTrend(c.Request.Context(), days)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, trend)
}

// AdminReindex rebuilds the search index from active projects
func (h *Handler) AdminReindex(c *gin.Context) {
	if h.search == nil {
		c.Error(apperr.Validation("Search is not enabled"))
		return
	}

	projects, err := h.store.GetActiveProjects(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.search.Reindex(projects); err != nil {
		c.Error(apperr.Internal(err))
		return
	}

	respondMessage(c, http.StatusOK, gin.H{"indexed": len(projects)}, "Reindex complete")
}

// AdminRunMaintenance runs the nightly maintenance job on demand: view
// count reconciliation, search reindex, and the retention purge
func (h *Handler) AdminRunMaintenance(c *gin.Context) {
	if h.scheduler == nil {
		c.Error(apperr.Validation("Scheduler is not enabled"))
		return
	}
	if err := h.scheduler.RunNow(); err != nil {
		c.Error(apperr.Internal(err))
		return
	}
	respondMessage(c, http.StatusOK, nil, "Maintenance complete")
}

type cleanupRequest struct {
	DryRun *bool `json:"dry_run"`
}

// AdminRunCleanup triggers the analytics retention purge. Dry run is the
// default; pass dry_run=false to actually delete.
func (h *Handler) AdminRunCleanup(c *gin.Context) {
	req := cleanupRequest{}
	// Body is optional; an empty body means dry run
	_ = c.ShouldBindJSON(&req)

	dryRun := true
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}

	retention := time.Duration(h.config.Scheduler.RetentionDays) * 24 * time.Hour
	result, err := h.store.PurgeOldAnalytics(c.Request.Context(), retention, dryRun)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, result)
}

// AdminCleanupLogs returns the purge audit trail
func (h *Handler) AdminCleanupLogs(c *gin.Context) {
	logs, err := h.store.GetDeleteLogs(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, logs)
}
