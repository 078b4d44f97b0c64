package handlers

import (
	"net/http"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/models"

	"github.com/gin-gonic/gin"
)

type createLeadRequest struct {
	Name            string   `json:"name" binding:"required,min=2,max=100"`
	Email           string   `json:"email" binding:"required,email"`
	Phone           string   `json:"phone" binding:"required,min=7,max=20"`
	ProjectInterest *string  `json:"project_interest"`
	Budget          *float64 `json:"budget"`
	Purpose         string   `json:"purpose" binding:"max=100"`
	Requirements    string   `json:"requirements" binding:"max=2000"`
	Source          string   `json:"source"`
}

// CreateLead captures a public inquiry
func (h *Handler) CreateLead(c *gin.Context) {
	var req createLeadRequest
	if !bindJSON(c, &req) {
		return
	}

	source := models.LeadSource(req.Source)
	if req.Source != "" && !source.Valid() {
		c.Error(apperr.Validation("Invalid lead source",
			apperr.FieldDetail{Field: "source", Message: "unknown source"}))
		return
	}

	if req.ProjectInterest != nil && *req.ProjectInterest != "" {
		if _, err := h.store.GetProjectByID(c.Request.Context(), *req.ProjectInterest); err != nil {
			if apperr.IsNotFound(err) {
				c.Error(apperr.Validation("Referenced project does not exist",
					apperr.FieldDetail{Field: "project_interest", Message: "unknown project"}))
				return
			}
			c.Error(err)
			return
		}
	}

	lead := &models.Lead{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		ProjectInterest: req.ProjectInterest,
		Budget:          req.Budget,
		Purpose:         req.Purpose,
		Requirements:    req.Requirements,
		Source:          source,
		IPAddress:       c.ClientIP(),
	}

	created, err := h.store.CreateLead(c.Request.Context(), lead)
	if err != nil {
		c.Error(err)
		return
	}

	respondMessage(c, http.StatusCreated, created, "Thank you for your interest! We will contact you soon.")
}
