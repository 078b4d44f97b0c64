package handlers

import (
	"net/http"

	"farmland-portal/internal/apperr"
	"farmland-portal/internal/middleware"
	"farmland-portal/internal/models"
	"farmland-portal/internal/storage"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"max=20"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// authResponse pairs the user with a fresh bearer token. The user model
// never serializes the password hash.
type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a customer account and signs the user in
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), storage.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     models.RoleCustomer,
	}, h.config.Auth.BcryptCost)
	if err != nil {
		c.Error(err)
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		c.Error(apperr.Internal(err))
		return
	}

	respondMessage(c, http.StatusCreated, authResponse{User: user, Token: token}, "Account created successfully")
}

// Login verifies credentials and issues a token. Unknown email, wrong
// password, and deactivated accounts all return the same 401.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.store.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}
	if user == nil {
		c.Error(apperr.Authentication("Invalid email or password"))
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		c.Error(apperr.Internal(err))
		return
	}

	respond(c, http.StatusOK, authResponse{User: user, Token: token})
}

// Me returns the authenticated user's profile
func (h *Handler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.Error(apperr.Authentication(""))
		return
	}

	user, err := h.store.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=2,max=100"`
	Phone           *string `json:"phone" binding:"omitempty,max=20"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password" binding:"omitempty,min=8,max=128"`
}

// UpdateMe applies the authenticated user's own profile changes
func (h *Handler) UpdateMe(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.Error(apperr.Authentication(""))
		return
	}

	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.store.UpdateUserProfile(c.Request.Context(), claims.UserID, storage.ProfilePatch{
		Name:            req.Name,
		Phone:           req.Phone,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}, h.config.Auth.BcryptCost)
	if err != nil {
		c.Error(err)
		return
	}

	respondMessage(c, http.StatusOK, user, "Profile updated")
}
