// Package handlers implements the HTTP API. Handlers parse and validate
// requests, call storage, and write the response envelope; business rules
// live in the storage layer.
package handlers

import (
	"net/http"

	"farmland-portal/internal/auth"
	"farmland-portal/internal/config"
	"farmland-portal/internal/scheduler"
	"farmland-portal/internal/search"
	"farmland-portal/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler holds the dependencies shared by all routes
type Handler struct {
	store     *storage.Storage
	search    *search.SearchClient
	tokens    *auth.TokenIssuer
	scheduler *scheduler.Scheduler
	config    *config.Config
}

// New creates the handler set. searchClient and sched may be nil when the
// corresponding subsystem is disabled.
func New(store *storage.Storage, searchClient *search.SearchClient, tokens *auth.TokenIssuer, sched *scheduler.Scheduler, cfg *config.Config) *Handler {
	return &Handler{
		store:     store,
		search:    searchClient,
		tokens:    tokens,
		scheduler: sched,
		config:    cfg,
	}
}

// envelope is the success response shape: data plus optional pagination
// meta and a human message
type envelope struct {
	Data    interface{} `json:"data"`
	Meta    interface{} `json:"meta,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Data: data})
}

func respondPage(c *gin.Context, data interface{}, meta storage.Paginated) {
	c.JSON(http.StatusOK, envelope{Data: data, Meta: meta})
}

func respondMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, envelope{Data: data, Message: message})
}
