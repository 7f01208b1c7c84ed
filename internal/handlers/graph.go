package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/socially/socially/internal/middleware"
	"github.com/socially/socially/internal/services"
)

type GraphHandler struct {
	graphService *services.GraphService
}

func NewGraphHandler(graphService *services.GraphService) *GraphHandler {
	return &GraphHandler{graphService: graphService}
}

func (h *GraphHandler) ToggleFollow(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	following, err := h.graphService.ToggleFollow(c.Request.Context(), middleware.CurrentIdentity(c), targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

func (h *GraphHandler) SuggestedUsers(c *gin.Context) {
	users, err := h.graphService.SuggestedUsers(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}
