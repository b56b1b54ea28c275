package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/vetted-api/internal/criteria"
	"github.com/ajharbinger/vetted-api/internal/models"
	"github.com/ajharbinger/vetted-api/internal/services"
)

// CriteriaHandler exposes a user's criteria configuration
type CriteriaHandler struct {
	criteria services.CriteriaService
}

// NewCriteriaHandler creates a criteria handler
func NewCriteriaHandler(criteria services.CriteriaService) *CriteriaHandler {
	return &CriteriaHandler{criteria: criteria}
}

// GetCategories returns every category of the configuration
func (h *CriteriaHandler) GetCategories(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	views := make([]*services.CategoryView, 0, len(models.AllCategories))
	for _, category := range models.AllCategories {
		view, err := h.criteria.Category(userID, category)
		if err != nil {
			respondError(c, err)
			return
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"categories": views})
}

// GetCategory returns one category with the enabled state and weight of every item
func (h *CriteriaHandler) GetCategory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	category, ok := categoryParam(c)
	if !ok {
		return
	}

	view, err := h.criteria.Category(userID, category)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ToggleItem flips whether an item is enabled
func (h *CriteriaHandler) ToggleItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	category, ok := categoryParam(c)
	if !ok {
		return
	}

	enabled, err := h.criteria.ToggleItem(userID, category, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":   category,
		"enabledIds": enabled,
	})
}

// SetWeightRequest is the body of a weight update
type SetWeightRequest struct {
	Weight *int `json:"weight" binding:"required"`
}

// SetWeight stores the importance of an item, clamped to 1..5
func (h *CriteriaHandler) SetWeight(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	category, ok := categoryParam(c)
	if !ok {
		return
	}

	var req SetWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	stored, err := h.criteria.SetWeight(userID, category, c.Param("id"), *req.Weight)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     c.Param("id"),
		"weight": stored,
	})
}

// AddCustomItem creates a user defined criterion
func (h *CriteriaHandler) AddCustomItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	category, ok := categoryParam(c)
	if !ok {
		return
	}

	var req criteria.NewItem
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.criteria.AddCustomItem(userID, category, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// RemoveCustomItem deletes a user defined criterion
func (h *CriteriaHandler) RemoveCustomItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	category, ok := categoryParam(c)
	if !ok {
		return
	}

	if err := h.criteria.RemoveCustomItem(userID, category, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ResetCategory restores one category to the built-in defaults
func (h *CriteriaHandler) ResetCategory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	category, ok := categoryParam(c)
	if !ok {
		return
	}

	if err := h.criteria.ResetCategory(userID, category); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category reset"})
}

// ResetAll discards the whole configuration
func (h *CriteriaHandler) ResetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.criteria.ResetAll(userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Criteria reset"})
}

// Export downloads the raw configuration document
func (h *CriteriaHandler) Export(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	data, err := h.criteria.Export(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="vetted-criteria.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(data))
}

// Import replaces the configuration with the request body
func (h *CriteriaHandler) Import(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := h.criteria.Import(userID, string(body)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Criteria imported"})
}
