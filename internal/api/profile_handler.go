package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/vetted-api/internal/models"
	"github.com/ajharbinger/vetted-api/internal/services"
)

// ProfileHandler exposes a user's profiles
type ProfileHandler struct {
	profiles services.ProfileService
}

// NewProfileHandler creates a profile handler
func NewProfileHandler(profiles services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// NameRequest carries a profile name
type NameRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// NotesRequest carries free-form profile notes
type NotesRequest struct {
	Notes string `json:"notes" binding:"max=20000"`
}

// ToggleRequest sets the membership of one checklist item on a profile
type ToggleRequest struct {
	ID      string `json:"id" binding:"required,max=128"`
	Checked bool   `json:"checked"`
}

// GetProfiles lists active profiles; ?archived=true includes archived ones
func (h *ProfileHandler) GetProfiles(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.profiles.List(userID, c.Query("archived") == "true")
	respondList(c, list, err)
}

// GetArchivedProfiles lists only archived profiles
func (h *ProfileHandler) GetArchivedProfiles(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.profiles.Archived(userID)
	respondList(c, list, err)
}

func respondList(c *gin.Context, list []models.Profile, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profiles": list,
		"count":    len(list),
	})
}

// CreateProfile creates an empty profile
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.profiles.Create(userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// GetProfile returns one profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	p, err := h.profiles.Get(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// RenameProfile changes a profile's name
func (h *ProfileHandler) RenameProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.profiles.Rename(userID, c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateNotes replaces a profile's notes
func (h *ProfileHandler) UpdateNotes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.profiles.UpdateNotes(userID, c.Param("id"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// ToggleFlag checks or unchecks a green flag, red flag or dealbreaker and
// returns the regraded profile.
func (h *ProfileHandler) ToggleFlag(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	category, ok := categoryParam(c)
	if !ok {
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.profiles.ToggleFlag(userID, c.Param("id"), category, req.ID, req.Checked)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// ToggleInvestment checks or unchecks an investment stage
func (h *ProfileHandler) ToggleInvestment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.profiles.ToggleInvestmentStage(userID, c.Param("id"), req.ID, req.Checked)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetGrade computes a profile's grade against the current criteria
func (h *ProfileHandler) GetGrade(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.profiles.Grade(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ArchiveProfile soft-deletes a profile
func (h *ProfileHandler) ArchiveProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	p, err := h.profiles.Archive(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// RestoreProfile brings an archived profile back
func (h *ProfileHandler) RestoreProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	p, err := h.profiles.Restore(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeleteProfile removes a profile permanently
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.profiles.Delete(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Regrade recomputes every cached grade against the current criteria
func (h *ProfileHandler) Regrade(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	changed, err := h.profiles.Regrade(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// Export downloads the profile document
func (h *ProfileHandler) Export(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	data, err := h.profiles.Export(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="vetted-profiles.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(data))
}

// Import replaces every profile with the request body
func (h *ProfileHandler) Import(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := h.profiles.Import(userID, string(body)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profiles imported"})
}

// Clear deletes every profile
func (h *ProfileHandler) Clear(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.profiles.Clear(userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Seed adds the demo profiles to an empty collection
func (h *ProfileHandler) Seed(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	seeded, err := h.profiles.SeedExamples(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if seeded {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"seeded": seeded})
}
