package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ajharbinger/vetted-api/internal/auth"
	apperrors "github.com/ajharbinger/vetted-api/internal/errors"
	"github.com/ajharbinger/vetted-api/internal/models"
)

// respondError writes err with the status its AppError code maps to. Storage
// and internal failures are reported without their cause.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body["error"] = appErr.Message
		body["code"] = appErr.Code
		if appErr.Details != "" {
			body["details"] = appErr.Details
		}
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// currentUser returns the authenticated user's id, aborting with 401 if absent
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return uuid.Nil, false
	}
	return id, true
}

// categoryParam parses the :category path parameter
func categoryParam(c *gin.Context) (models.Category, bool) {
	category, err := models.ParseCategory(c.Param("category"))
	if err != nil {
		respondError(c, apperrors.FromDomain(err, "parse_category"))
		return 0, false
	}
	return category, true
}
