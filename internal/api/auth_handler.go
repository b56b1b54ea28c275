package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/vetted-api/internal/auth"
	"github.com/ajharbinger/vetted-api/internal/services"
)

// AuthHandler handles authentication operations
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new auth handler with service injection
func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// sessionResponse is an AuthResponse plus the CSRF token cookie clients must echo
type sessionResponse struct {
	*services.AuthResponse
	CSRFToken string `json:"csrf_token"`
}

func isSecure(c *gin.Context) bool {
	return c.Request.Header.Get("X-Forwarded-Proto") == "https" || c.Request.TLS != nil
}

// setSecureCookie sets a secure cookie
func setSecureCookie(c *gin.Context, name, value, path string, expires time.Time, httpOnly bool) {
	maxAge := int(time.Until(expires).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, path, "", isSecure(c), httpOnly)
}

// clearCookie clears a cookie by setting it to empty with past expiration
func clearCookie(c *gin.Context, name, path string, httpOnly bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, path, "", isSecure(c), httpOnly)
}

// startSession sets the auth, refresh and CSRF cookies for resp
func startSession(c *gin.Context, resp *services.AuthResponse) sessionResponse {
	csrf := auth.NewCSRFToken()
	setSecureCookie(c, auth.AuthCookie, resp.Token, "/", resp.ExpiresAt, true)
	setSecureCookie(c, auth.RefreshCookie, resp.RefreshToken, "/api/v1/auth", resp.RefreshExpiresAt, true)
	// Readable by the frontend so it can echo it in X-CSRF-Token
	setSecureCookie(c, auth.CSRFCookie, csrf, "/", resp.ExpiresAt, false)
	return sessionResponse{AuthResponse: resp, CSRFToken: csrf}
}

// Register creates a new user account and starts a session
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, startSession(c, resp))
}

// Login authenticates a user
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, startSession(c, resp))
}

// RefreshToken issues a new token pair. The refresh token is read from the
// request body, falling back to the refresh cookie.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(auth.RefreshCookie); err == nil {
			req.RefreshToken = cookie
		}
	}
	if req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh_token is required"})
		return
	}

	resp, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, startSession(c, resp))
}

// Logout handles user logout by clearing cookies
func (h *AuthHandler) Logout(c *gin.Context) {
	clearCookie(c, auth.AuthCookie, "/", true)
	clearCookie(c, auth.RefreshCookie, "/api/v1/auth", true)
	clearCookie(c, auth.CSRFCookie, "/", false)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
