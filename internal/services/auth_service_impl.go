package services

import (
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ajharbinger/vetted-api/internal/auth"
	apperrors "github.com/ajharbinger/vetted-api/internal/errors"
	"github.com/ajharbinger/vetted-api/internal/logger"
	"github.com/ajharbinger/vetted-api/internal/models"
	"github.com/ajharbinger/vetted-api/internal/repository"
	"github.com/ajharbinger/vetted-api/pkg/config"
)

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// AuthResponse carries a fresh token pair for a user
type AuthResponse struct {
	Token            string      `json:"token"`
	RefreshToken     string      `json:"refresh_token"`
	User             models.User `json:"user"`
	ExpiresAt        time.Time   `json:"expires_at"`
	RefreshExpiresAt time.Time   `json:"refresh_expires_at"`
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	repos      *repository.Repositories
	jwtService *auth.JWTService
	log        logger.Logger
}

// newAuthService creates a new auth service implementation
func newAuthService(repos *repository.Repositories, cfg *config.Config, log logger.Logger) AuthService {
	return &authServiceImpl{
		repos:      repos,
		jwtService: auth.NewJWTService(cfg.JWTSecret),
		log:        log,
	}
}

// Register creates a new user account and logs it in
func (s *authServiceImpl) Register(req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(err.Error(), nil)
	}

	existing, err := s.repos.User.GetByEmail(email)
	if err == nil && existing != nil {
		return nil, apperrors.Conflict("Email already registered", nil)
	}
	if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.DatabaseError("Failed to check existing user", err).WithOperation("auth.register")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError("Failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         string(models.RoleUser),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repos.User.Create(user); err != nil {
		return nil, apperrors.DatabaseError("Failed to create user", err).WithOperation("auth.register")
	}

	s.log.Info("user registered", "user_id", user.ID.String())
	return s.issue(user)
}

// Login authenticates a user and returns a token pair
func (s *authServiceImpl) Login(req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repos.User.GetByEmail(email)
	if err != nil {
		if !stderrors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.DatabaseError("Failed to load user", err).WithOperation("auth.login")
		}
		// Same work and message as a wrong password
		auth.CheckPassword(req.Password, dummyHash())
		return nil, apperrors.Unauthorized("Invalid credentials", nil)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.log.Warn("failed login", "user_id", user.ID.String())
		return nil, apperrors.Unauthorized("Invalid credentials", nil)
	}

	return s.issue(user)
}

var dummyHash = sync.OnceValue(func() string {
	hash, _ := auth.HashPassword(uuid.NewString())
	return hash
})

// RefreshToken generates a new token pair from a refresh token
func (s *authServiceImpl) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid refresh token", err)
	}

	user, err := s.repos.User.GetByID(claims.UserID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("User no longer exists", err)
		}
		return nil, apperrors.DatabaseError("Failed to load user", err).WithOperation("auth.refresh")
	}

	return s.issue(user)
}

// GetUser returns the public view of a user
func (s *authServiceImpl) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.repos.User.GetByID(id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found", err)
		}
		return nil, apperrors.DatabaseError("Failed to load user", err).WithOperation("auth.me")
	}
	public := user.Public()
	return &public, nil
}

func (s *authServiceImpl) issue(user *models.User) (*AuthResponse, error) {
	claims := auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	token, expiresAt, err := s.jwtService.GenerateToken(claims)
	if err != nil {
		return nil, apperrors.InternalError("Failed to generate token", err)
	}
	refresh, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(claims)
	if err != nil {
		return nil, apperrors.InternalError("Failed to generate refresh token", err)
	}

	return &AuthResponse{
		Token:            token,
		RefreshToken:     refresh,
		User:             user.Public(),
		ExpiresAt:        expiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}
