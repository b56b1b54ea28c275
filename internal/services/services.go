package services

import (
	"github.com/google/uuid"

	"github.com/ajharbinger/vetted-api/internal/catalog"
	"github.com/ajharbinger/vetted-api/internal/criteria"
	"github.com/ajharbinger/vetted-api/internal/logger"
	"github.com/ajharbinger/vetted-api/internal/models"
	"github.com/ajharbinger/vetted-api/internal/repository"
	"github.com/ajharbinger/vetted-api/internal/scoring"
	"github.com/ajharbinger/vetted-api/pkg/config"
)

// Services contains all application services
type Services struct {
	Auth     AuthService
	Criteria CriteriaService
	Profiles ProfileService
	Catalog  *catalog.Catalog
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(req *RegisterRequest) (*AuthResponse, error)
	Login(req *LoginRequest) (*AuthResponse, error)
	RefreshToken(token string) (*AuthResponse, error)
	GetUser(id uuid.UUID) (*models.User, error)
}

// CriteriaService defines the interface for a user's criteria configuration
type CriteriaService interface {
	Category(owner uuid.UUID, category models.Category) (*CategoryView, error)
	ToggleItem(owner uuid.UUID, category models.Category, id string) ([]string, error)
	SetWeight(owner uuid.UUID, category models.Category, id string, weight int) (int, error)
	AddCustomItem(owner uuid.UUID, category models.Category, item criteria.NewItem) (models.Criterion, error)
	RemoveCustomItem(owner uuid.UUID, category models.Category, id string) error
	ResetCategory(owner uuid.UUID, category models.Category) error
	ResetAll(owner uuid.UUID) error
	Export(owner uuid.UUID) (string, error)
	Import(owner uuid.UUID, data string) error
}

// ProfileService defines the interface for a user's profiles
type ProfileService interface {
	List(owner uuid.UUID, includeArchived bool) ([]models.Profile, error)
	Archived(owner uuid.UUID) ([]models.Profile, error)
	Get(owner uuid.UUID, id string) (*models.Profile, error)
	Create(owner uuid.UUID, name string) (*models.Profile, error)
	Rename(owner uuid.UUID, id, name string) (*models.Profile, error)
	UpdateNotes(owner uuid.UUID, id, notes string) (*models.Profile, error)
	ToggleFlag(owner uuid.UUID, id string, category models.Category, flagID string, checked bool) (*models.Profile, error)
	ToggleInvestmentStage(owner uuid.UUID, id, stageID string, checked bool) (*models.Profile, error)
	Grade(owner uuid.UUID, id string) (*GradeView, error)
	Archive(owner uuid.UUID, id string) (*models.Profile, error)
	Restore(owner uuid.UUID, id string) (*models.Profile, error)
	Delete(owner uuid.UUID, id string) error
	Regrade(owner uuid.UUID) (int, error)
	Export(owner uuid.UUID) (string, error)
	Import(owner uuid.UUID, data string) error
	Clear(owner uuid.UUID) error
	SeedExamples(owner uuid.UUID) (bool, error)
}

// NewServices creates a new Services instance with all dependencies
func NewServices(repos *repository.Repositories, cat *catalog.Catalog, cfg *config.Config, log logger.Logger) *Services {
	if log == nil {
		log = logger.NewNop()
	}
	ws := &workspaces{
		docs:    repos.Documents,
		catalog: cat,
		engine:  scoring.NewEngine(),
		log:     log,
		locks:   newOwnerLocks(),
	}

	return &Services{
		Auth:     newAuthService(repos, cfg, log),
		Criteria: newCriteriaService(ws),
		Profiles: newProfileService(ws),
		Catalog:  cat,
	}
}
