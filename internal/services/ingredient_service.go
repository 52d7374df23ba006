package services

import (
	"context"

	"recipebox/internal/apperr"
	"recipebox/internal/models"
	"recipebox/internal/query"
	"recipebox/internal/repositories"
)

// IngredientService handles business logic related to ingredients.
type IngredientService struct {
	repo   repositories.IngredientRepository
	events *Notifier
}

// NewIngredientService creates a new IngredientService.
func NewIngredientService(repo repositories.IngredientRepository, events *Notifier) *IngredientService {
	return &IngredientService{
		repo:   repo,
		events: events,
	}
}

func (s *IngredientService) ListIngredients(ctx context.Context, user *models.User, f query.Filter) ([]models.Ingredient, error) {
	return s.repo.List(ctx, user.ID, f)
}

func (s *IngredientService) GetIngredient(ctx context.Context, user *models.User, id uint) (*models.Ingredient, error) {
	return s.repo.GetByID(ctx, user.ID, id)
}

// CreateIngredient creates an ingredient owned by user.
func (s *IngredientService) CreateIngredient(ctx context.Context, user *models.User, req models.IngredientRequest) (*models.Ingredient, error) {
	if missing := req.MissingRequired(); len(missing) > 0 {
		return nil, apperr.Validation(missing)
	}
	name, verr := cleanName("name", *req.Name, maxIngredientNameLen)
	if verr != nil {
		return nil, verr
	}

	ingredient := &models.Ingredient{Name: name, UserID: user.ID}
	if err := s.repo.Create(ctx, ingredient); err != nil {
		return nil, err
	}
	s.events.Emit(EventIngredientCreated, user.ID, ingredient.ID)
	return ingredient, nil
}

// UpdateIngredient renames one of the user's ingredients.
func (s *IngredientService) UpdateIngredient(ctx context.Context, user *models.User, id uint, req models.IngredientRequest, partial bool) (*models.Ingredient, error) {
	ingredient, err := s.repo.GetByID(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	if !partial {
		if missing := req.MissingRequired(); len(missing) > 0 {
			return nil, apperr.Validation(missing)
		}
	}
	if req.Name == nil {
		return ingredient, nil
	}

	name, verr := cleanName("name", *req.Name, maxIngredientNameLen)
	if verr != nil {
		return nil, verr
	}
	ingredient.Name = name
	ingredient.UserID = user.ID
	if err := s.repo.Update(ctx, ingredient); err != nil {
		return nil, err
	}
	s.events.Emit(EventIngredientUpdated, user.ID, ingredient.ID)
	return ingredient, nil
}

func (s *IngredientService) DeleteIngredient(ctx context.Context, user *models.User, id uint) error {
	if err := s.repo.Delete(ctx, user.ID, id); err != nil {
		return err
	}
	s.events.Emit(EventIngredientDeleted, user.ID, id)
	return nil
}
