package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"recipebox/internal/apperr"
	"recipebox/internal/media"
	"recipebox/internal/models"
	"recipebox/internal/query"
	"recipebox/internal/repositories"
)

const maxTitleLen = 512

// RecipeService handles business logic related to recipes.
type RecipeService struct {
	repo    repositories.RecipeRepository
	storage *media.Storage
	events  *Notifier
	log     *zap.SugaredLogger
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(repo repositories.RecipeRepository, storage *media.Storage, events *Notifier, log *zap.SugaredLogger) *RecipeService {
	return &RecipeService{
		repo:    repo,
		storage: storage,
		events:  events,
		log:     log,
	}
}

// ListRecipes returns the user's recipes matching f, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, user *models.User, f query.Filter) ([]models.Recipe, error) {
	return s.repo.List(ctx, user.ID, f)
}

// GetRecipe retrieves one of the user's recipes with tags and ingredients.
func (s *RecipeService) GetRecipe(ctx context.Context, user *models.User, id uint) (*models.Recipe, error) {
	return s.repo.GetByID(ctx, user.ID, id)
}

// CreateRecipe validates req, then stores the recipe and links its nested
// tags and ingredients, creating the ones the user does not have yet.
func (s *RecipeService) CreateRecipe(ctx context.Context, user *models.User, req models.RecipeRequest) (*models.Recipe, error) {
	if missing := req.MissingRequired(); len(missing) > 0 {
		return nil, apperr.Validation(missing)
	}
	changes, err := recipeChanges(req)
	if err != nil {
		return nil, err
	}
	tagNames, ingredientNames, err := nestedNames(req)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		UserID:      user.ID,
		Title:       changes["title"].(string),
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Link != nil {
		recipe.Link = strings.TrimSpace(*req.Link)
	}

	if err := s.repo.Create(ctx, recipe, tagNames, ingredientNames); err != nil {
		return nil, err
	}
	s.events.Emit(EventRecipeCreated, user.ID, recipe.ID)
	return recipe, nil
}

// UpdateRecipe applies req to one of the user's recipes. A full update
// (partial=false) requires title, time_minutes and price.
//
// Nested tags and ingredients are only ever added: names missing from req
// keep their links, even on a full update.
// TODO: decide whether PUT should replace the link set instead of adding to it.
func (s *RecipeService) UpdateRecipe(ctx context.Context, user *models.User, id uint, req models.RecipeRequest, partial bool) (*models.Recipe, error) {
	recipe, err := s.repo.GetByID(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}
	if !partial {
		if missing := req.MissingRequired(); len(missing) > 0 {
			return nil, apperr.Validation(missing)
		}
	}
	changes, err := recipeChanges(req)
	if err != nil {
		return nil, err
	}
	tagNames, ingredientNames, err := nestedNames(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, recipe, changes, tagNames, ingredientNames); err != nil {
		return nil, err
	}
	s.events.Emit(EventRecipeUpdated, user.ID, recipe.ID)
	return recipe, nil
}

// DeleteRecipe deletes one of the user's recipes and its stored image.
func (s *RecipeService) DeleteRecipe(ctx context.Context, user *models.User, id uint) error {
	recipe, err := s.repo.GetByID(ctx, user.ID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user.ID, id); err != nil {
		return err
	}
	s.removeImage(recipe.Image)
	s.events.Emit(EventRecipeDeleted, user.ID, id)
	return nil
}

// UploadImage stores data as the recipe's image and replaces the previous
// one. Content that is not an image leaves the recipe untouched.
func (s *RecipeService) UploadImage(ctx context.Context, user *models.User, id uint, filename string, data []byte) (*models.Recipe, error) {
	recipe, err := s.repo.GetByID(ctx, user.ID, id)
	if err != nil {
		return nil, err
	}

	path, err := s.storage.SaveRecipeImage(filename, data)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrNotImage), errors.Is(err, media.ErrTooLarge):
			return nil, apperr.FieldError("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		case errors.Is(err, media.ErrExtension):
			return nil, apperr.FieldError("image", fmt.Sprintf("File extension %q is not allowed. Allowed extensions are: gif, jpeg, jpg, png.",
				strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")))
		}
		return nil, err
	}

	previous := recipe.Image
	if err := s.repo.SetImage(ctx, recipe, path); err != nil {
		s.removeImage(path)
		return nil, err
	}
	if previous != "" && previous != path {
		s.removeImage(previous)
	}
	s.events.Emit(EventRecipeImage, user.ID, recipe.ID)
	return recipe, nil
}

func (s *RecipeService) removeImage(path string) {
	if path == "" {
		return
	}
	if err := s.storage.Remove(path); err != nil && s.log != nil {
		s.log.Warnw("failed to remove image", "path", path, "error", err)
	}
}

// recipeChanges validates the supplied scalar fields and returns them keyed
// by column.
func recipeChanges(req models.RecipeRequest) (map[string]interface{}, error) {
	changes := map[string]interface{}{}
	if req.Title != nil {
		title, verr := cleanName("title", *req.Title, maxTitleLen)
		if verr != nil {
			return nil, verr
		}
		changes["title"] = title
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.TimeMinutes != nil {
		if *req.TimeMinutes < 0 {
			return nil, apperr.FieldError("time_minutes", msgNegative)
		}
		changes["time_minutes"] = *req.TimeMinutes
	}
	if req.Price != nil {
		if verr := checkPrice(*req.Price); verr != nil {
			return nil, verr
		}
		changes["price"] = *req.Price
	}
	if req.Link != nil {
		changes["link"] = strings.TrimSpace(*req.Link)
	}
	return changes, nil
}

func nestedNames(req models.RecipeRequest) ([]string, []string, error) {
	tags := req.TagNames()
	if verr := checkNames("tags", tags); verr != nil {
		return nil, nil, verr
	}
	ingredients := req.IngredientNames()
	if verr := checkNames("ingredients", ingredients); verr != nil {
		return nil, nil, verr
	}
	return tags, ingredients, nil
}
