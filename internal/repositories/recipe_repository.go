package repositories

import (
	"context"

	"recipebox/internal/models"
	"recipebox/internal/query"
)

// RecipeRepository defines the interface for recipe data access.
//
// Create and Update take the nested tag and ingredient names of the request.
// Each name is resolved to the owner's existing row or a newly created one
// and linked to the recipe inside the same transaction as the recipe write.
type RecipeRepository interface {
	List(ctx context.Context, ownerID uint, f query.Filter) ([]models.Recipe, error)
	GetByID(ctx context.Context, ownerID, id uint) (*models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe, tagNames, ingredientNames []string) error
	Update(ctx context.Context, recipe *models.Recipe, changes map[string]interface{}, tagNames, ingredientNames []string) error
	SetImage(ctx context.Context, recipe *models.Recipe, path string) error
	Delete(ctx context.Context, ownerID, id uint) error
}
