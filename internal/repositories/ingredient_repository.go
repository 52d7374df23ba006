package repositories

import (
	"context"

	"gorm.io/gorm"

	"recipebox/internal/models"
	"recipebox/internal/query"
)

// IngredientRepository defines the interface for ingredient data access.
type IngredientRepository interface {
	List(ctx context.Context, ownerID uint, f query.Filter) ([]models.Ingredient, error)
	GetByID(ctx context.Context, ownerID, id uint) (*models.Ingredient, error)
	Create(ctx context.Context, ingredient *models.Ingredient) error
	Update(ctx context.Context, ingredient *models.Ingredient) error
	Delete(ctx context.Context, ownerID, id uint) error
}

// GORMIngredientRepository is a GORM implementation of IngredientRepository.
type GORMIngredientRepository struct {
	rows ownedNames[models.Ingredient]
}

// NewGORMIngredientRepository creates a new instance of GORMIngredientRepository.
func NewGORMIngredientRepository(db *gorm.DB) *GORMIngredientRepository {
	return &GORMIngredientRepository{
		rows: ownedNames[models.Ingredient]{
			db:         db,
			table:      "ingredients",
			linkTable:  models.RecipeIngredientsTable,
			linkColumn: "ingredient_id",
			what:       "ingredient",
		},
	}
}

func (r *GORMIngredientRepository) List(ctx context.Context, ownerID uint, f query.Filter) ([]models.Ingredient, error) {
	return r.rows.list(ctx, ownerID, f)
}

func (r *GORMIngredientRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.Ingredient, error) {
	return r.rows.get(ctx, ownerID, id)
}

func (r *GORMIngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	return r.rows.create(ctx, ingredient)
}

func (r *GORMIngredientRepository) Update(ctx context.Context, ingredient *models.Ingredient) error {
	return r.rows.update(ctx, ingredient)
}

func (r *GORMIngredientRepository) Delete(ctx context.Context, ownerID, id uint) error {
	return r.rows.delete(ctx, ownerID, id)
}
