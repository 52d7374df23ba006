package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipebox/internal/models"
	"recipebox/internal/query"
)

var (
	recipeTagsJoin = query.Join{
		Table:     models.RecipeTagsTable,
		OwnColumn: "recipe_id",
		RefColumn: "tag_id",
	}
	recipeIngredientsJoin = query.Join{
		Table:     models.RecipeIngredientsTable,
		OwnColumn: "recipe_id",
		RefColumn: "ingredient_id",
	}
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{
		db: db,
	}
}

func withRelations(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }
	return db.Preload("Tags", byID).Preload("Ingredients", byID)
}

// List returns the owner's recipes matching f, newest first.
func (r *GORMRecipeRepository) List(ctx context.Context, ownerID uint, f query.Filter) ([]models.Recipe, error) {
	where, args, err := f.Where(query.Scope{
		Table:       "recipes",
		NameColumn:  "title",
		OwnerID:     ownerID,
		Tags:        &recipeTagsJoin,
		Ingredients: &recipeIngredientsJoin,
	})
	if err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	err = withRelations(r.db.WithContext(ctx)).
		Where(where, args...).
		Order("recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, translate(err, "list recipes")
	}
	return recipes, nil
}

// GetByID retrieves one of the owner's recipes with its tags and ingredients.
func (r *GORMRecipeRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.Recipe, error) {
	return getRecipe(r.db.WithContext(ctx), ownerID, id)
}

// Create inserts the recipe and links the named tags and ingredients.
func (r *GORMRecipeRepository) Create(ctx context.Context, recipe *models.Recipe, tagNames, ingredientNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe.Tags, recipe.Ingredients = nil, nil
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return translate(err, "create recipe")
		}
		if err := linkNames(tx, recipe, tagNames, ingredientNames); err != nil {
			return err
		}
		return reload(tx, recipe)
	})
}

// Update applies the column changes and adds links for the named tags and
// ingredients. Existing links are never removed.
func (r *GORMRecipeRepository) Update(ctx context.Context, recipe *models.Recipe, changes map[string]interface{}, tagNames, ingredientNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes) > 0 {
			res := tx.Model(&models.Recipe{}).
				Where("id = ? AND user_id = ?", recipe.ID, recipe.UserID).
				Updates(changes)
			if res.Error != nil {
				return translate(res.Error, "update recipe")
			}
			if res.RowsAffected == 0 {
				return translate(gorm.ErrRecordNotFound, "update recipe")
			}
		}
		if err := linkNames(tx, recipe, tagNames, ingredientNames); err != nil {
			return err
		}
		return reload(tx, recipe)
	})
}

// SetImage stores the relative image path on the recipe.
func (r *GORMRecipeRepository) SetImage(ctx context.Context, recipe *models.Recipe, path string) error {
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", recipe.ID, recipe.UserID).
		Update("image", path)
	if res.Error != nil {
		return translate(res.Error, "set recipe image")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "set recipe image")
	}
	recipe.Image = path
	return nil
}

// Delete removes the recipe and its links. Tags and ingredients are kept.
func (r *GORMRecipeRepository) Delete(ctx context.Context, ownerID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("user_id = ? AND id = ?", ownerID, id).Take(&recipe).Error; err != nil {
			return translate(err, "delete recipe")
		}
		for _, table := range []string{models.RecipeTagsTable, models.RecipeIngredientsTable} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE recipe_id = ?", id).Error; err != nil {
				return translate(err, "unlink recipe")
			}
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return translate(err, "delete recipe")
		}
		return nil
	})
}

func getRecipe(db *gorm.DB, ownerID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := withRelations(db).
		Where("recipes.user_id = ? AND recipes.id = ?", ownerID, id).
		Take(&recipe).Error
	if err != nil {
		return nil, translate(err, "get recipe")
	}
	return &recipe, nil
}

func reload(tx *gorm.DB, recipe *models.Recipe) error {
	fresh, err := getRecipe(tx, recipe.UserID, recipe.ID)
	if err != nil {
		return err
	}
	*recipe = *fresh
	return nil
}

func linkNames(tx *gorm.DB, recipe *models.Recipe, tagNames, ingredientNames []string) error {
	tagIDs, err := getOrCreate(tx, "tags", recipe.UserID, tagNames)
	if err != nil {
		return err
	}
	if err := link(tx, recipeTagsJoin, recipe.ID, tagIDs); err != nil {
		return err
	}

	ingredientIDs, err := getOrCreate(tx, "ingredients", recipe.UserID, ingredientNames)
	if err != nil {
		return err
	}
	return link(tx, recipeIngredientsJoin, recipe.ID, ingredientIDs)
}

// getOrCreate resolves each name to the id of the owner's row in table,
// inserting rows that do not exist yet. A concurrent insert of the same name
// is absorbed by ON CONFLICT DO NOTHING followed by a second lookup.
func getOrCreate(tx *gorm.DB, table string, ownerID uint, names []string) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		id, err := lookupID(tx, table, ownerID, name)
		if err != nil {
			return nil, err
		}
		if id == 0 {
			now := tx.NowFunc()
			row := map[string]interface{}{
				"user_id":    ownerID,
				"name":       name,
				"created_at": now,
				"updated_at": now,
			}
			if err := tx.Table(table).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
				return nil, translate(err, "create "+table)
			}
			if id, err = lookupID(tx, table, ownerID, name); err != nil {
				return nil, err
			}
			if id == 0 {
				return nil, translate(gorm.ErrRecordNotFound, "resolve "+table)
			}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func lookupID(tx *gorm.DB, table string, ownerID uint, name string) (uint, error) {
	var ids []uint
	err := tx.Table(table).
		Where("user_id = ? AND name = ?", ownerID, name).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, translate(err, "lookup "+table)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

func link(tx *gorm.DB, j query.Join, recipeID uint, refIDs []uint) error {
	if len(refIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, len(refIDs))
	for i, id := range refIDs {
		rows[i] = map[string]interface{}{j.OwnColumn: recipeID, j.RefColumn: id}
	}
	if err := tx.Table(j.Table).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return translate(err, "link "+j.Table)
	}
	return nil
}
