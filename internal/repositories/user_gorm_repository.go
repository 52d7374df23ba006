package repositories

import (
	"context"

	"gorm.io/gorm"

	"recipebox/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a user; a taken email is an integrity error.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "create user")
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		return nil, translate(err, "get user by email")
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Take(&user, id).Error; err != nil {
		return nil, translate(err, "get user by id")
	}
	return &user, nil
}

// Update writes email, password and name.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(user).Select("email", "password", "name").Updates(user)
	if res.Error != nil {
		return translate(res.Error, "update user")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update user")
	}
	return nil
}

// Delete removes a user together with every tag, ingredient and recipe they
// own, including the recipe link rows.
func (r *GORMUserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Recipe{}).Select("id").Where("user_id = ?", id)

		if err := tx.Exec("DELETE FROM "+models.RecipeTagsTable+" WHERE recipe_id IN (?)", owned).Error; err != nil {
			return translate(err, "delete recipe tags")
		}
		if err := tx.Exec("DELETE FROM "+models.RecipeIngredientsTable+" WHERE recipe_id IN (?)", owned).Error; err != nil {
			return translate(err, "delete recipe ingredients")
		}
		for _, m := range []interface{}{&models.Recipe{}, &models.Tag{}, &models.Ingredient{}} {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return translate(err, "delete owned rows")
			}
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return translate(res.Error, "delete user")
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "delete user")
		}
		return nil
	})
}
