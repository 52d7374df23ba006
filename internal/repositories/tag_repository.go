package repositories

import (
	"context"

	"gorm.io/gorm"

	"recipebox/internal/models"
	"recipebox/internal/query"
)

// TagRepository defines the interface for tag data access. Every read and
// write is scoped to one owner.
type TagRepository interface {
	List(ctx context.Context, ownerID uint, f query.Filter) ([]models.Tag, error)
	GetByID(ctx context.Context, ownerID, id uint) (*models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, ownerID, id uint) error
}

// GORMTagRepository is a GORM implementation of TagRepository.
type GORMTagRepository struct {
	rows ownedNames[models.Tag]
}

// NewGORMTagRepository creates a new instance of GORMTagRepository.
func NewGORMTagRepository(db *gorm.DB) *GORMTagRepository {
	return &GORMTagRepository{
		rows: ownedNames[models.Tag]{
			db:         db,
			table:      "tags",
			linkTable:  models.RecipeTagsTable,
			linkColumn: "tag_id",
			what:       "tag",
		},
	}
}

// List returns the owner's tags matching f, ordered by name.
func (r *GORMTagRepository) List(ctx context.Context, ownerID uint, f query.Filter) ([]models.Tag, error) {
	return r.rows.list(ctx, ownerID, f)
}

func (r *GORMTagRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.Tag, error) {
	return r.rows.get(ctx, ownerID, id)
}

func (r *GORMTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return r.rows.create(ctx, tag)
}

func (r *GORMTagRepository) Update(ctx context.Context, tag *models.Tag) error {
	return r.rows.update(ctx, tag)
}

// Delete removes the tag and detaches it from every recipe.
func (r *GORMTagRepository) Delete(ctx context.Context, ownerID, id uint) error {
	return r.rows.delete(ctx, ownerID, id)
}
