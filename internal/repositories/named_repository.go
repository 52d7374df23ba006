package repositories

import (
	"context"

	"gorm.io/gorm"

	"recipebox/internal/query"
)

// ownedNames holds the queries shared by tags and ingredients: rows with a
// name that belong to one user and may be linked to recipes through linkTable.
type ownedNames[T any] struct {
	db         *gorm.DB
	table      string
	linkTable  string
	linkColumn string
	what       string
}

func (r *ownedNames[T]) list(ctx context.Context, ownerID uint, f query.Filter) ([]T, error) {
	where, args, err := f.Where(query.Scope{Table: r.table, NameColumn: "name", OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := r.db.WithContext(ctx).Where(where, args...).Order(r.table + ".name ASC").Find(&rows).Error; err != nil {
		return nil, translate(err, "list "+r.what)
	}
	return rows, nil
}

func (r *ownedNames[T]) get(ctx context.Context, ownerID, id uint) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).
		Where(r.table+".user_id = ? AND "+r.table+".id = ?", ownerID, id).
		Take(&row).Error
	if err != nil {
		return nil, translate(err, "get "+r.what)
	}
	return &row, nil
}

func (r *ownedNames[T]) create(ctx context.Context, row *T) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translate(err, "create "+r.what)
	}
	return nil
}

// update writes the name and owner of an existing row.
func (r *ownedNames[T]) update(ctx context.Context, row *T) error {
	res := r.db.WithContext(ctx).Model(row).Select("name", "user_id").Updates(row)
	if res.Error != nil {
		return translate(res.Error, "update "+r.what)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update "+r.what)
	}
	return nil
}

// delete removes the row and its recipe links. Recipes themselves are kept.
func (r *ownedNames[T]) delete(ctx context.Context, ownerID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row T
		if err := tx.Where("user_id = ? AND id = ?", ownerID, id).Take(&row).Error; err != nil {
			return translate(err, "delete "+r.what)
		}
		if err := tx.Exec("DELETE FROM "+r.linkTable+" WHERE "+r.linkColumn+" = ?", id).Error; err != nil {
			return translate(err, "unlink "+r.what)
		}
		if err := tx.Where("user_id = ? AND id = ?", ownerID, id).Delete(&row).Error; err != nil {
			return translate(err, "delete "+r.what)
		}
		return nil
	})
}
