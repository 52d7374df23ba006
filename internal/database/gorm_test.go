package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebox/internal/models"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "recipebox.db?_foreign_keys=on", SQLiteDSN("recipebox.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", SQLiteDSN("file:x?mode=memory"))
}

func TestOpenInMemoryMigrates(t *testing.T) {
	db, err := OpenInMemory(uuid.NewString())
	require.NoError(t, err)

	for _, table := range []interface{}{&models.User{}, &models.Tag{}, &models.Ingredient{}, &models.Recipe{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasTable(models.RecipeTagsTable))
	assert.True(t, db.Migrator().HasTable(models.RecipeIngredientsTable))
	assert.True(t, db.Migrator().HasIndex(&models.Tag{}, "uidx_tags_user_name"))
	assert.True(t, db.Migrator().HasIndex(&models.Recipe{}, "uidx_recipes_user_title"))
}
