package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipebox/internal/config"
	"recipebox/internal/models"
)

// NewGormClient connects to the configured database and migrates the schema.
func NewGormClient(cfg *config.Config, l logger.Interface) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverSQLite:
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	default:
		dialector = postgres.Open(cfg.PostgresDSN())
	}

	return Open(dialector, l)
}

// Open opens a connection with duplicate-key translation enabled and runs
// the migrations.
func Open(dialector gorm.Dialector, l logger.Interface) (*gorm.DB, error) {
	gcfg := &gorm.Config{TranslateError: true}
	if l != nil {
		gcfg.Logger = l
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables. Users go first so that the owner
// foreign keys can be created.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("migrate user: %w", err)
	}
	if err := db.AutoMigrate(&models.Tag{}); err != nil {
		return fmt.Errorf("migrate tag: %w", err)
	}
	if err := db.AutoMigrate(&models.Ingredient{}); err != nil {
		return fmt.Errorf("migrate ingredient: %w", err)
	}
	if err := db.AutoMigrate(&models.Recipe{}); err != nil {
		return fmt.Errorf("migrate recipe: %w", err)
	}
	return nil
}

// SQLiteDSN turns a path into a DSN with foreign key enforcement enabled.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// OpenInMemory opens a private in-memory SQLite database. name must be unique
// per database; connections opened with the same name share the data. A single
// connection is used so that writers never hit shared-cache table locks.
func OpenInMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := Open(sqlite.Open(SQLiteDSN(dsn)), logger.Default.LogMode(logger.Silent))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
