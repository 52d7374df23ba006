package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RecipeTagsTable        = "recipe_tags"
	RecipeIngredientsTable = "recipe_ingredients"
)

// Recipe belongs to one user; (UserID, Title) is unique. Tags and Ingredients
// are shared references to rows owned by the same user.
type Recipe struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"not null;uniqueIndex:uidx_recipes_user_title"`
	Title       string          `gorm:"type:varchar(512);not null;uniqueIndex:uidx_recipes_user_title"`
	Description string          `gorm:"type:text;not null"`
	TimeMinutes int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Link        string          `gorm:"type:varchar(1024);not null"`
	Image       string          `gorm:"type:varchar(255);not null"`
	Tags        []Tag           `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []Ingredient    `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
