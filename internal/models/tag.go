package models

import "time"

// Tag is a user-owned label; (UserID, Name) is unique.
type Tag struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(256);not null;uniqueIndex:uidx_tags_user_name"`
	UserID    uint   `gorm:"not null;uniqueIndex:uidx_tags_user_name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ingredient is a user-owned ingredient; (UserID, Name) is unique.
type Ingredient struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255);not null;uniqueIndex:uidx_ingredients_user_name"`
	UserID    uint   `gorm:"not null;uniqueIndex:uidx_ingredients_user_name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
