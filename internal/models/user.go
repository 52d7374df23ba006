package models

import (
	"strings"
	"time"
)

// User owns every Tag, Ingredient and Recipe; deleting it cascades to all of them.
type User struct {
	ID          uint   `gorm:"primaryKey"`
	Email       string `gorm:"uniqueIndex;type:varchar(255);not null"`
	Password    string `gorm:"type:varchar(255);not null"`
	Name        string `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Tags        []Tag        `gorm:"constraint:OnDelete:CASCADE"`
	Ingredients []Ingredient `gorm:"constraint:OnDelete:CASCADE"`
	Recipes     []Recipe     `gorm:"constraint:OnDelete:CASCADE"`
}

// NormalizeEmail lower-cases the domain part of an address and leaves the
// local part untouched.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
