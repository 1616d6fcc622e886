package models

import "time"

// AdminUser may sign in to manage the catalog.
type AdminUser struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"      json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null"             json:"-"` // bcrypt, never serialised
	CreatedAt    time.Time `json:"created_at"`
}
