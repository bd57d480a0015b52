package models

import (
	"time"
)

// DefaultProfileImage is used until the user uploads something else.
const DefaultProfileImage = "default.jpg"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	Email        string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:200;not null" json:"-"` // bcrypt digest
	Batch        string    `gorm:"size:20;index" json:"batch"`   // 届别, e.g. "2020"
	Company      string    `gorm:"size:150" json:"company"`
	Role         string    `gorm:"size:150" json:"role"` // job title, not an access role
	ProfileImage string    `gorm:"size:200;default:default.jpg" json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}
