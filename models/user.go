package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. The password hash column is excluded
// from JSON marshaling so it can never be serialized back to a client.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	FirstName    string    `json:"firstName" db:"first_name" gorm:"type:text;not null"`
	LastName     string    `json:"lastName" db:"last_name" gorm:"type:text;not null"`
	Email        string    `json:"email" db:"email" gorm:"type:text;not null;unique"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	LikedProjects []ProjectLike `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}
