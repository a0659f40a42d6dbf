package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project represents a posted portfolio project with metadata.
//
// ImageKey is the opaque blob-store key of the project image. It is assigned
// by the server on creation, immutable afterwards, and never serialized:
// clients only ever see ImageURL, a presigned URL computed at read time.
type Project struct {
	ID           uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name         string                      `json:"name" db:"name" gorm:"type:text;not null"`
	Description  string                      `json:"description" db:"description" gorm:"type:text;not null"`
	ProjectURL   string                      `json:"projectUrl" db:"project_url" gorm:"type:text;not null"`
	OwnerID      uuid.UUID                   `json:"owner" db:"owner_id" gorm:"type:uuid;not null;index"`
	Technologies datatypes.JSONSlice[string] `json:"technologies" db:"technologies" gorm:"not null"`
	ImageKey     string                      `json:"-" db:"image_key" gorm:"type:text;not null"`
	ImageURL     string                      `json:"imageUrl,omitempty" gorm:"-"`
	GithubRepo   *string                     `json:"githubRepo,omitempty" db:"github_repo" gorm:"type:text"`
	Likes        int                         `json:"likes" db:"likes" gorm:"type:integer;not null;default:0"`
	Popularity   *int                        `json:"popularity,omitempty" db:"popularity" gorm:"type:integer;index"`
	CreatedAt    time.Time                   `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time                   `json:"updatedAt" db:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	Owner *User         `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
	Liked []ProjectLike `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}
