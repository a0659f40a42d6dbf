package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectLike materializes one user's membership in a project's like set.
// The (user_id, project_id) pair is unique, so inserting the same like twice
// is a no-op at the store level. The redundant Project.Likes counter must
// equal the number of rows referencing the project under correct pairing.
type ProjectLike struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	UserID    uuid.UUID `json:"userId" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_like_pair"`
	ProjectID uuid.UUID `json:"projectId" db:"project_id" gorm:"type:uuid;not null;uniqueIndex:idx_project_like_pair;index:idx_project_like_project"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}
