package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/devmo-app/devmo-backend/models"
)

// LikeRepo manages the materialized likedProjects set. Each mutation is a
// single conditional statement, so the set side of a like toggle is atomic
// at the store level even though the counter lives on another record.
type LikeRepo struct {
	db *gorm.DB
}

func NewLikeRepo(db *gorm.DB) *LikeRepo {
	return &LikeRepo{db}
}

// Add inserts the (user, project) membership row. Inserting an existing pair
// is a no-op thanks to the unique index; the boolean reports whether a row
// was actually created, so callers know whether to bump the counter.
func (r *LikeRepo) Add(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	like := models.ProjectLike{UserID: userID, ProjectID: projectID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Remove deletes the membership row, reporting whether one existed.
func (r *LikeRepo) Remove(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&models.ProjectLike{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Exists reports whether the user currently likes the project.
func (r *LikeRepo) Exists(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProjectLike{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	return count > 0, err
}

// ProjectIDsForUser returns the ids of the projects the user likes, oldest first.
func (r *LikeRepo) ProjectIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.ProjectLike{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("project_id", &ids).Error
	return ids, err
}
