package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devmo-app/devmo-backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects from the database
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID, or nil when no such project exists.
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByOwner returns the projects owned by the given user. An owner with no
// projects yields an empty slice, not an error.
func (r *ProjectRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update updates an existing project in the database
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id).Error
}

// IncrementLikes bumps the denormalized like counter by one as a single
// atomic update.
func (r *ProjectRepo) IncrementLikes(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
}

// DecrementLikes lowers the like counter by one. The likes > 0 guard keeps
// the counter from going negative if toggles ever arrive unpaired.
func (r *ProjectRepo) DecrementLikes(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND likes > 0", id).
		UpdateColumn("likes", gorm.Expr("likes - 1")).Error
}

// SetPopularity assigns the popularity rank for a single project.
func (r *ProjectRepo) SetPopularity(ctx context.Context, id uuid.UUID, rank int) error {
	return r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("popularity", rank).Error
}

// ReconcileLikes recounts the like counter from the membership rows. The
// toggle path is not transactional across the two records, so the counter
// can drift under concurrent toggles; this is the operator-facing repair.
func (r *ProjectRepo) ReconcileLikes(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr(
			"(SELECT COUNT(*) FROM project_likes WHERE project_id = ?)", id,
		)).Error
}
