package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/devmo-app/devmo-backend/blobstore"
	"github.com/devmo-app/devmo-backend/errs"
	"github.com/devmo-app/devmo-backend/models"
)

// ProjectStore is the project metadata store consumed by the workflow.
// Implemented by database.ProjectRepo; tests inject in-memory doubles.
type ProjectStore interface {
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementLikes(ctx context.Context, id uuid.UUID) error
	DecrementLikes(ctx context.Context, id uuid.UUID) error
	SetPopularity(ctx context.Context, id uuid.UUID, rank int) error
}

// UserStore is the identity store consumed by the workflow and accounts
// service. Implemented by database.UserRepo.
type UserStore interface {
	FindAll(ctx context.Context) ([]*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
}

// LikeStore is the materialized likedProjects set. Implemented by
// database.LikeRepo. Add and Remove report whether a row actually changed,
// which is what keeps the counter mutations paired with set mutations.
type LikeStore interface {
	Add(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
	Remove(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
	ProjectIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// ProjectFields carries the client-supplied project attributes. The image
// key is deliberately absent: it is server-generated and immutable.
type ProjectFields struct {
	Name         string
	Description  string
	ProjectURL   string
	Technologies []string
	GithubRepo   *string
}

func (f ProjectFields) Validate() error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.Description, validation.Required),
		validation.Field(&f.ProjectURL, validation.Required, is.URL),
		validation.Field(&f.Technologies, validation.Required, validation.Each(validation.Required)),
		validation.Field(&f.GithubRepo, is.URL),
	)
	if err != nil {
		return errs.NewValidationError(err)
	}
	return nil
}

// ProjectWorkflow orchestrates project metadata, the image blob lifecycle
// and the like toggle. It is the one place where the identity store, the
// project store and the blob store must be kept consistent.
//
// Consistency policy: the two stores are never mutated inside one
// transaction. On create the blob is written first so a failed insert can
// only leak a blob, never a dangling reference. On delete the blob is
// removed first and the metadata row is kept as a recovery anchor if that
// fails. The like toggle performs two individually-atomic mutations without
// cross-record locking; concurrent toggles on the same pair can drift the
// counter, which ReconcileLikes on the project repo repairs.
type ProjectWorkflow struct {
	projects     ProjectStore
	users        UserStore
	likes        LikeStore
	blobs        blobstore.BlobStore
	signedURLTTL time.Duration
	storeTimeout time.Duration
	logger       zerolog.Logger
}

func NewProjectWorkflow(
	projects ProjectStore,
	users UserStore,
	likes LikeStore,
	blobs blobstore.BlobStore,
	signedURLTTL time.Duration,
	storeTimeout time.Duration,
) *ProjectWorkflow {
	return &ProjectWorkflow{
		projects:     projects,
		users:        users,
		likes:        likes,
		blobs:        blobs,
		signedURLTTL: signedURLTTL,
		storeTimeout: storeTimeout,
		logger:       log.With().Str("serviceName", "projectWorkflow").Logger(),
	}
}

// newImageKey generates the opaque blob key: 32 hex characters from 16
// cryptographically random bytes. Keys are never derived from user input.
func newImageKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating image key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// blobCtx bounds a single blob-store call. The workflow never retries; a
// timeout surfaces as an upstream I/O error to the caller.
func (w *ProjectWorkflow) blobCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, w.storeTimeout)
}

// CreateProject validates the fields and image, writes the normalized image
// to the blob store under a fresh key, and only then persists the metadata
// record. A failed blob write leaves no record behind; a failed insert after
// a successful blob write leaks the blob, which is logged for later
// reconciliation.
func (w *ProjectWorkflow) CreateProject(ctx context.Context, ownerID uuid.UUID, fields ProjectFields, imageData []byte) (*models.Project, error) {
	if len(imageData) == 0 {
		return nil, errs.NewMissingRequiredFieldError("image")
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	owner, err := w.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if owner == nil {
		return nil, errs.NewNotFound("user")
	}

	normalized, contentType, err := NormalizeImage(imageData)
	if err != nil {
		return nil, err
	}

	key, err := newImageKey()
	if err != nil {
		return nil, err
	}

	putCtx, cancel := w.blobCtx(ctx)
	defer cancel()
	if err := w.blobs.Put(putCtx, key, normalized, contentType); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:         fields.Name,
		Description:  fields.Description,
		ProjectURL:   fields.ProjectURL,
		OwnerID:      ownerID,
		Technologies: datatypes.NewJSONSlice(fields.Technologies),
		ImageKey:     key,
		GithubRepo:   fields.GithubRepo,
		Likes:        0,
	}

	if err := w.projects.Add(ctx, project); err != nil {
		// Accepted weak point: the blob is already written and there is no
		// distributed transaction to undo it. Log the key so a
		// reconciliation sweep can collect it.
		w.logger.Warn().
			Str("imageKey", key).
			Err(err).
			Msg("project insert failed after blob write, blob orphaned")
		return nil, errs.NewDatabaseError("create", "project", err)
	}

	w.attachSignedURL(ctx, project)
	return project, nil
}

// UpdateProject applies field updates and, when a new image is supplied,
// overwrites the blob at the project's existing key. The key itself never
// changes, so no old blob is orphaned and cached references stay valid.
func (w *ProjectWorkflow) UpdateProject(ctx context.Context, principal uuid.UUID, projectID uuid.UUID, fields ProjectFields, imageData []byte) (*models.Project, error) {
	project, err := w.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	if project.OwnerID != principal {
		return nil, errs.NewForbiddenError("only the project owner can update it")
	}

	if err := fields.Validate(); err != nil {
		return nil, err
	}

	if len(imageData) > 0 {
		normalized, contentType, err := NormalizeImage(imageData)
		if err != nil {
			return nil, err
		}
		putCtx, cancel := w.blobCtx(ctx)
		defer cancel()
		if err := w.blobs.Put(putCtx, project.ImageKey, normalized, contentType); err != nil {
			return nil, err
		}
	}

	project.Name = fields.Name
	project.Description = fields.Description
	project.ProjectURL = fields.ProjectURL
	project.Technologies = datatypes.NewJSONSlice(fields.Technologies)
	project.GithubRepo = fields.GithubRepo

	if err := w.projects.Update(ctx, project); err != nil {
		return nil, errs.NewDatabaseError("update", "project", err)
	}

	w.attachSignedURL(ctx, project)
	return project, nil
}

// DeleteProject removes the image blob first and the metadata record second.
// If the blob deletion fails the record is kept so the key is not lost:
// an orphaned blob is recoverable, a dangling reference is not.
func (w *ProjectWorkflow) DeleteProject(ctx context.Context, principal uuid.UUID, projectID uuid.UUID) (*models.Project, error) {
	project, err := w.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	if project.OwnerID != principal {
		return nil, errs.NewForbiddenError("only the project owner can delete it")
	}

	delCtx, cancel := w.blobCtx(ctx)
	defer cancel()
	if err := w.blobs.Delete(delCtx, project.ImageKey); err != nil {
		return nil, err
	}

	if err := w.projects.Delete(ctx, projectID); err != nil {
		return nil, errs.NewDatabaseError("delete", "project", err)
	}

	return project, nil
}

// ToggleLike flips the user's membership in the project's like set and moves
// the counter the same direction. Both mutations are individually atomic at
// their store, but the pair is not one transaction; the membership row is
// the source of truth when they disagree.
//
// Contract: returns the updated project.
func (w *ProjectWorkflow) ToggleLike(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, error) {
	project, err := w.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}

	user, err := w.users.FindByID(ctx, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return nil, errs.NewNotFound("user")
	}

	liked, err := w.likes.Exists(ctx, userID, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("check", "like", err)
	}

	if !liked {
		added, err := w.likes.Add(ctx, userID, projectID)
		if err != nil {
			return nil, errs.NewDatabaseError("add", "like", err)
		}
		// A concurrent toggle may have inserted the row between the
		// membership check and here; only move the counter for the toggle
		// that actually changed the set.
		if added {
			if err := w.projects.IncrementLikes(ctx, projectID); err != nil {
				return nil, errs.NewDatabaseError("increment likes of", "project", err)
			}
		}
	} else {
		removed, err := w.likes.Remove(ctx, userID, projectID)
		if err != nil {
			return nil, errs.NewDatabaseError("remove", "like", err)
		}
		if removed {
			if err := w.projects.DecrementLikes(ctx, projectID); err != nil {
				return nil, errs.NewDatabaseError("decrement likes of", "project", err)
			}
		}
	}

	updated, err := w.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if updated == nil {
		return nil, errs.NewNotFound("project")
	}

	w.attachSignedURL(ctx, updated)
	return updated, nil
}

// GetProject returns a single project with a presigned image URL.
func (w *ProjectWorkflow) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	project, err := w.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	if err := w.attachSignedURLs(ctx, []*models.Project{project}); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects returns all projects with presigned image URLs attached.
func (w *ProjectWorkflow) ListProjects(ctx context.Context) ([]*models.Project, error) {
	projects, err := w.projects.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	if err := w.attachSignedURLs(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListProjectsByOwner returns the given user's projects. An owner with no
// projects gets an empty list, not a not-found error.
func (w *ProjectWorkflow) ListProjectsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	projects, err := w.projects.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	if err := w.attachSignedURLs(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// RankProjects assigns popularity ranks from the 1-based positions of the
// given id sequence. Projects not listed keep whatever popularity they had;
// no global re-rank invariant is enforced.
func (w *ProjectWorkflow) RankProjects(ctx context.Context, orderedIDs []uuid.UUID) ([]*models.Project, error) {
	if len(orderedIDs) == 0 {
		return nil, errs.NewMissingRequiredFieldError("projectIds")
	}

	ranked := make([]*models.Project, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		project, err := w.projects.FindByID(ctx, id)
		if err != nil {
			return nil, errs.NewDatabaseError("find", "project", err)
		}
		if project == nil {
			return nil, errs.NewNotFound("project")
		}

		rank := i + 1
		if err := w.projects.SetPopularity(ctx, id, rank); err != nil {
			return nil, errs.NewDatabaseError("rank", "project", err)
		}
		project.Popularity = &rank
		ranked = append(ranked, project)
	}

	return ranked, nil
}

// LikedProjectIDs exposes the user's current like set for read endpoints.
func (w *ProjectWorkflow) LikedProjectIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := w.likes.ProjectIDsForUser(ctx, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "likes", err)
	}
	return ids, nil
}

// attachSignedURLs fans out one presign call per project. Presigning is pure
// CPU work for S3 but the interface allows remote signing, so it is bounded
// and parallelized like any other blob call.
func (w *ProjectWorkflow) attachSignedURLs(ctx context.Context, projects []*models.Project) error {
	signCtx, cancel := w.blobCtx(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(signCtx)
	g.SetLimit(8)
	for _, project := range projects {
		g.Go(func() error {
			url, err := w.blobs.SignedURL(gctx, project.ImageKey, w.signedURLTTL)
			if err != nil {
				return err
			}
			project.ImageURL = url
			return nil
		})
	}
	return g.Wait()
}

// attachSignedURL is the best-effort single-project variant used on write
// paths, where a presign failure should not fail an already-persisted
// mutation.
func (w *ProjectWorkflow) attachSignedURL(ctx context.Context, project *models.Project) {
	signCtx, cancel := w.blobCtx(ctx)
	defer cancel()

	url, err := w.blobs.SignedURL(signCtx, project.ImageKey, w.signedURLTTL)
	if err != nil {
		w.logger.Warn().Str("imageKey", project.ImageKey).Err(err).Msg("presigning image URL failed")
		return
	}
	project.ImageURL = url
}
