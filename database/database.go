package database

import (
	"gorm.io/gorm"

	"github.com/devmo-app/devmo-backend/models"
)

type Database struct {
	userRepo    *UserRepo
	projectRepo *ProjectRepo
	likeRepo    *LikeRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:    NewUserRepo(db),
		projectRepo: NewProjectRepo(db),
		likeRepo:    NewLikeRepo(db),
	}
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectLike{},
	)
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) LikeRepo() *LikeRepo {
	return d.likeRepo
}
