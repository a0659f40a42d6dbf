package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/devmo-app/devmo-backend/api"
	"github.com/devmo-app/devmo-backend/blobstore"
	"github.com/devmo-app/devmo-backend/config"
	"github.com/devmo-app/devmo-backend/database"
	"github.com/devmo-app/devmo-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	connStr := config.GetString(c, "DATABASE_URL", "")
	if connStr == "" {
		fmt.Println("DATABASE_URL is not set. Exiting...")
		os.Exit(1)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Enable required PostgreSQL extensions
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		fmt.Printf("Error enabling uuid-ossp extension: %v\n", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		fmt.Printf("Error migrating schema: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	blobs, err := blobstore.NewS3Store(context.Background(), blobstore.S3Options{
		Bucket:    config.GetString(c, "S3_BUCKET", ""),
		Region:    config.GetString(c, "S3_REGION", "us-east-1"),
		Endpoint:  config.GetString(c, "S3_ENDPOINT", ""),
		AccessKey: config.GetString(c, "S3_ACCESS_KEY", ""),
		SecretKey: config.GetString(c, "S3_SECRET_KEY", ""),
	})
	if err != nil {
		fmt.Printf("Error initializing blob store: %v\n", err)
		os.Exit(1)
	}

	tokens, err := services.NewTokenService(config.GetString(c, "JWT_SECRET", ""))
	if err != nil {
		fmt.Printf("Error initializing token service: %v\n", err)
		os.Exit(1)
	}

	signedURLTTL := config.GetDuration(c, "SIGNED_URL_TTL_HOURS", 6, time.Hour)
	storeTimeout := config.GetDuration(c, "STORE_TIMEOUT_SECONDS", 10, time.Second)

	workflow := services.NewProjectWorkflow(
		currentDB.ProjectRepo(),
		currentDB.UserRepo(),
		currentDB.LikeRepo(),
		blobs,
		signedURLTTL,
		storeTimeout,
	)
	accounts := services.NewAccounts(currentDB.UserRepo(), tokens)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(api.Dependencies{
		Workflow: workflow,
		Accounts: accounts,
		Tokens:   tokens,
	})
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
