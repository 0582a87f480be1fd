package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/repository/specification"
	"decipher-research-be/internal/repository/unitofwork"
	"decipher-research-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.NotebookRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Source Embedding Repository", func(t *testing.T) {
		// Count implies the vector table exists
		count, err := uow.SourceEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("SourceEmbedding count: %d", count)
	})

	t.Run("Check Transactional Notebook With Task", func(t *testing.T) {
		userId := uuid.New()
		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
		}

		err := uow.UserRepository().Create(context.Background(), user)
		assert.NoError(t, err)

		// Transaction Test: notebook + status + task must land together
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		notebookId := uuid.New()
		notebook := &entity.Notebook{
			Id:     notebookId,
			Title:  strPtr("Integration Notebook"),
			Topic:  strPtr("gorm wiring"),
			UserId: userId,
		}
		err = uow.NotebookRepository().Create(ctx, notebook)
		assert.NoError(t, err)

		err = uow.ProcessingStatusRepository().Upsert(ctx, &entity.NotebookProcessingStatus{
			Id:         uuid.New(),
			NotebookId: notebookId,
			Status:     entity.ProcessingStatusQueued,
			Message:    strPtr("Research task queued"),
		})
		assert.NoError(t, err)

		task := &entity.ResearchTask{
			Id:         uuid.New(),
			NotebookId: notebookId,
			UserId:     userId,
			Topic:      strPtr("gorm wiring"),
			Status:     entity.TaskStatusPending,
		}
		err = uow.ResearchTaskRepository().Create(ctx, task)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Preload round-trip: the status association should come back attached
		found, err := uow.NotebookRepository().FindOne(context.Background(),
			specification.ByID{ID: notebookId},
			specification.WithProcessingStatus{},
		)
		assert.NoError(t, err)
		if assert.NotNil(t, found.ProcessingStatus) {
			assert.Equal(t, entity.ProcessingStatusQueued, found.ProcessingStatus.Status)
		}

		t.Log("Successfully created Notebook with Status and Task in Transaction")
	})
}
