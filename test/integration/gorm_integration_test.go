package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"concierge-be/internal/entity"
	"concierge-be/internal/repository/implementation"
	"concierge-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	assistantRepo := implementation.NewUserAssistantRepository(gormDB)
	threadRepo := implementation.NewUserThreadRepository(gormDB)
	ctx := context.Background()
	userId := uuid.New()

	t.Cleanup(func() {
		_ = assistantRepo.Delete(context.Background(), userId)
		_ = threadRepo.Delete(context.Background(), userId)
	})

	t.Run("Assistant mapping upsert converges", func(t *testing.T) {
		first := &entity.UserAssistant{
			UserId:        userId,
			AssistantId:   "asst_integration_a",
			AssistantName: "AURA-" + userId.String()[:8],
			Embedding: entity.EmbeddingConfig{
				Provider: "openai",
				Model:    "text-embedding-3-small",
				Dims:     1536,
			},
		}
		err := assistantRepo.Upsert(ctx, first)
		require.NoError(t, err)

		// Second writer for the same user wins without a conflict error.
		second := *first
		second.AssistantId = "asst_integration_b"
		err = assistantRepo.Upsert(ctx, &second)
		require.NoError(t, err)

		row, err := assistantRepo.FindByUserId(ctx, userId)
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "asst_integration_b", row.AssistantId)
		assert.Equal(t, 1536, row.Embedding.Dims)
	})

	t.Run("Thread pointer upsert converges", func(t *testing.T) {
		err := threadRepo.Upsert(ctx, &entity.UserThread{UserId: userId, ThreadId: "thr_integration_a"})
		require.NoError(t, err)
		err = threadRepo.Upsert(ctx, &entity.UserThread{UserId: userId, ThreadId: "thr_integration_b"})
		require.NoError(t, err)

		row, err := threadRepo.FindByUserId(ctx, userId)
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "thr_integration_b", row.ThreadId)
	})

	t.Run("Missing rows read as nil", func(t *testing.T) {
		row, err := assistantRepo.FindByUserId(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, row)

		pointer, err := threadRepo.FindByUserId(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, pointer)
	})
}
