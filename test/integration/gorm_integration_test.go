package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"support-agent-be/internal/constant"
	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/unitofwork"
	"support-agent-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
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

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.TicketRepository())
	assert.NotNil(t, uow.ArticleEmbeddingRepository())

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

	t.Run("Check Article Embedding Repository", func(t *testing.T) {
		count, err := uow.ArticleEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ArticleEmbedding count: %d", count)
	})

	t.Run("Check Agent Metric Repository", func(t *testing.T) {
		count, err := uow.AgentMetricRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("AgentMetric count: %d", count)
	})

	t.Run("Check Transactional Ticket With Note", func(t *testing.T) {
		userId := uuid.New()
		user := &entity.User{
			Id:    userId,
			Email: "test-integration-" + uuid.New().String() + "@example.com",
			Name:  "Integration Test User",
			Role:  constant.RoleUser,
		}

		err := uow.UserRepository().Create(context.Background(), user)
		assert.NoError(t, err)

		// Transaction Test
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		ticketId := uuid.New()
		ticket := &entity.Ticket{
			Id:         ticketId,
			CustomerId: userId,
			Subject:    "Integration test ticket",
			Status:     constant.TicketStatusOpen,
			Priority:   "normal",
		}

		err = uow.TicketRepository().Create(ctx, ticket)
		assert.NoError(t, err)

		note := &entity.TicketNote{
			Id:       uuid.New(),
			TicketId: ticketId,
			AuthorId: userId,
			Body:     "created inside the same transaction",
		}

		err = uow.TicketRepository().CreateNote(ctx, note)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully created Ticket with Note in Transaction")
	})
}
