package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"telecom-support-be/internal/entity"
	"telecom-support-be/internal/repository/specification"
	"telecom-support-be/internal/repository/unitofwork"
	"telecom-support-be/pkg/database"

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

	assert.NotNil(t, uow.SessionRepository())
	assert.NotNil(t, uow.EscalationRepository())
	assert.NotNil(t, uow.AgentRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Session Repository", func(t *testing.T) {
		count, err := uow.SessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Session count: %d", count)
	})

	t.Run("Check Escalation Repository", func(t *testing.T) {
		count, err := uow.EscalationRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Escalation count: %d", count)
	})

	t.Run("Transactional Escalation Supersession", func(t *testing.T) {
		ctx := context.Background()
		tx := uowFactory.NewUnitOfWork(ctx)
		assert.NoError(t, tx.Begin(ctx))
		defer tx.Rollback()

		session := &entity.Session{
			Id:     uuid.New(),
			RoomId: "integration-" + uuid.NewString(),
			UserId: "integration-user",
			Status: entity.SessionStatusActive,
		}
		assert.NoError(t, tx.SessionRepository().Create(ctx, session))

		stale := &entity.Escalation{
			Id:        uuid.New(),
			SessionId: session.Id,
			Reason:    "integration stale",
			Priority:  "low",
			Status:    entity.EscalationStatusPending,
		}
		assert.NoError(t, tx.EscalationRepository().Create(ctx, stale))

		current := &entity.Escalation{
			Id:        uuid.New(),
			SessionId: session.Id,
			Reason:    "integration current",
			Priority:  "high",
			Status:    entity.EscalationStatusPending,
		}

		affected, err := tx.EscalationRepository().ResolvePendingBySession(ctx, session.Id, current.Id, time.Now())
		assert.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		assert.NoError(t, tx.EscalationRepository().Create(ctx, current))

		pending, err := tx.EscalationRepository().FindAll(ctx,
			specification.BySessionID{SessionID: session.Id},
			specification.ByStatus{Status: string(entity.EscalationStatusPending)},
		)
		assert.NoError(t, err)
		assert.Len(t, pending, 1)
		assert.Equal(t, current.Id, pending[0].Id)
	})
}
