package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/constant"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/specification"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/unitofwork"
	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/database"
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
	assert.NotNil(t, uow.FlowRepository())
	assert.NotNil(t, uow.ChatRepository())
	assert.NotNil(t, uow.DebtorRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Debtor Repository", func(t *testing.T) {
		count, err := uow.DebtorRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Debtor count: %d", count)
	})

	t.Run("Check Transactional Flow Create", func(t *testing.T) {
		ctx := context.Background()
		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		flow := &entity.Flow{
			Id:          uuid.New(),
			Name:        "integration-flow-" + uuid.New().String(),
			Status:      constant.FlowStatusDraft,
			StartNodeId: "inicio",
		}
		err = uow.FlowRepository().Create(ctx, flow)
		assert.NoError(t, err)

		nodes := []*entity.Node{
			{
				Id:     "inicio",
				FlowId: flow.Id,
				Name:   "Inicio",
				Type:   entity.NodeTypeEnd,
				Config: []byte(`{"message": "Adiós"}`),
			},
		}
		err = uow.FlowRepository().ReplaceNodes(ctx, flow.Id, nodes)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Read back with nodes preloaded
		got, err := uow.FlowRepository().FindOne(ctx,
			specification.ByID{ID: flow.Id},
			specification.WithNodes{},
		)
		assert.NoError(t, err)
		if assert.NotNil(t, got) {
			assert.Len(t, got.Nodes, 1)
		}

		// Cleanup
		assert.NoError(t, uow.FlowRepository().Delete(ctx, flow.Id))

		t.Log("Successfully created Flow with Nodes in Transaction")
	})
}
