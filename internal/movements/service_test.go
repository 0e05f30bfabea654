package movements

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/internal/inventory"
	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
	pkgerrors "github.com/orphancare/platform-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupMovementsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:movements_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	inventoryDDL := `
CREATE TABLE IF NOT EXISTS inventory (
  id TEXT PRIMARY KEY,
  item_name TEXT NOT NULL,
  category TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  unit TEXT NOT NULL DEFAULT 'pieces',
  description TEXT,
  condition TEXT NOT NULL DEFAULT 'Good',
  location TEXT NOT NULL DEFAULT 'Main Storage',
  minimum_stock INTEGER NOT NULL DEFAULT 0,
  acquisition_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (item_name, category)
);`
	movementsDDL := `
CREATE TABLE IF NOT EXISTS inventory_movements (
  id TEXT PRIMARY KEY,
  inventory_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  movement_type TEXT NOT NULL,
  reason TEXT NOT NULL,
  source_destination TEXT,
  notes TEXT,
  moved_by TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(inventoryDDL).Error)
	require.NoError(t, db.Exec(movementsDDL).Error)
	return db
}

func newMovementsService(t *testing.T, db *gorm.DB) (Service, inventory.Repository) {
	t.Helper()
	invRepo := inventory.NewRepository(db)
	svc, err := NewService(NewRepository(db), invRepo, gormTxRunner{db: db})
	require.NoError(t, err)
	return svc, invRepo
}

func TestRecordInboundMovement(t *testing.T) {
	db := setupMovementsTestDB(t)
	svc, invRepo := newMovementsService(t, db)
	ctx := context.Background()

	item, err := invRepo.ResolveOrCreate(ctx, "Rice", "Food", "kg")
	require.NoError(t, err)

	dto, err := svc.Record(ctx, RecordMovementInput{
		InventoryID:       item.ID,
		Quantity:          25,
		MovementType:      "IN",
		Reason:            "Bulk purchase",
		SourceDestination: "Local market",
		MovedBy:           "Staff",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.MovementTypeIn, dto.MovementType)

	reloaded, err := invRepo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, reloaded.Quantity)
}

func TestRecordOutboundMovementGuardsStock(t *testing.T) {
	db := setupMovementsTestDB(t)
	svc, invRepo := newMovementsService(t, db)
	ctx := context.Background()

	item, err := invRepo.ResolveOrCreate(ctx, "Soap", "Hygiene", "pieces")
	require.NoError(t, err)
	require.NoError(t, invRepo.AddQuantity(ctx, item.ID, 10))

	_, err = svc.Record(ctx, RecordMovementInput{
		InventoryID:  item.ID,
		Quantity:     15,
		MovementType: "OUT",
		Reason:       "Distribution",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	// rejected movement must leave no log row behind
	var count int64
	require.NoError(t, db.Model(&models.InventoryMovement{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	reloaded, err := invRepo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Quantity)
}

func TestRecordRejectsInvalidInput(t *testing.T) {
	db := setupMovementsTestDB(t)
	svc, _ := newMovementsService(t, db)
	ctx := context.Background()

	_, err := svc.Record(ctx, RecordMovementInput{
		InventoryID:  uuid.New(),
		Quantity:     0,
		MovementType: "IN",
		Reason:       "x",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Record(ctx, RecordMovementInput{
		InventoryID:  uuid.New(),
		Quantity:     1,
		MovementType: "SIDEWAYS",
		Reason:       "x",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestNetBalanceReplaysLog(t *testing.T) {
	db := setupMovementsTestDB(t)
	svc, invRepo := newMovementsService(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	item, err := invRepo.ResolveOrCreate(ctx, "Blankets", "Bedding", "pieces")
	require.NoError(t, err)

	_, err = svc.Record(ctx, RecordMovementInput{InventoryID: item.ID, Quantity: 8, MovementType: "IN", Reason: "Donation"})
	require.NoError(t, err)
	_, err = svc.Record(ctx, RecordMovementInput{InventoryID: item.ID, Quantity: 3, MovementType: "OUT", Reason: "Distribution"})
	require.NoError(t, err)

	net, err := repo.NetBalance(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, net)

	reloaded, err := invRepo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, net, reloaded.Quantity, "cached balance must match the replayed log")
}

func TestListByItemPaginates(t *testing.T) {
	db := setupMovementsTestDB(t)
	svc, invRepo := newMovementsService(t, db)
	ctx := context.Background()

	item, err := invRepo.ResolveOrCreate(ctx, "Notebooks", "School", "pieces")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = svc.Record(ctx, RecordMovementInput{InventoryID: item.ID, Quantity: 1, MovementType: "IN", Reason: "Restock"})
		require.NoError(t, err)
	}

	page, err := svc.ListByItem(ctx, item.ID, "", 2)
	require.NoError(t, err)
	assert.Len(t, page.Movements, 2)
	assert.NotEmpty(t, page.NextCursor)

	rest, err := svc.ListByItem(ctx, item.ID, page.NextCursor, 2)
	require.NoError(t, err)
	assert.Len(t, rest.Movements, 1)
}
