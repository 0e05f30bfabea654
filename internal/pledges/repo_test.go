package pledges

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/pkg/db/models"
	"github.com/orphancare/platform-backend/pkg/enums"
)

func setupPledgesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:pledges_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	requestsDDL := `
CREATE TABLE IF NOT EXISTS inventory_requests (
  id TEXT PRIMARY KEY,
  item_name TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT,
  quantity_needed INTEGER NOT NULL,
  quantity_fulfilled INTEGER NOT NULL DEFAULT 0,
  unit TEXT NOT NULL DEFAULT 'pieces',
  priority TEXT NOT NULL DEFAULT 'Medium',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	pledgesDDL := `
CREATE TABLE IF NOT EXISTS donation_pledges (
  id TEXT PRIMARY KEY,
  request_id TEXT NOT NULL,
  donor_name TEXT NOT NULL,
  donor_email TEXT,
  donor_phone TEXT,
  quantity INTEGER NOT NULL,
  delivery_method TEXT NOT NULL DEFAULT 'Drop-off',
  pickup_date DATETIME,
  pickup_address TEXT,
  status TEXT NOT NULL DEFAULT 'Pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(requestsDDL).Error)
	require.NoError(t, db.Exec(pledgesDDL).Error)
	return db
}

func seedPledge(t *testing.T, repo Repository, status enums.PledgeStatus) *models.DonationPledge {
	t.Helper()
	pledge := &models.DonationPledge{
		RequestID:      uuid.New(),
		DonorName:      "Amina",
		Quantity:       5,
		DeliveryMethod: enums.DeliveryMethodDropOff,
		Status:         status,
	}
	require.NoError(t, repo.Create(context.Background(), pledge))
	return pledge
}

func TestTransitionStatusAppliesOnce(t *testing.T) {
	db := setupPledgesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pledge := seedPledge(t, repo, enums.PledgeStatusPending)

	applied, err := repo.TransitionStatus(ctx, pledge.ID, enums.PledgeStatusPending, enums.PledgeStatusReceived)
	require.NoError(t, err)
	assert.True(t, applied)

	// second attempt finds no Pending row to claim
	applied, err = repo.TransitionStatus(ctx, pledge.ID, enums.PledgeStatusPending, enums.PledgeStatusReceived)
	require.NoError(t, err)
	assert.False(t, applied)

	reloaded, err := repo.FindByID(ctx, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PledgeStatusReceived, reloaded.Status)
}

func TestTransitionStatusRacersGetOneWinner(t *testing.T) {
	db := setupPledgesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pledge := seedPledge(t, repo, enums.PledgeStatusPending)

	receive, err := repo.TransitionStatus(ctx, pledge.ID, enums.PledgeStatusPending, enums.PledgeStatusReceived)
	require.NoError(t, err)
	cancel, err := repo.TransitionStatus(ctx, pledge.ID, enums.PledgeStatusPending, enums.PledgeStatusCancelled)
	require.NoError(t, err)

	assert.True(t, receive != cancel, "exactly one transition must win")

	reloaded, err := repo.FindByID(ctx, pledge.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PledgeStatusReceived, reloaded.Status)
}

func TestListByRequestOnlyReturnsOwnPledges(t *testing.T) {
	db := setupPledgesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	requestID := uuid.New()
	mine := &models.DonationPledge{RequestID: requestID, DonorName: "Amina", Quantity: 2, DeliveryMethod: enums.DeliveryMethodDropOff, Status: enums.PledgeStatusPending}
	other := &models.DonationPledge{RequestID: uuid.New(), DonorName: "Yusuf", Quantity: 3, DeliveryMethod: enums.DeliveryMethodDropOff, Status: enums.PledgeStatusPending}
	require.NoError(t, repo.Create(ctx, mine))
	require.NoError(t, repo.Create(ctx, other))

	page, err := repo.ListByRequest(ctx, requestID, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Pledges, 1)
	assert.Equal(t, mine.ID, page.Pledges[0].ID)
}
