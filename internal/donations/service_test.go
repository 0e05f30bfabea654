package donations

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orphancare/platform-backend/pkg/enums"
	pkgerrors "github.com/orphancare/platform-backend/pkg/errors"
)

func setupDonationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:donations_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS donations (
  id TEXT PRIMARY KEY,
  donor_name TEXT NOT NULL,
  donor_email TEXT,
  donor_phone TEXT,
  donation_type TEXT NOT NULL,
  amount NUMERIC,
  items_description TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func newDonationsService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupDonationsTestDB(t)))
	require.NoError(t, err)
	return svc
}

func strPtr(v string) *string { return &v }

func TestCreateMonetaryDonationRoundsAmount(t *testing.T) {
	svc := newDonationsService(t)

	dto, err := svc.CreateDonation(context.Background(), CreateDonationInput{
		DonorName:    "Amina",
		DonationType: "Money",
		Amount:       strPtr("100.456"),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.DonationTypeMoney, dto.DonationType)
	require.NotNil(t, dto.Amount)
	assert.True(t, dto.Amount.Equal(decimal.RequireFromString("100.46")))
}

func TestCreateMonetaryDonationRequiresPositiveAmount(t *testing.T) {
	svc := newDonationsService(t)

	for _, amount := range []string{"0", "-5", "abc"} {
		_, err := svc.CreateDonation(context.Background(), CreateDonationInput{
			DonorName:    "Amina",
			DonationType: "Money",
			Amount:       strPtr(amount),
		})
		require.Error(t, err, "amount %q must be rejected", amount)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
}

func TestCreateItemDonationRequiresDescription(t *testing.T) {
	svc := newDonationsService(t)

	_, err := svc.CreateDonation(context.Background(), CreateDonationInput{
		DonorName:    "Amina",
		DonationType: "Items",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	dto, err := svc.CreateDonation(context.Background(), CreateDonationInput{
		DonorName:        "Amina",
		DonationType:     "Items",
		ItemsDescription: strPtr("Two boxes of winter clothes"),
	})
	require.NoError(t, err)
	assert.Nil(t, dto.Amount)
}

func TestSummarySumsOnlyMonetaryDonations(t *testing.T) {
	svc := newDonationsService(t)
	ctx := context.Background()

	_, err := svc.CreateDonation(ctx, CreateDonationInput{DonorName: "Amina", DonationType: "Money", Amount: strPtr("100.50")})
	require.NoError(t, err)
	_, err = svc.CreateDonation(ctx, CreateDonationInput{DonorName: "Yusuf", DonationType: "Money", Amount: strPtr("49.50")})
	require.NoError(t, err)
	_, err = svc.CreateDonation(ctx, CreateDonationInput{DonorName: "Leila", DonationType: "Items", ItemsDescription: strPtr("Books")})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.TotalMonetary.Equal(decimal.RequireFromString("150")))
}

func TestListDonationsPaginates(t *testing.T) {
	svc := newDonationsService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateDonation(ctx, CreateDonationInput{
			DonorName:    fmt.Sprintf("Donor %d", i),
			DonationType: "Money",
			Amount:       strPtr("10"),
		})
		require.NoError(t, err)
	}

	page, err := svc.ListDonations(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, page.Donations, 2)
	assert.NotEmpty(t, page.NextCursor)

	rest, err := svc.ListDonations(ctx, page.NextCursor, 2)
	require.NoError(t, err)
	assert.Len(t, rest.Donations, 1)
}
