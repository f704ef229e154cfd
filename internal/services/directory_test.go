package services_test

import (
	"context"
	"testing"

	"github.com/localnerve/landtoken/internal/models"
	"github.com/localnerve/landtoken/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletForNationalID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedUser(t, db, models.User{ID: "u-1", IDNumber: "123", WalletAddress: strp(buyerWallet)})
	seedUser(t, db, models.User{ID: "u-2", IDNumber: "456"})
	seedUser(t, db, models.User{ID: "u-3", IDNumber: "789", WalletAddress: strp("")})

	wallet, err := services.WalletForNationalID(ctx, db, "123")
	require.NoError(t, err)
	assert.Equal(t, buyerWallet, wallet)

	for _, id := range []string{"456", "789", "000", ""} {
		_, err := services.WalletForNationalID(ctx, db, id)
		assert.ErrorIs(t, err, services.ErrWalletNotFound, id)
	}
}

func TestUIDForNationalID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	seedUser(t, db, models.User{ID: "u-1", IDNumber: "123"})

	uid, err := services.UIDForNationalID(ctx, db, "123")
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)

	_, err = services.UIDForNationalID(ctx, db, "999")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestTokenIDForParcel(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	minted := models.ApprovedProperty{
		PropertyRecord: models.PropertyRecord{ID: "p-1", UID: "u-1", ParcelNumber: "NRB/1", Status: models.PropertyStatusApproved},
		TokenID:        strp("7"),
	}
	unminted := models.ApprovedProperty{
		PropertyRecord: models.PropertyRecord{ID: "p-2", UID: "u-1", ParcelNumber: "NRB/2", Status: models.PropertyStatusApproved},
	}
	require.NoError(t, db.Create(&minted).Error)
	require.NoError(t, db.Create(&unminted).Error)
	seedPending(t, db, "p-3", "u-1", "NRB/3")

	token, err := services.TokenIDForParcel(ctx, db, "NRB/1")
	require.NoError(t, err)
	assert.Equal(t, "7", token)

	_, err = services.TokenIDForParcel(ctx, db, "NRB/2")
	assert.ErrorIs(t, err, services.ErrNotYetMinted)

	_, err = services.TokenIDForParcel(ctx, db, "NRB/3")
	assert.ErrorIs(t, err, services.ErrPropertyNotFound, "pending records are not approved")

	_, err = services.TokenIDForParcel(ctx, db, "")
	assert.ErrorIs(t, err, services.ErrPropertyNotFound)
}

func TestAdminUIDs(t *testing.T) {
	db := setupTestDB(t)
	seedCast(t, db)

	ids, err := services.AdminUIDs(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin-1"}, ids)
}
