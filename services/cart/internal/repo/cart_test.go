package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/oss_shop/pkg/db/dbtest"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: dbtest.New(t, models.All()...)}
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.GetOrCreate(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, first.Items)

	second, err := r.GetOrCreate(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, r.DB.Model(&models.Cart{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreate_ExistingCartInsideTransaction(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	existing, err := r.GetOrCreate(ctx, 7)
	require.NoError(t, err)

	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreate(tx, 7)
		if err != nil {
			return err
		}
		assert.Equal(t, existing.ID, cart.ID)
		return tx.Create(&models.CartItem{CartID: cart.ID, ProductID: 3, Quantity: 1}).Error
	})
	require.NoError(t, err)

	cart, err := r.GetOrCreate(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestAddItem_MergesSameProductAndVariant(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.AddItem(ctx, 1, 10, 1, "red")
	require.NoError(t, err)
	_, err = r.AddItem(ctx, 1, 10, 2, "red")
	require.NoError(t, err)
	_, err = r.AddItem(ctx, 1, 10, 1, "blue")
	require.NoError(t, err)
	cart, err := r.AddItem(ctx, 1, 11, 4, "")
	require.NoError(t, err)

	require.Len(t, cart.Items, 3)
	assert.Equal(t, models.CartItem{ID: cart.Items[0].ID, CartID: cart.ID, ProductID: 10, Quantity: 3, Variant: "red"}, cart.Items[0])
	assert.Equal(t, 1, cart.Items[1].Quantity)
	assert.Equal(t, "blue", cart.Items[1].Variant)
	assert.Equal(t, 4, cart.Items[2].Quantity)

	other, err := r.GetOrCreate(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other.Items, "carts are per user")
}

func TestMutationsStampUpdatedAt(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	cart, err := r.GetOrCreate(ctx, 1)
	require.NoError(t, err)
	stale := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, r.DB.Model(&models.Cart{}).Where("id = ?", cart.ID).UpdateColumn("updated_at", stale).Error)

	cart, err = r.AddItem(ctx, 1, 10, 1, "")
	require.NoError(t, err)
	assert.True(t, cart.UpdatedAt.After(stale.Add(30*time.Minute)))
}

func TestUpdateAndRemoveItem(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	cart, err := r.AddItem(ctx, 1, 10, 1, "")
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = r.UpdateItem(ctx, 1, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	_, err = r.UpdateItem(ctx, 2, itemID, 5)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "item belongs to another cart")

	_, err = r.RemoveItem(ctx, 2, itemID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	cart, err = r.RemoveItem(ctx, 1, itemID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestClear(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.AddItem(ctx, 1, 10, 1, "")
	require.NoError(t, err)
	_, err = r.AddItem(ctx, 1, 11, 1, "")
	require.NoError(t, err)

	cart, err := r.Clear(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Count(&count).Error)
	assert.Zero(t, count)
}
