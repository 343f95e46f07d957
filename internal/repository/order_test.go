package repository

import (
	"context"
	"testing"

	"mamba-store/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOrderCreateDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{
		Email:       "buyer@example.com",
		ProductID:   "receipts-monthly",
		ProductName: "MambaReceipts Monthly",
		Price:       "99.00",
	}
	require.NoError(t, repo.Create(ctx, order))

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, model.OrderStatusPending, order.Status)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", found.Email)
}

func TestOrderFindByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "a@x.com", "b@x.com"} {
		require.NoError(t, repo.Create(ctx, &model.Order{
			Email:     email,
			ProductID: "obywatel-basic",
		}))
	}

	orders, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = repo.FindByEmail(ctx, "missing@x.com")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderFindBySessionID(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{
		Email:           "a@x.com",
		ProductID:       "obywatel-basic",
		StripeSessionID: "cs_123",
	}
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.FindBySessionID(ctx, "cs_123")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindBySessionID(ctx, "cs_unknown")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderUpdateStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{Email: "a@x.com", ProductID: "p"}
	require.NoError(t, repo.Create(ctx, order))

	updated, err := repo.UpdateStatus(ctx, order.ID, model.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, updated.Status)

	// paid is terminal
	_, err = repo.UpdateStatus(ctx, order.ID, model.OrderStatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = repo.UpdateStatus(ctx, order.ID, model.OrderStatusFailed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = repo.UpdateStatus(ctx, "no-such-id", model.OrderStatusPaid)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.UpdateStatus(ctx, order.ID, model.OrderStatus("shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrderMarkPaidBySession(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{
		Email:           "a@x.com",
		ProductID:       "p",
		StripeSessionID: "cs_mark",
	}
	require.NoError(t, repo.Create(ctx, order))

	marked, err := repo.MarkPaidBySession(ctx, db, "cs_mark")
	require.NoError(t, err)
	assert.True(t, marked)

	paid, err := repo.IsSessionPaid(ctx, "cs_mark")
	require.NoError(t, err)
	assert.True(t, paid)

	// second delivery finds no pending order
	marked, err = repo.MarkPaidBySession(ctx, db, "cs_mark")
	require.NoError(t, err)
	assert.False(t, marked)

	marked, err = repo.MarkPaidBySession(ctx, db, "cs_unknown")
	require.NoError(t, err)
	assert.False(t, marked)
}
