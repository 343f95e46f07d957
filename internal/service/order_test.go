package service

import (
	"context"
	"strings"
	"testing"

	"mamba-store/internal/model"
	"mamba-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T) (OrderService, repository.OrderRepository) {
	t.Helper()
	repo := repository.NewOrderRepository(newTestDB(t))
	return NewOrderService(repo), repo
}

func TestCreateOrder(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateOrderInput{
		Email:       "  Buyer@Example.COM ",
		ProductID:   "receipts-monthly",
		ProductName: "MambaReceipts",
		Price:       "99.00",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, "buyer@example.com", order.Email)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	cases := map[string]CreateOrderInput{
		"empty email":        {Email: "", ProductID: "p"},
		"malformed email":    {Email: "not-an-email", ProductID: "p"},
		"email with spaces":  {Email: "a b@x.com", ProductID: "p"},
		"missing product id": {Email: "a@x.com", ProductID: "  "},
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateOrderTruncatesLongFields(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateOrderInput{
		Email:       "a@x.com",
		ProductID:   "p",
		ProductName: strings.Repeat("n", 300),
		Price:       strings.Repeat("9", 60),
	})
	require.NoError(t, err)

	assert.Len(t, order.ProductName, 255)
	assert.Len(t, order.Price, 50)
}

func TestGetPaidStatus(t *testing.T) {
	svc, repo := newOrderService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Order{Email: "a@x.com", ProductID: "p"}))
	}
	paidOrder := &model.Order{Email: "a@x.com", ProductID: "p", Status: model.OrderStatusPaid}
	require.NoError(t, repo.Create(ctx, paidOrder))

	status, err := svc.GetPaidStatus(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, status.Paid)
	assert.Len(t, status.Orders, 1)
	assert.Equal(t, 4, status.Count)

	status, err = svc.GetPaidStatus(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.False(t, status.Paid)
	assert.Empty(t, status.Orders)
	assert.Equal(t, 0, status.Count)
}

func TestUpdateStatus(t *testing.T) {
	svc, repo := newOrderService(t)
	ctx := context.Background()

	order := &model.Order{Email: "a@x.com", ProductID: "p"}
	require.NoError(t, repo.Create(ctx, order))

	updated, err := svc.UpdateStatus(ctx, order.ID, "failed")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusFailed, updated.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, "shipped")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(ctx, "", "paid")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(ctx, "missing-id", "paid")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// failed is terminal
	_, err = svc.UpdateStatus(ctx, order.ID, "paid")
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
}
