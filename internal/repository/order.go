package repository

import (
	"context"

	"mamba-store/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByEmail(ctx context.Context, email string) ([]*model.Order, error)
	FindBySessionID(ctx context.Context, sessionID string) (*model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	// MarkPaidBySession transitions the pending order for a checkout session
	// to paid. Returns (false, nil) when no pending order matches, which is
	// how webhook replays for an already-paid session are detected.
	MarkPaidBySession(ctx context.Context, tx *gorm.DB, sessionID string) (bool, error)
	IsSessionPaid(ctx context.Context, sessionID string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByEmail(ctx context.Context, email string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) FindBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("stripe_session_id = ?", sessionID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// allowedTransitions is the order status state machine. Anything absent is
// rejected, including paid back to pending.
var allowedTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending: {model.OrderStatusPaid, model.OrderStatusFailed},
}

func canTransition(from, to model.OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var order model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&order).Error; err != nil {
			return err
		}

		if !canTransition(order.Status, status) {
			return ErrInvalidTransition
		}

		result := tx.Model(&model.Order{}).
			Where("id = ? AND status = ?", id, order.Status).
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// lost a race with a concurrent transition
			return ErrInvalidTransition
		}

		order.Status = status
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) MarkPaidBySession(ctx context.Context, tx *gorm.DB, sessionID string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("stripe_session_id = ? AND status = ?", sessionID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status": model.OrderStatusPaid,
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *orderRepoImpl) IsSessionPaid(ctx context.Context, sessionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("stripe_session_id = ?", sessionID).
		Where("status = ?", model.OrderStatusPaid).
		Count(&count).Error

	return count > 0, err
}
