package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"mamba-store/internal/model"
	"mamba-store/internal/repository"
)

// ErrValidation covers malformed order input: bad email, missing product id,
// unknown status value. Surfaced to the caller as a 400.
var ErrValidation = errors.New("validation failed")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type CreateOrderInput struct {
	Email       string
	ProductID   string
	ProductName string
	Price       string
}

type PaidStatus struct {
	Paid   bool           `json:"paid"`
	Orders []*model.Order `json:"orders"`
	Count  int            `json:"count"`
}

type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*model.Order, error)
	GetByEmail(ctx context.Context, email string) ([]*model.Order, error)
	GetPaidStatus(ctx context.Context, email string) (*PaidStatus, error)
	UpdateStatus(ctx context.Context, id string, status string) (*model.Order, error)
}

type orderServiceImpl struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
	}
}

// NormalizeEmail lowercases and trims an address and checks its shape.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	return email, nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func (s *orderServiceImpl) Create(ctx context.Context, input CreateOrderInput) (*model.Order, error) {
	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, fmt.Errorf("%w: product id required", ErrValidation)
	}

	order := &model.Order{
		Email:       email,
		ProductID:   productID,
		ProductName: truncate(input.ProductName, 255),
		Price:       truncate(input.Price, 50),
		Status:      model.OrderStatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return order, nil
}

func (s *orderServiceImpl) GetByEmail(ctx context.Context, email string) ([]*model.Order, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find orders by email: %w", err)
	}

	return orders, nil
}

func (s *orderServiceImpl) GetPaidStatus(ctx context.Context, email string) (*PaidStatus, error) {
	orders, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	paidOrders := make([]*model.Order, 0)
	for _, order := range orders {
		if order.Status == model.OrderStatusPaid {
			paidOrders = append(paidOrders, order)
		}
	}

	return &PaidStatus{
		Paid:   len(paidOrders) > 0,
		Orders: paidOrders,
		Count:  len(orders),
	}, nil
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, id string, status string) (*model.Order, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: order id required", ErrValidation)
	}

	newStatus := model.OrderStatus(status)
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: status must be pending, paid or failed", ErrValidation)
	}

	return s.orderRepo.UpdateStatus(ctx, id, newStatus)
}
