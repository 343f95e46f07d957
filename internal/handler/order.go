package handler

import (
	"errors"
	"net/http"

	"mamba-store/internal/dto"
	"mamba-store/internal/repository"
	"mamba-store/internal/service"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	order, err := h.orderService.Create(ctx, service.CreateOrderInput{
		Email:       req.Email,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Price:       req.Price,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrdersByEmail(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.GetByEmail(ctx, c.Param("email"))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid email format"})
		}
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetPaidStatus(c echo.Context) error {
	ctx := c.Request().Context()

	status, err := h.orderService.GetPaidStatus(ctx, c.Param("email"))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid email format"})
		}
		return err
	}

	return c.JSON(http.StatusOK, status)
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Status == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Status required"})
	}

	order, err := h.orderService.UpdateStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, repository.ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, repository.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Order not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, order)
}
