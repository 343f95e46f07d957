package handler

import (
	"errors"
	"net/http"
	"time"

	"mamba-store/internal/dto"
	"mamba-store/internal/service"

	"github.com/labstack/echo/v4"
)

type AccessHandler struct {
	accessService service.AccessService
}

func NewAccessHandler(accessService service.AccessService) *AccessHandler {
	return &AccessHandler{
		accessService: accessService,
	}
}

// GrantAccess backs the bot's /grantaccess flow over HTTP.
func (h *AccessHandler) GrantAccess(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.GrantAccessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	expiresAt, err := h.accessService.GrantAccess(ctx, service.GrantAccessInput{
		Email:         req.Email,
		DiscordUserID: req.DiscordUserID,
		OrderID:       req.OrderID,
		DurationDays:  req.DurationDays,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrNoPaidOrder):
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, dto.GrantAccessResponse{
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// CodeStats reports pool levels per product type so operators can spot
// starvation before buyers pay for codes that do not exist.
func (h *AccessHandler) CodeStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.accessService.CodeStats(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}
