package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mamba-store/internal/model"
	"mamba-store/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ErrNoPaidOrder is returned when a buyer asks for Discord access without a
// paid order on record for their email.
var ErrNoPaidOrder = errors.New("no paid order found for this email")

type GrantAccessInput struct {
	Email         string
	DiscordUserID string
	OrderID       string
	DurationDays  int
}

type AccessService interface {
	// GrantAccess backs the bot's /grantaccess command: it verifies the
	// buyer has a paid order, links any pending grants to the real Discord
	// user id (creating a fresh window when none exist) and assigns the
	// guild role.
	GrantAccess(ctx context.Context, input GrantAccessInput) (time.Time, error)
	CodeStats(ctx context.Context) (map[model.ProductType]repository.CodeStats, error)
}

type accessServiceImpl struct {
	db             *gorm.DB
	orderRepo      repository.OrderRepository
	discordRepo    repository.DiscordAccessRepository
	accessCodeRepo repository.AccessCodeRepository
	roles          RoleGranter
	logger         zerolog.Logger
}

func NewAccessService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	discordRepo repository.DiscordAccessRepository,
	accessCodeRepo repository.AccessCodeRepository,
	roles RoleGranter,
	logger zerolog.Logger,
) AccessService {
	return &accessServiceImpl{
		db:             db,
		orderRepo:      orderRepo,
		discordRepo:    discordRepo,
		accessCodeRepo: accessCodeRepo,
		roles:          roles,
		logger:         logger,
	}
}

func (s *accessServiceImpl) GrantAccess(ctx context.Context, input GrantAccessInput) (time.Time, error) {
	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return time.Time{}, err
	}
	if input.DiscordUserID == "" {
		return time.Time{}, fmt.Errorf("%w: discord user id required", ErrValidation)
	}

	durationDays := input.DurationDays
	if durationDays <= 0 {
		durationDays = 31
	}

	orders, err := s.orderRepo.FindByEmail(ctx, email)
	if err != nil {
		return time.Time{}, fmt.Errorf("find orders: %w", err)
	}
	hasPaid := false
	for _, order := range orders {
		if order.Status == model.OrderStatusPaid {
			hasPaid = true
			break
		}
	}
	if !hasPaid {
		return time.Time{}, ErrNoPaidOrder
	}

	now := time.Now()
	linked, err := s.discordRepo.LinkUser(ctx, email, input.DiscordUserID, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("link discord user: %w", err)
	}

	var expiresAt time.Time
	if linked > 0 {
		accesses, err := s.discordRepo.FindActiveByEmail(ctx, email, now)
		if err != nil {
			return time.Time{}, fmt.Errorf("find active access: %w", err)
		}
		for _, a := range accesses {
			if a.ExpiresAt.After(expiresAt) {
				expiresAt = a.ExpiresAt
			}
		}
	} else {
		expiresAt = now.AddDate(0, 0, durationDays)
		err := s.discordRepo.Grant(ctx, s.db, &model.DiscordAccess{
			Email:         email,
			DiscordUserID: input.DiscordUserID,
			ExpiresAt:     expiresAt,
		})
		if err != nil {
			return time.Time{}, fmt.Errorf("grant access: %w", err)
		}
	}

	if err := s.roles.GrantRole(ctx, input.DiscordUserID); err != nil {
		// Access is recorded either way; the role can be re-granted later.
		s.logger.Error().Err(err).Str("discord_user_id", input.DiscordUserID).Msg("role grant failed")
	}

	s.logger.Info().Str("email", email).Time("expires_at", expiresAt).Msg("discord access granted")
	return expiresAt, nil
}

func (s *accessServiceImpl) CodeStats(ctx context.Context) (map[model.ProductType]repository.CodeStats, error) {
	return s.accessCodeRepo.Stats(ctx)
}
