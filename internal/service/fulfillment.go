package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"mamba-store/internal/catalog"
	"mamba-store/internal/client"
	"mamba-store/internal/model"
	"mamba-store/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ErrSignatureVerification marks webhook deliveries whose signature did not
// match the shared secret. Handlers map it to a 400 with no side effect.
var ErrSignatureVerification = errors.New("webhook signature verification failed")

const checkoutCompletedEvent = "checkout.session.completed"

type FulfillmentService interface {
	// HandleWebhook verifies the delivery and, for checkout-completed
	// events, runs fulfillment. Any error other than
	// ErrSignatureVerification has already been logged and acknowledged.
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
	// ProcessCheckoutCompleted dispatches fulfillment for an
	// already-verified checkout session. Exposed for the development test
	// endpoint, which synthesizes events without a provider signature.
	ProcessCheckoutCompleted(ctx context.Context, eventID string, session *model.CheckoutSession) error
}

type fulfillmentServiceImpl struct {
	db               *gorm.DB
	verifier         client.StripeVerifier
	links            *catalog.Catalog
	notifier         Notifier
	generatorLink    string
	orderRepo        repository.OrderRepository
	accessCodeRepo   repository.AccessCodeRepository
	discordRepo      repository.DiscordAccessRepository
	webhookEventRepo repository.WebhookEventRepository
	logger           zerolog.Logger
}

func NewFulfillmentService(
	db *gorm.DB,
	verifier client.StripeVerifier,
	links *catalog.Catalog,
	notifier Notifier,
	generatorLink string,
	orderRepo repository.OrderRepository,
	accessCodeRepo repository.AccessCodeRepository,
	discordRepo repository.DiscordAccessRepository,
	webhookEventRepo repository.WebhookEventRepository,
	logger zerolog.Logger,
) FulfillmentService {
	return &fulfillmentServiceImpl{
		db:               db,
		verifier:         verifier,
		links:            links,
		notifier:         notifier,
		generatorLink:    generatorLink,
		orderRepo:        orderRepo,
		accessCodeRepo:   accessCodeRepo,
		discordRepo:      discordRepo,
		webhookEventRepo: webhookEventRepo,
		logger:           logger,
	}
}

func (s *fulfillmentServiceImpl) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.verifier.VerifyEvent(payload, signatureHeader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureVerification, err)
	}

	if string(event.Type) != checkoutCompletedEvent {
		s.logger.Debug().Str("event_type", string(event.Type)).Msg("ignoring webhook event")
		return nil
	}

	var session model.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("decode checkout session payload: %w", err)
	}

	return s.ProcessCheckoutCompleted(ctx, event.ID, &session)
}

func (s *fulfillmentServiceImpl) ProcessCheckoutCompleted(ctx context.Context, eventID string, session *model.CheckoutSession) error {
	email := strings.ToLower(strings.TrimSpace(session.CustomerEmail))
	if email == "" {
		s.logger.Warn().Str("session_id", session.ID).Msg("checkout session has no customer email")
		return nil
	}

	won, err := s.webhookEventRepo.Claim(ctx, eventID, checkoutCompletedEvent)
	if err != nil {
		return fmt.Errorf("claim webhook event: %w", err)
	}
	if !won {
		s.logger.Info().Str("event_id", eventID).Msg("webhook event already processed, skipping")
		return nil
	}

	// Redelivery under a fresh event id still must not grant twice.
	paid, err := s.orderRepo.IsSessionPaid(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("check session paid: %w", err)
	}
	if paid {
		s.logger.Info().Str("session_id", session.ID).Msg("session already fulfilled, skipping")
		return nil
	}

	entry, ok := s.links.Resolve(session.PaymentLink)
	if !ok {
		// Silent no-op: the provider still gets a success ack so it does
		// not keep retrying a link we will never recognize.
		s.logger.Warn().
			Str("payment_link", session.PaymentLink).
			Str("email", email).
			Msg("no matching payment link in catalog")
		return nil
	}

	s.logger.Info().
		Str("email", email).
		Str("session_id", session.ID).
		Str("category", string(entry.Category)).
		Msg("fulfilling checkout session")

	switch entry.Category {
	case catalog.CategorySubscription:
		return s.fulfillSubscription(ctx, email, session.ID, entry)
	case catalog.CategoryOneShot:
		if entry.Tier == catalog.TierPremium {
			return s.fulfillPremium(ctx, email, session.ID)
		}
		return s.fulfillAccessCode(ctx, email, session.ID, entry)
	}

	return nil
}

func (s *fulfillmentServiceImpl) fulfillSubscription(ctx context.Context, email, sessionID string, entry catalog.Entry) error {
	expiresAt := time.Now().AddDate(0, 0, entry.DurationDays)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.orderRepo.MarkPaidBySession(ctx, tx, sessionID); err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}

		return s.discordRepo.Grant(ctx, tx, &model.DiscordAccess{
			Email:         email,
			DiscordUserID: model.DiscordUserPending,
			ExpiresAt:     expiresAt,
		})
	})
	if err != nil {
		return fmt.Errorf("grant discord access: %w", err)
	}

	if err := s.notifier.SendSubscriptionNotice(ctx, email, expiresAt); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("subscription email failed")
	}

	s.logger.Info().Str("email", email).Time("expires_at", expiresAt).Msg("granted discord access")
	return nil
}

func (s *fulfillmentServiceImpl) fulfillPremium(ctx context.Context, email, sessionID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.orderRepo.MarkPaidBySession(ctx, tx, sessionID)
		return err
	})
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}

	// Premium fulfillment continues out of band through support.
	if err := s.notifier.SendTicketNotice(ctx, email); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("ticket email failed")
	}

	s.logger.Info().Str("email", email).Msg("sent ticket notice")
	return nil
}

func (s *fulfillmentServiceImpl) fulfillAccessCode(ctx context.Context, email, sessionID string, entry catalog.Entry) error {
	orderID := ""
	if order, err := s.orderRepo.FindBySessionID(ctx, sessionID); err == nil {
		orderID = order.ID
	}

	var code *model.AccessCode
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.orderRepo.MarkPaidBySession(ctx, tx, sessionID); err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}

		claimed, err := s.accessCodeRepo.ClaimUnused(ctx, tx, entry.Product, email, orderID)
		if err != nil {
			return err
		}

		code = claimed
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrPoolExhausted) {
			// Starvation: buyer paid and got nothing. Needs operator
			// attention, not an automatic retry.
			s.logger.Warn().
				Str("email", email).
				Str("product_type", string(entry.Product)).
				Msg("no access codes left in pool")
			return nil
		}
		return fmt.Errorf("claim access code: %w", err)
	}

	if err := s.notifier.SendAccessCodeNotice(ctx, email, code.Code, s.generatorLink); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("access code email failed")
	}

	s.logger.Info().Str("email", email).Msg("sent access code")
	return nil
}
