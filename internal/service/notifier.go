package service

import (
	"context"
	"time"
)

// Notifier sends the buyer-facing emails triggered by fulfillment. Send
// failures are non-fatal to callers: the webhook contract requires
// acknowledging the provider once the signature checks out.
type Notifier interface {
	SendTicketNotice(ctx context.Context, email string) error
	SendSubscriptionNotice(ctx context.Context, email string, expiresAt time.Time) error
	SendAccessCodeNotice(ctx context.Context, email, code, generatorLink string) error
}

// RoleGranter manages the guild role backing time-limited access.
type RoleGranter interface {
	GrantRole(ctx context.Context, discordUserID string) error
	RevokeRole(ctx context.Context, discordUserID string) error
}
