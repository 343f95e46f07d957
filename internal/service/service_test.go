package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"mamba-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Order{},
		&model.DiscordAccess{},
		&model.AccessCode{},
		&model.WebhookEvent{},
	))

	return db
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// fakeVerifier accepts exactly one signature header value. On a match it
// decodes the envelope the way the real verifier does: Data.Raw carries the
// raw data.object.
type fakeVerifier struct {
	validSignature string
	event          stripe.Event
}

func (f *fakeVerifier) VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	if signatureHeader != f.validSignature {
		return stripe.Event{}, errors.New("signature mismatch")
	}

	if f.event.ID != "" {
		return f.event, nil
	}

	var envelope struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return stripe.Event{}, err
	}

	return stripe.Event{
		ID:   envelope.ID,
		Type: stripe.EventType(envelope.Type),
		Data: &stripe.EventData{Raw: envelope.Data.Object},
	}, nil
}

type sentMail struct {
	kind      string
	email     string
	code      string
	link      string
	expiresAt time.Time
}

// recordingNotifier captures outbound notifications; err makes every send
// fail to exercise the non-fatal path.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (n *recordingNotifier) record(m sentMail) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, m)
	return nil
}

func (n *recordingNotifier) SendTicketNotice(ctx context.Context, email string) error {
	return n.record(sentMail{kind: "ticket", email: email})
}

func (n *recordingNotifier) SendSubscriptionNotice(ctx context.Context, email string, expiresAt time.Time) error {
	return n.record(sentMail{kind: "subscription", email: email, expiresAt: expiresAt})
}

func (n *recordingNotifier) SendAccessCodeNotice(ctx context.Context, email, code, generatorLink string) error {
	return n.record(sentMail{kind: "access_code", email: email, code: code, link: generatorLink})
}

func (n *recordingNotifier) messages() []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMail(nil), n.sent...)
}

type fakeRoleGranter struct {
	mu      sync.Mutex
	granted []string
	revoked []string
	err     error
}

func (f *fakeRoleGranter) GrantRole(ctx context.Context, discordUserID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.granted = append(f.granted, discordUserID)
	return nil
}

func (f *fakeRoleGranter) RevokeRole(ctx context.Context, discordUserID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.revoked = append(f.revoked, discordUserID)
	return nil
}
