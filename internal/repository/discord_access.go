package repository

import (
	"context"
	"time"

	"mamba-store/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscordAccessRepository interface {
	// Grant records a new access window. Multiple rows per email are fine;
	// each purchase grants its own expiry.
	Grant(ctx context.Context, tx *gorm.DB, access *model.DiscordAccess) error
	FindByEmail(ctx context.Context, email string) ([]*model.DiscordAccess, error)
	FindActiveByEmail(ctx context.Context, email string, now time.Time) ([]*model.DiscordAccess, error)
	// LinkUser replaces the pending sentinel with the real Discord user id
	// on every unexpired grant for the email.
	LinkUser(ctx context.Context, email, discordUserID string, now time.Time) (int64, error)
}

type discordAccessRepoImpl struct {
	db *gorm.DB
}

func NewDiscordAccessRepository(db *gorm.DB) DiscordAccessRepository {
	return &discordAccessRepoImpl{
		db: db,
	}
}

func (r *discordAccessRepoImpl) Grant(ctx context.Context, tx *gorm.DB, access *model.DiscordAccess) error {
	if access.ID == "" {
		access.ID = uuid.NewString()
	}
	return tx.WithContext(ctx).Create(access).Error
}

func (r *discordAccessRepoImpl) FindByEmail(ctx context.Context, email string) ([]*model.DiscordAccess, error) {
	var accesses []*model.DiscordAccess
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Find(&accesses).Error

	if err != nil {
		return nil, err
	}

	return accesses, nil
}

func (r *discordAccessRepoImpl) FindActiveByEmail(ctx context.Context, email string, now time.Time) ([]*model.DiscordAccess, error) {
	var accesses []*model.DiscordAccess
	err := r.db.WithContext(ctx).
		Where("email = ? AND expires_at > ?", email, now).
		Find(&accesses).Error

	if err != nil {
		return nil, err
	}

	return accesses, nil
}

func (r *discordAccessRepoImpl) LinkUser(ctx context.Context, email, discordUserID string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.DiscordAccess{}).
		Where("email = ? AND discord_user_id = ? AND expires_at > ?", email, model.DiscordUserPending, now).
		Update("discord_user_id", discordUserID)

	return result.RowsAffected, result.Error
}
