package repository

import (
	"context"
	"errors"
	"time"

	"mamba-store/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CodeStats struct {
	Total     int64 `json:"total"`
	Used      int64 `json:"used"`
	Remaining int64 `json:"remaining"`
}

type AccessCodeRepository interface {
	// ClaimUnused claims one unused code for the product type on tx,
	// stamping the buyer's email and order id. The update is guarded by
	// RowsAffected so two concurrent claimers can never win the same code;
	// a loser moves on to the next candidate. Returns ErrPoolExhausted
	// when none are left.
	ClaimUnused(ctx context.Context, tx *gorm.DB, productType model.ProductType, email, orderID string) (*model.AccessCode, error)
	MarkUsed(ctx context.Context, code, email string) (*model.AccessCode, error)
	FindByCode(ctx context.Context, code string) (*model.AccessCode, error)
	// Seed inserts the pre-generated pool in batches, splitting by position:
	// the first obywatelCount codes go to obywatel, the remainder to
	// receipts. Skipped entirely when any codes already exist.
	Seed(ctx context.Context, codes []string, obywatelCount int) error
	Stats(ctx context.Context) (map[model.ProductType]CodeStats, error)
}

type accessCodeRepoImpl struct {
	db *gorm.DB
}

func NewAccessCodeRepository(db *gorm.DB) AccessCodeRepository {
	return &accessCodeRepoImpl{
		db: db,
	}
}

const claimAttempts = 5

func (r *accessCodeRepoImpl) ClaimUnused(ctx context.Context, tx *gorm.DB, productType model.ProductType, email, orderID string) (*model.AccessCode, error) {
	for attempt := 0; attempt < claimAttempts; attempt++ {
		var candidate model.AccessCode
		err := tx.WithContext(ctx).
			Where("product_type = ? AND is_used = ?", productType, false).
			Order("created_at").
			First(&candidate).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPoolExhausted
			}
			return nil, err
		}

		now := time.Now()
		result := tx.WithContext(ctx).Model(&model.AccessCode{}).
			Where("id = ? AND is_used = ?", candidate.ID, false).
			Updates(map[string]interface{}{
				"is_used":  true,
				"email":    email,
				"order_id": orderID,
				"used_at":  now,
			})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			// another claimer won this row, try the next candidate
			continue
		}

		candidate.IsUsed = true
		candidate.Email = email
		candidate.OrderID = orderID
		candidate.UsedAt = &now
		return &candidate, nil
	}

	return nil, ErrPoolExhausted
}

func (r *accessCodeRepoImpl) MarkUsed(ctx context.Context, code, email string) (*model.AccessCode, error) {
	var marked model.AccessCode
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.AccessCode
		if err := tx.Where("code = ?", code).First(&existing).Error; err != nil {
			return err
		}

		if existing.IsUsed {
			return ErrAlreadyUsed
		}

		now := time.Now()
		result := tx.Model(&model.AccessCode{}).
			Where("code = ? AND is_used = ?", code, false).
			Updates(map[string]interface{}{
				"is_used": true,
				"email":   email,
				"used_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyUsed
		}

		marked = existing
		marked.IsUsed = true
		marked.Email = email
		marked.UsedAt = &now
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &marked, nil
}

func (r *accessCodeRepoImpl) FindByCode(ctx context.Context, code string) (*model.AccessCode, error) {
	var accessCode model.AccessCode
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&accessCode).Error

	if err != nil {
		return nil, err
	}

	return &accessCode, nil
}

const seedBatchSize = 50

func (r *accessCodeRepoImpl) Seed(ctx context.Context, codes []string, obywatelCount int) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.AccessCode{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		// pool already seeded, startup is idempotent
		return nil
	}

	for start := 0; start < len(codes); start += seedBatchSize {
		end := start + seedBatchSize
		if end > len(codes) {
			end = len(codes)
		}

		batch := make([]model.AccessCode, 0, end-start)
		for i, code := range codes[start:end] {
			productType := model.ProductTypeReceipts
			if start+i < obywatelCount {
				productType = model.ProductTypeObywatel
			}
			batch = append(batch, model.AccessCode{
				ID:          uuid.NewString(),
				Code:        code,
				ProductType: productType,
			})
		}

		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&batch).Error
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *accessCodeRepoImpl) Stats(ctx context.Context) (map[model.ProductType]CodeStats, error) {
	var rows []struct {
		ProductType model.ProductType
		IsUsed      bool
		Count       int64
	}

	err := r.db.WithContext(ctx).Model(&model.AccessCode{}).
		Select("product_type, is_used, count(*) as count").
		Group("product_type, is_used").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[model.ProductType]CodeStats)
	for _, row := range rows {
		s := stats[row.ProductType]
		s.Total += row.Count
		if row.IsUsed {
			s.Used += row.Count
		} else {
			s.Remaining += row.Count
		}
		stats[row.ProductType] = s
	}

	return stats, nil
}
