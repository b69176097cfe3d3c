package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/types"
)

type VerificationTokenRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tokens []*types.VerificationToken) ([]*types.VerificationToken, error)
	GetByToken(ctx context.Context, tx *gorm.DB, token string) (*types.VerificationToken, error)
	MarkUsed(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID, usedAt time.Time) error
	FullDeleteByUserAndPurpose(ctx context.Context, tx *gorm.DB, userID uuid.UUID, purpose string) error
}

type verificationTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVerificationTokenRepo(db *gorm.DB, baseLog *logger.Logger) VerificationTokenRepo {
	repoLog := baseLog.With("repo", "VerificationTokenRepo")
	return &verificationTokenRepo{db: db, log: repoLog}
}

func (vtr *verificationTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.VerificationToken) ([]*types.VerificationToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = vtr.db
	}

	if len(tokens) == 0 {
		return []*types.VerificationToken{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (vtr *verificationTokenRepo) GetByToken(ctx context.Context, tx *gorm.DB, token string) (*types.VerificationToken, error) {
	transaction := tx
	if transaction == nil {
		transaction = vtr.db
	}

	var results []*types.VerificationToken
	if err := transaction.WithContext(ctx).
		Where("token = ?", token).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (vtr *verificationTokenRepo) MarkUsed(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID, usedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = vtr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.VerificationToken{}).
		Where("id = ?", tokenID).
		Update("used_at", usedAt).Error
}

func (vtr *verificationTokenRepo) FullDeleteByUserAndPurpose(ctx context.Context, tx *gorm.DB, userID uuid.UUID, purpose string) error {
	transaction := tx
	if transaction == nil {
		transaction = vtr.db
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND purpose = ?", userID, purpose).
		Delete(&types.VerificationToken{}).Error
}
