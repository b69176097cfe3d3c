package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/types"
)

type ActiveMethodRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ActiveMethod) ([]*types.ActiveMethod, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ActiveMethod, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.ActiveMethod, error)
	GetByMethodAndUser(ctx context.Context, tx *gorm.DB, methodID, userID uuid.UUID) (*types.ActiveMethod, error)
	Save(ctx context.Context, tx *gorm.DB, row *types.ActiveMethod) error
	FullDeleteByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (int64, error)
	GetStalePending(ctx context.Context, tx *gorm.DB, createdBefore time.Time) ([]*types.ActiveMethod, error)
}

type activeMethodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActiveMethodRepo(db *gorm.DB, baseLog *logger.Logger) ActiveMethodRepo {
	repoLog := baseLog.With("repo", "ActiveMethodRepo")
	return &activeMethodRepo{db: db, log: repoLog}
}

func (amr *activeMethodRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ActiveMethod) ([]*types.ActiveMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = amr.db
	}

	if len(rows) == 0 {
		return []*types.ActiveMethod{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (amr *activeMethodRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ActiveMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = amr.db
	}

	var results []*types.ActiveMethod
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Method").
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (amr *activeMethodRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.ActiveMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = amr.db
	}

	var results []*types.ActiveMethod
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Method").
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (amr *activeMethodRepo) GetByMethodAndUser(ctx context.Context, tx *gorm.DB, methodID, userID uuid.UUID) (*types.ActiveMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = amr.db
	}

	var results []*types.ActiveMethod
	if err := transaction.WithContext(ctx).
		Preload("Method").
		Where("method_id = ? AND user_id = ?", methodID, userID).
		Order("created_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (amr *activeMethodRepo) Save(ctx context.Context, tx *gorm.DB, row *types.ActiveMethod) error {
	transaction := tx
	if transaction == nil {
		transaction = amr.db
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (amr *activeMethodRepo) FullDeleteByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = amr.db
	}

	res := transaction.WithContext(ctx).
		Unscoped().
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.ActiveMethod{})
	return res.RowsAffected, res.Error
}

func (amr *activeMethodRepo) GetStalePending(ctx context.Context, tx *gorm.DB, createdBefore time.Time) ([]*types.ActiveMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = amr.db
	}

	var results []*types.ActiveMethod
	if err := transaction.WithContext(ctx).
		Preload("Method").
		Where("progress < ? AND created_at <= ?", 100, createdBefore).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
