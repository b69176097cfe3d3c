package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/types"
)

type StudyMethodRepo interface {
	Create(ctx context.Context, tx *gorm.DB, methods []*types.StudyMethod) ([]*types.StudyMethod, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, methodIDs []uuid.UUID) ([]*types.StudyMethod, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.StudyMethod, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.StudyMethod, error)
	Update(ctx context.Context, tx *gorm.DB, method *types.StudyMethod) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, methodIDs []uuid.UUID) error
}

type studyMethodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyMethodRepo(db *gorm.DB, baseLog *logger.Logger) StudyMethodRepo {
	repoLog := baseLog.With("repo", "StudyMethodRepo")
	return &studyMethodRepo{db: db, log: repoLog}
}

func (smr *studyMethodRepo) Create(ctx context.Context, tx *gorm.DB, methods []*types.StudyMethod) ([]*types.StudyMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = smr.db
	}

	if len(methods) == 0 {
		return []*types.StudyMethod{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

func (smr *studyMethodRepo) GetByIDs(ctx context.Context, tx *gorm.DB, methodIDs []uuid.UUID) ([]*types.StudyMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = smr.db
	}

	var results []*types.StudyMethod
	if len(methodIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", methodIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (smr *studyMethodRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.StudyMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = smr.db
	}

	var results []*types.StudyMethod
	if len(names) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("name IN ?", names).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (smr *studyMethodRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.StudyMethod, error) {
	transaction := tx
	if transaction == nil {
		transaction = smr.db
	}

	var results []*types.StudyMethod
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (smr *studyMethodRepo) Update(ctx context.Context, tx *gorm.DB, method *types.StudyMethod) error {
	transaction := tx
	if transaction == nil {
		transaction = smr.db
	}
	return transaction.WithContext(ctx).Save(method).Error
}

func (smr *studyMethodRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, methodIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = smr.db
	}

	if len(methodIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", methodIDs).
		Delete(&types.StudyMethod{}).Error
}
