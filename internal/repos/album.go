package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/types"
)

type AlbumRepo interface {
	Create(ctx context.Context, tx *gorm.DB, albums []*types.Album) ([]*types.Album, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Album, error)
	GetByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Album, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Album, error)
	Save(ctx context.Context, tx *gorm.DB, album *types.Album) error
	FullDeleteByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (int64, error)
	AddTracks(ctx context.Context, tx *gorm.DB, tracks []*types.Track) ([]*types.Track, error)
	FullDeleteTrack(ctx context.Context, tx *gorm.DB, trackID, albumID uuid.UUID) (int64, error)
}

type albumRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlbumRepo(db *gorm.DB, baseLog *logger.Logger) AlbumRepo {
	repoLog := baseLog.With("repo", "AlbumRepo")
	return &albumRepo{db: db, log: repoLog}
}

func (ar *albumRepo) Create(ctx context.Context, tx *gorm.DB, albums []*types.Album) ([]*types.Album, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(albums) == 0 {
		return []*types.Album{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&albums).Error; err != nil {
		return nil, err
	}
	return albums, nil
}

func (ar *albumRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Album, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Album
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Tracks").
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *albumRepo) GetByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Album, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Album
	if err := transaction.WithContext(ctx).
		Preload("Tracks").
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ar *albumRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Album, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Album
	if err := transaction.WithContext(ctx).
		Preload("Tracks").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *albumRepo) Save(ctx context.Context, tx *gorm.DB, album *types.Album) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Save(album).Error
}

func (ar *albumRepo) FullDeleteByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	res := transaction.WithContext(ctx).
		Unscoped().
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.Album{})
	return res.RowsAffected, res.Error
}

func (ar *albumRepo) AddTracks(ctx context.Context, tx *gorm.DB, tracks []*types.Track) ([]*types.Track, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(tracks) == 0 {
		return []*types.Track{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&tracks).Error; err != nil {
		return nil, err
	}
	return tracks, nil
}

func (ar *albumRepo) FullDeleteTrack(ctx context.Context, tx *gorm.DB, trackID, albumID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	res := transaction.WithContext(ctx).
		Unscoped().
		Where("id = ? AND album_id = ?", trackID, albumID).
		Delete(&types.Track{})
	return res.RowsAffected, res.Error
}
