package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/apperr"
	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/normalization"
	"github.com/focusup-app/focusup-backend/internal/repos"
	"github.com/focusup-app/focusup-backend/internal/types"
)

type CreateAlbumInput struct {
	Name     string
	CoverURL string
}

type UpdateAlbumInput struct {
	Name     *string
	CoverURL *string
}

type AddTrackInput struct {
	Title    string
	Artist   string
	URL      string
	Position int
}

type AlbumService interface {
	Create(ctx context.Context, in CreateAlbumInput) (*types.Album, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Album, error)
	List(ctx context.Context) ([]*types.Album, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateAlbumInput) (*types.Album, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddTracks(ctx context.Context, albumID uuid.UUID, tracks []AddTrackInput) (*types.Album, error)
	RemoveTrack(ctx context.Context, albumID, trackID uuid.UUID) error
}

type albumService struct {
	db        *gorm.DB
	log       *logger.Logger
	albumRepo repos.AlbumRepo
}

func NewAlbumService(db *gorm.DB, log *logger.Logger, albumRepo repos.AlbumRepo) AlbumService {
	serviceLog := log.With("service", "AlbumService")
	return &albumService{db: db, log: serviceLog, albumRepo: albumRepo}
}

func (as *albumService) Create(ctx context.Context, in CreateAlbumInput) (*types.Album, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	name := normalization.ParseInputString(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: album name is required", apperr.ErrInvalidArgument)
	}

	album := &types.Album{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     name,
		CoverURL: normalization.ParseInputString(in.CoverURL),
	}
	if _, cErr := as.albumRepo.Create(ctx, nil, []*types.Album{album}); cErr != nil {
		return nil, fmt.Errorf("failed to create album: %w", cErr)
	}
	return album, nil
}

func (as *albumService) Get(ctx context.Context, id uuid.UUID) (*types.Album, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	album, gErr := as.albumRepo.GetByIDAndUser(ctx, nil, id, userID)
	if gErr != nil {
		return nil, fmt.Errorf("failed to load album: %w", gErr)
	}
	if album == nil {
		return nil, fmt.Errorf("album %w", apperr.ErrNotFound)
	}
	return album, nil
}

func (as *albumService) List(ctx context.Context) ([]*types.Album, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return as.albumRepo.ListByUser(ctx, nil, userID)
}

func (as *albumService) Update(ctx context.Context, id uuid.UUID, in UpdateAlbumInput) (*types.Album, error) {
	album, err := as.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := normalization.ParseInputString(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: album name cannot be empty", apperr.ErrInvalidArgument)
		}
		album.Name = name
	}
	if in.CoverURL != nil {
		album.CoverURL = normalization.ParseInputString(*in.CoverURL)
	}

	if sErr := as.albumRepo.Save(ctx, nil, album); sErr != nil {
		return nil, fmt.Errorf("failed to save album: %w", sErr)
	}
	return album, nil
}

func (as *albumService) Delete(ctx context.Context, id uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	affected, dErr := as.albumRepo.FullDeleteByIDAndUser(ctx, nil, id, userID)
	if dErr != nil {
		return fmt.Errorf("failed to delete album: %w", dErr)
	}
	if affected == 0 {
		return fmt.Errorf("album not found or not authorized: %w", apperr.ErrNotFound)
	}
	return nil
}

func (as *albumService) AddTracks(ctx context.Context, albumID uuid.UUID, inputs []AddTrackInput) (*types.Album, error) {
	album, err := as.Get(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return album, nil
	}

	tracks := make([]*types.Track, 0, len(inputs))
	for _, in := range inputs {
		title := normalization.ParseInputString(in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: track title is required", apperr.ErrInvalidArgument)
		}
		tracks = append(tracks, &types.Track{
			ID:       uuid.New(),
			AlbumID:  album.ID,
			Title:    title,
			Artist:   normalization.ParseInputString(in.Artist),
			URL:      normalization.ParseInputString(in.URL),
			Position: in.Position,
		})
	}
	if _, aErr := as.albumRepo.AddTracks(ctx, nil, tracks); aErr != nil {
		return nil, fmt.Errorf("failed to add tracks: %w", aErr)
	}
	album.Tracks = append(album.Tracks, tracks...)
	return album, nil
}

func (as *albumService) RemoveTrack(ctx context.Context, albumID, trackID uuid.UUID) error {
	album, err := as.Get(ctx, albumID)
	if err != nil {
		return err
	}
	affected, dErr := as.albumRepo.FullDeleteTrack(ctx, nil, trackID, album.ID)
	if dErr != nil {
		return fmt.Errorf("failed to delete track: %w", dErr)
	}
	if affected == 0 {
		return fmt.Errorf("track %w", apperr.ErrNotFound)
	}
	return nil
}
