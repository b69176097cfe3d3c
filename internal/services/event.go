package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/apperr"
	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/normalization"
	"github.com/focusup-app/focusup-backend/internal/repos"
	"github.com/focusup-app/focusup-backend/internal/types"
)

type CreateEventInput struct {
	Title       string
	Description string
	Type        string
	StartsAt    time.Time
	MethodID    *uuid.UUID
	AlbumID     *uuid.UUID
}

type UpdateEventInput struct {
	Title       *string
	Description *string
	StartsAt    *time.Time
	MethodID    *uuid.UUID
	AlbumID     *uuid.UUID
}

type EventService interface {
	Create(ctx context.Context, in CreateEventInput) (*types.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Event, error)
	List(ctx context.Context) ([]*types.Event, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateEventInput) (*types.Event, error)
	Complete(ctx context.Context, id uuid.UUID) (*types.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventService struct {
	db            *gorm.DB
	log           *logger.Logger
	eventRepo     repos.EventRepo
	methodRepo    repos.StudyMethodRepo
	albumRepo     repos.AlbumRepo
	notifications NotificationService
}

func NewEventService(
	db *gorm.DB,
	log *logger.Logger,
	eventRepo repos.EventRepo,
	methodRepo repos.StudyMethodRepo,
	albumRepo repos.AlbumRepo,
	notifications NotificationService,
) EventService {
	serviceLog := log.With("service", "EventService")
	return &eventService{
		db:            db,
		log:           serviceLog,
		eventRepo:     eventRepo,
		methodRepo:    methodRepo,
		albumRepo:     albumRepo,
		notifications: notifications,
	}
}

func validEventType(t string) bool {
	switch t {
	case types.EventTypeConcentration, types.EventTypeStudy, types.EventTypeOther:
		return true
	}
	return false
}

func (es *eventService) Create(ctx context.Context, in CreateEventInput) (*types.Event, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	title := normalization.ParseInputString(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrInvalidArgument)
	}
	eventType := normalization.ParseInputString(in.Type)
	if !validEventType(eventType) {
		return nil, fmt.Errorf("%w: unknown event type %q", apperr.ErrInvalidArgument, in.Type)
	}
	if in.StartsAt.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", apperr.ErrInvalidArgument)
	}

	if in.MethodID != nil {
		if vErr := es.checkMethodExists(ctx, *in.MethodID); vErr != nil {
			return nil, vErr
		}
	}
	if in.AlbumID != nil {
		if vErr := es.checkAlbumOwned(ctx, *in.AlbumID, userID); vErr != nil {
			return nil, vErr
		}
	}

	event := &types.Event{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: normalization.ParseInputString(in.Description),
		Type:        eventType,
		Status:      types.EventStatusPending,
		StartsAt:    in.StartsAt,
		MethodID:    in.MethodID,
		AlbumID:     in.AlbumID,
	}
	if _, cErr := es.eventRepo.Create(ctx, nil, []*types.Event{event}); cErr != nil {
		return nil, fmt.Errorf("failed to create event: %w", cErr)
	}

	// Reminder scheduling is best-effort, the event row is already committed.
	if _, nErr := es.notifications.ScheduleEventReminder(ctx, event); nErr != nil {
		es.log.Warn("Failed to schedule event reminder", "event_id", event.ID, "error", nErr)
	}
	return event, nil
}

func (es *eventService) Get(ctx context.Context, id uuid.UUID) (*types.Event, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	event, gErr := es.eventRepo.GetByIDAndUser(ctx, nil, id, userID)
	if gErr != nil {
		return nil, fmt.Errorf("failed to load event: %w", gErr)
	}
	if event == nil {
		return nil, fmt.Errorf("event %w", apperr.ErrNotFound)
	}
	return event, nil
}

func (es *eventService) List(ctx context.Context) ([]*types.Event, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return es.eventRepo.ListByUser(ctx, nil, userID)
}

func (es *eventService) Update(ctx context.Context, id uuid.UUID, in UpdateEventInput) (*types.Event, error) {
	event, err := es.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := normalization.ParseInputString(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", apperr.ErrInvalidArgument)
		}
		event.Title = title
	}
	if in.Description != nil {
		event.Description = normalization.ParseInputString(*in.Description)
	}
	if in.StartsAt != nil {
		if in.StartsAt.IsZero() {
			return nil, fmt.Errorf("%w: start time cannot be empty", apperr.ErrInvalidArgument)
		}
		event.StartsAt = *in.StartsAt
	}
	if in.MethodID != nil {
		if vErr := es.checkMethodExists(ctx, *in.MethodID); vErr != nil {
			return nil, vErr
		}
		event.MethodID = in.MethodID
	}
	if in.AlbumID != nil {
		if vErr := es.checkAlbumOwned(ctx, *in.AlbumID, event.UserID); vErr != nil {
			return nil, vErr
		}
		event.AlbumID = in.AlbumID
	}

	if sErr := es.eventRepo.Save(ctx, nil, event); sErr != nil {
		return nil, fmt.Errorf("failed to save event: %w", sErr)
	}
	return event, nil
}

func (es *eventService) Complete(ctx context.Context, id uuid.UUID) (*types.Event, error) {
	event, err := es.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status == types.EventStatusCompleted {
		return event, nil
	}
	if uErr := es.eventRepo.UpdateStatus(ctx, nil, event.ID, types.EventStatusCompleted); uErr != nil {
		return nil, fmt.Errorf("failed to complete event: %w", uErr)
	}
	event.Status = types.EventStatusCompleted
	return event, nil
}

func (es *eventService) Delete(ctx context.Context, id uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	affected, dErr := es.eventRepo.FullDeleteByIDAndUser(ctx, nil, id, userID)
	if dErr != nil {
		return fmt.Errorf("failed to delete event: %w", dErr)
	}
	if affected == 0 {
		return fmt.Errorf("event not found or not authorized: %w", apperr.ErrNotFound)
	}
	return nil
}

func (es *eventService) checkMethodExists(ctx context.Context, id uuid.UUID) error {
	rows, err := es.methodRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("failed to load method: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("method %w", apperr.ErrNotFound)
	}
	return nil
}

func (es *eventService) checkAlbumOwned(ctx context.Context, id, userID uuid.UUID) error {
	album, err := es.albumRepo.GetByIDAndUser(ctx, nil, id, userID)
	if err != nil {
		return fmt.Errorf("failed to load album: %w", err)
	}
	if album == nil {
		return fmt.Errorf("album %w", apperr.ErrNotFound)
	}
	return nil
}
