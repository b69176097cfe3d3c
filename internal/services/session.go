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

type CreateSessionInput struct {
	Title       string
	Description string
	EventID     *uuid.UUID
	MethodID    *uuid.UUID
	AlbumID     *uuid.UUID
}

type UpdateSessionInput struct {
	Status    *string
	ElapsedMs *int64
	Notes     *string
}

type SessionPage struct {
	Sessions []*types.Session
	Total    int64
	Page     int
	PerPage  int
}

type SessionService interface {
	Create(ctx context.Context, in CreateSessionInput) (*types.Session, error)
	CreateFromEvent(ctx context.Context, eventID uuid.UUID) (*types.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Session, error)
	List(ctx context.Context, page, perPage int) (*SessionPage, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateSessionInput) (*types.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.SessionRepo
	eventRepo   repos.EventRepo
	methodRepo  repos.StudyMethodRepo
	albumRepo   repos.AlbumRepo
	userRepo    repos.UserRepo
	now         func() time.Time
}

func NewSessionService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.SessionRepo,
	eventRepo repos.EventRepo,
	methodRepo repos.StudyMethodRepo,
	albumRepo repos.AlbumRepo,
	userRepo repos.UserRepo,
) SessionService {
	serviceLog := log.With("service", "SessionService")
	return &sessionService{
		db:          db,
		log:         serviceLog,
		sessionRepo: sessionRepo,
		eventRepo:   eventRepo,
		methodRepo:  methodRepo,
		albumRepo:   albumRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

func (ss *sessionService) Create(ctx context.Context, in CreateSessionInput) (*types.Session, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	users, uErr := ss.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if uErr != nil {
		return nil, fmt.Errorf("failed to load user: %w", uErr)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %w", apperr.ErrNotFound)
	}

	sessionType := types.SessionTypeRapid
	if in.EventID != nil {
		event, gErr := ss.eventRepo.GetByIDAndUser(ctx, nil, *in.EventID, userID)
		if gErr != nil {
			return nil, fmt.Errorf("failed to load event: %w", gErr)
		}
		if event == nil {
			return nil, fmt.Errorf("event %w", apperr.ErrNotFound)
		}
		sessionType = types.SessionTypeScheduled
	}
	if in.MethodID != nil {
		rows, gErr := ss.methodRepo.GetByIDs(ctx, nil, []uuid.UUID{*in.MethodID})
		if gErr != nil {
			return nil, fmt.Errorf("failed to load method: %w", gErr)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("method %w", apperr.ErrNotFound)
		}
	}
	if in.AlbumID != nil {
		album, gErr := ss.albumRepo.GetByIDAndUser(ctx, nil, *in.AlbumID, userID)
		if gErr != nil {
			return nil, fmt.Errorf("failed to load album: %w", gErr)
		}
		if album == nil {
			return nil, fmt.Errorf("album %w", apperr.ErrNotFound)
		}
	}

	now := ss.now()
	session := &types.Session{
		ID:                uuid.New(),
		UserID:            userID,
		Title:             normalization.ParseInputString(in.Title),
		Description:       normalization.ParseInputString(in.Description),
		Status:            types.SessionStatusPending,
		Type:              sessionType,
		EventID:           in.EventID,
		MethodID:          in.MethodID,
		AlbumID:           in.AlbumID,
		Elapsed:           "00:00:00",
		LastInteractionAt: &now,
	}
	if _, cErr := ss.sessionRepo.Create(ctx, nil, []*types.Session{session}); cErr != nil {
		return nil, fmt.Errorf("failed to create session: %w", cErr)
	}
	return session, nil
}

// CreateFromEvent starts the focus session attached to a concentration event.
// An event can back at most one session, and only while it is still pending.
func (ss *sessionService) CreateFromEvent(ctx context.Context, eventID uuid.UUID) (*types.Session, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	event, gErr := ss.eventRepo.GetByIDAndUser(ctx, nil, eventID, userID)
	if gErr != nil {
		return nil, fmt.Errorf("failed to load event: %w", gErr)
	}
	if event == nil {
		return nil, fmt.Errorf("event %w", apperr.ErrNotFound)
	}
	if event.Type != types.EventTypeConcentration {
		return nil, fmt.Errorf("%w: only %s events can start a session", apperr.ErrInvalidArgument, types.EventTypeConcentration)
	}
	if event.Status != types.EventStatusPending {
		return nil, fmt.Errorf("%w: event is not pending", apperr.ErrInvalidArgument)
	}

	existing, eErr := ss.sessionRepo.GetByEventAndUser(ctx, nil, eventID, userID)
	if eErr != nil {
		return nil, fmt.Errorf("failed to check for existing session: %w", eErr)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: event already has a session", apperr.ErrAlreadyExists)
	}

	now := ss.now()
	session := &types.Session{
		ID:                uuid.New(),
		UserID:            userID,
		Title:             event.Title,
		Description:       event.Description,
		Status:            types.SessionStatusPending,
		Type:              types.SessionTypeScheduled,
		EventID:           &event.ID,
		MethodID:          event.MethodID,
		AlbumID:           event.AlbumID,
		Elapsed:           "00:00:00",
		LastInteractionAt: &now,
	}
	if _, cErr := ss.sessionRepo.Create(ctx, nil, []*types.Session{session}); cErr != nil {
		return nil, fmt.Errorf("failed to create session: %w", cErr)
	}
	return session, nil
}

func (ss *sessionService) Get(ctx context.Context, id uuid.UUID) (*types.Session, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	session, gErr := ss.sessionRepo.GetByIDAndUser(ctx, nil, id, userID)
	if gErr != nil {
		return nil, fmt.Errorf("failed to load session: %w", gErr)
	}
	if session == nil {
		return nil, fmt.Errorf("session %w", apperr.ErrNotFound)
	}
	return session, nil
}

func (ss *sessionService) List(ctx context.Context, page, perPage int) (*SessionPage, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	sessions, total, lErr := ss.sessionRepo.ListByUserPaginated(ctx, nil, userID, page, perPage)
	if lErr != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", lErr)
	}
	return &SessionPage{Sessions: sessions, Total: total, Page: page, PerPage: perPage}, nil
}

// Update applies elapsed time, status and notes changes. Completing a session
// that was started from an event also completes the event, atomically.
func (ss *sessionService) Update(ctx context.Context, id uuid.UUID, in UpdateSessionInput) (*types.Session, error) {
	session, err := ss.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ElapsedMs != nil {
		if *in.ElapsedMs < 0 {
			return nil, fmt.Errorf("%w: elapsed time cannot be negative", apperr.ErrInvalidArgument)
		}
		session.Elapsed = MsToInterval(*in.ElapsedMs)
	}
	if in.Notes != nil {
		session.Notes = normalization.ParseInputString(*in.Notes)
	}

	completing := false
	if in.Status != nil {
		status := normalization.ParseInputString(*in.Status)
		switch status {
		case types.SessionStatusPending:
			session.Status = status
		case types.SessionStatusCompleted:
			completing = session.Status != types.SessionStatusCompleted
			session.Status = status
		default:
			return nil, fmt.Errorf("%w: unknown session status %q", apperr.ErrInvalidArgument, *in.Status)
		}
	}

	now := ss.now()
	session.LastInteractionAt = &now

	if txErr := runInTx(ctx, ss.db, func(tx *gorm.DB) error {
		if sErr := ss.sessionRepo.Save(ctx, tx, session); sErr != nil {
			return fmt.Errorf("failed to save session: %w", sErr)
		}
		if completing && session.EventID != nil {
			if uErr := ss.eventRepo.UpdateStatus(ctx, tx, *session.EventID, types.EventStatusCompleted); uErr != nil {
				return fmt.Errorf("failed to complete linked event: %w", uErr)
			}
		}
		return nil
	}); txErr != nil {
		return nil, txErr
	}
	return session, nil
}

func (ss *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	affected, dErr := ss.sessionRepo.FullDeleteByIDAndUser(ctx, nil, id, userID)
	if dErr != nil {
		return fmt.Errorf("failed to delete session: %w", dErr)
	}
	if affected == 0 {
		return fmt.Errorf("session not found or not authorized: %w", apperr.ErrNotFound)
	}
	return nil
}

// MsToInterval renders milliseconds as "HH:MM:SS", truncating sub-second
// remainder. Hours are not wrapped, so very long sessions keep counting.
func MsToInterval(ms int64) string {
	totalSeconds := ms / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// IntervalToMs parses an "HH:MM:SS" interval back into milliseconds.
func IntervalToMs(interval string) (int64, error) {
	var hours, minutes, seconds int64
	if _, err := fmt.Sscanf(interval, "%d:%d:%d", &hours, &minutes, &seconds); err != nil {
		return 0, fmt.Errorf("malformed interval %q: %w", interval, err)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("interval %q out of range", interval)
	}
	return (hours*3600 + minutes*60 + seconds) * 1000, nil
}
