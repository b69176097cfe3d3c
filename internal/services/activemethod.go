package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/apperr"
	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/methods"
	"github.com/focusup-app/focusup-backend/internal/repos"
	"github.com/focusup-app/focusup-backend/internal/types"
)

// pendingMethodReminderDelay is how far out the auto-reminder for a not-yet
// finished method is scheduled at creation time.
const pendingMethodReminderDelay = 7 * 24 * time.Hour

type CreateActiveMethodInput struct {
	MethodID uuid.UUID
	Progress any
	Status   string
}

type UpdateActiveMethodInput struct {
	Progress any
	Finalize bool
}

type ActiveMethodService interface {
	Create(ctx context.Context, in CreateActiveMethodInput) (*types.ActiveMethod, error)
	UpdateProgress(ctx context.Context, methodID uuid.UUID, in UpdateActiveMethodInput) (*types.ActiveMethod, error)
	List(ctx context.Context) ([]*types.ActiveMethod, error)
	Resume(ctx context.Context, methodID uuid.UUID) (*types.ActiveMethod, methods.Resume, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type activeMethodService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	methodRepo       repos.StudyMethodRepo
	activeMethodRepo repos.ActiveMethodRepo
	notifications    NotificationService
}

func NewActiveMethodService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	methodRepo repos.StudyMethodRepo,
	activeMethodRepo repos.ActiveMethodRepo,
	notifications NotificationService,
) ActiveMethodService {
	serviceLog := log.With("service", "ActiveMethodService")
	return &activeMethodService{
		db:               db,
		log:              serviceLog,
		userRepo:         userRepo,
		methodRepo:       methodRepo,
		activeMethodRepo: activeMethodRepo,
		notifications:    notifications,
	}
}

func (ams *activeMethodService) Create(ctx context.Context, in CreateActiveMethodInput) (*types.ActiveMethod, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	users, uErr := ams.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if uErr != nil {
		return nil, fmt.Errorf("failed to load user: %w", uErr)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %w", apperr.ErrNotFound)
	}

	methodRows, mErr := ams.methodRepo.GetByIDs(ctx, nil, []uuid.UUID{in.MethodID})
	if mErr != nil {
		return nil, fmt.Errorf("failed to load method: %w", mErr)
	}
	if len(methodRows) == 0 {
		return nil, fmt.Errorf("method %w", apperr.ErrNotFound)
	}
	method := methodRows[0]

	methodType, rErr := methods.Resolve(method.Name)
	if rErr != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, rErr)
	}

	progress := 0
	if in.Progress != nil {
		if !methods.IsValidForCreation(methodType, in.Progress) {
			return nil, fmt.Errorf("%w: invalid progress for creation of %s", apperr.ErrInvalidArgument, methodType)
		}
		normalized, npErr := methods.NormalizeProgress(in.Progress)
		if npErr != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, npErr)
		}
		progress = normalized
	}

	status := methods.ExpectedStatus(methodType, progress)
	if in.Status != "" {
		if !methods.StatusMatches(methodType, progress, in.Status) {
			return nil, fmt.Errorf("%w: status %q does not match progress %d", apperr.ErrInvalidArgument, in.Status, progress)
		}
		status = methods.ExpectedStatus(methodType, progress)
	}

	now := time.Now()
	row := &types.ActiveMethod{
		ID:        uuid.New(),
		UserID:    userID,
		MethodID:  method.ID,
		Progress:  progress,
		Status:    status,
		StartedAt: now,
	}
	if _, cErr := ams.activeMethodRepo.Create(ctx, nil, []*types.ActiveMethod{row}); cErr != nil {
		return nil, fmt.Errorf("failed to create active method: %w", cErr)
	}

	// Reminder scheduling is best-effort: a failure here never rolls back the
	// already-persisted row.
	if progress < 100 {
		reminderAt := now.Add(pendingMethodReminderDelay)
		if reminderAt.After(time.Now()) {
			payload, _ := json.Marshal(map[string]any{
				"method_id":   method.ID,
				"method_name": method.Name,
				"progress":    progress,
			})
			if _, nErr := ams.notifications.CreateScheduled(ctx, userID, types.NotificationTypePendingMethod, "Método pendiente", payload, reminderAt); nErr != nil {
				ams.log.Warn("Failed to schedule pending-method reminder", "active_method_id", row.ID, "error", nErr)
			}
		} else {
			ams.log.Warn("Computed reminder time not in the future, skipping", "active_method_id", row.ID, "reminder_at", reminderAt)
		}
	}

	return row, nil
}

func (ams *activeMethodService) UpdateProgress(ctx context.Context, methodID uuid.UUID, in UpdateActiveMethodInput) (*types.ActiveMethod, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	row, gErr := ams.activeMethodRepo.GetByMethodAndUser(ctx, nil, methodID, userID)
	if gErr != nil {
		return nil, fmt.Errorf("failed to load active method: %w", gErr)
	}
	if row == nil {
		return nil, fmt.Errorf("active method %w", apperr.ErrNotFound)
	}

	methodType, rErr := ams.resolveRowType(ctx, row)
	if rErr != nil {
		return nil, rErr
	}

	if in.Progress != nil {
		if !methods.IsValidForUpdate(methodType, in.Progress) {
			return nil, fmt.Errorf("%w: invalid progress for update of %s", apperr.ErrInvalidArgument, methodType)
		}
		normalized, npErr := methods.NormalizeProgress(in.Progress)
		if npErr != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, npErr)
		}
		row.Progress = normalized
		row.Status = methods.ExpectedStatus(methodType, normalized)
	}

	if in.Finalize || row.Progress == 100 {
		// Finalize wins over any explicitly supplied lower progress.
		row.Progress = 100
		row.Status = methods.ExpectedStatus(methodType, 100)
		now := time.Now()
		row.FinishedAt = &now
	}

	if sErr := ams.activeMethodRepo.Save(ctx, nil, row); sErr != nil {
		return nil, fmt.Errorf("failed to save active method: %w", sErr)
	}
	return row, nil
}

func (ams *activeMethodService) List(ctx context.Context) ([]*types.ActiveMethod, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return ams.activeMethodRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
}

func (ams *activeMethodService) Resume(ctx context.Context, methodID uuid.UUID) (*types.ActiveMethod, methods.Resume, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, methods.Resume{}, err
	}

	row, gErr := ams.activeMethodRepo.GetByMethodAndUser(ctx, nil, methodID, userID)
	if gErr != nil {
		return nil, methods.Resume{}, fmt.Errorf("failed to load active method: %w", gErr)
	}
	if row == nil {
		return nil, methods.Resume{}, fmt.Errorf("active method %w", apperr.ErrNotFound)
	}

	methodType, rErr := ams.resolveRowType(ctx, row)
	if rErr != nil {
		return nil, methods.Resume{}, rErr
	}
	if !methods.IsValidForResume(methodType, row.Progress) {
		return nil, methods.Resume{}, fmt.Errorf("%w: progress %d is not a resumable point for %s", apperr.ErrInvalidArgument, row.Progress, methodType)
	}
	return row, methods.ResumeInfo(methodType, row.Progress), nil
}

func (ams *activeMethodService) Delete(ctx context.Context, id uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	affected, dErr := ams.activeMethodRepo.FullDeleteByIDAndUser(ctx, nil, id, userID)
	if dErr != nil {
		return fmt.Errorf("failed to delete active method: %w", dErr)
	}
	if affected == 0 {
		return fmt.Errorf("active method not found or not authorized: %w", apperr.ErrNotFound)
	}
	return nil
}

func (ams *activeMethodService) resolveRowType(ctx context.Context, row *types.ActiveMethod) (methods.MethodType, error) {
	name := ""
	if row.Method != nil {
		name = row.Method.Name
	} else {
		methodRows, err := ams.methodRepo.GetByIDs(ctx, nil, []uuid.UUID{row.MethodID})
		if err != nil {
			return "", fmt.Errorf("failed to load method: %w", err)
		}
		if len(methodRows) == 0 {
			return "", fmt.Errorf("method %w", apperr.ErrNotFound)
		}
		name = methodRows[0].Name
	}
	methodType, err := methods.Resolve(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
	}
	return methodType, nil
}
