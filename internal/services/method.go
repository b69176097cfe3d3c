package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/apperr"
	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/methods"
	"github.com/focusup-app/focusup-backend/internal/normalization"
	"github.com/focusup-app/focusup-backend/internal/repos"
	"github.com/focusup-app/focusup-backend/internal/types"
)

type StudyMethodService interface {
	List(ctx context.Context) ([]*types.StudyMethod, error)
	Get(ctx context.Context, id uuid.UUID) (*types.StudyMethod, error)
	Create(ctx context.Context, name, description string, totalSteps int) (*types.StudyMethod, error)
	SeedDefaults(ctx context.Context) error
}

type studyMethodService struct {
	db         *gorm.DB
	log        *logger.Logger
	methodRepo repos.StudyMethodRepo
}

func NewStudyMethodService(db *gorm.DB, log *logger.Logger, methodRepo repos.StudyMethodRepo) StudyMethodService {
	serviceLog := log.With("service", "StudyMethodService")
	return &studyMethodService{db: db, log: serviceLog, methodRepo: methodRepo}
}

func (sms *studyMethodService) List(ctx context.Context) ([]*types.StudyMethod, error) {
	return sms.methodRepo.List(ctx, nil)
}

func (sms *studyMethodService) Get(ctx context.Context, id uuid.UUID) (*types.StudyMethod, error) {
	rows, err := sms.methodRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to load method: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("method %w", apperr.ErrNotFound)
	}
	return rows[0], nil
}

func (sms *studyMethodService) Create(ctx context.Context, name, description string, totalSteps int) (*types.StudyMethod, error) {
	if normalization.ParseInputString(name) == "" {
		return nil, fmt.Errorf("%w: method name is required", apperr.ErrInvalidArgument)
	}
	// The name must resolve to a registry entry so progress validation works.
	if _, err := methods.Resolve(name); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidArgument, err)
	}
	row := &types.StudyMethod{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		TotalSteps:  totalSteps,
	}
	if _, err := sms.methodRepo.Create(ctx, nil, []*types.StudyMethod{row}); err != nil {
		return nil, fmt.Errorf("failed to create method: %w", err)
	}
	return row, nil
}

// SeedDefaults inserts the built-in method catalog if missing. Idempotent.
func (sms *studyMethodService) SeedDefaults(ctx context.Context) error {
	defaults := []*types.StudyMethod{
		{Name: "Método Cornell", Description: "Toma de notas estructurada en columnas.", TotalSteps: 5},
		{Name: "Método Pomodoro", Description: "Ciclos de concentración con descansos.", TotalSteps: 4},
		{Name: "Técnica Feynman", Description: "Explica el concepto con tus propias palabras.", TotalSteps: 4},
		{Name: "Active Recall", Description: "Recupera la información sin mirar el material.", TotalSteps: 6},
		{Name: "Repaso Espaciado", Description: "Sesiones de repaso con intervalos crecientes.", TotalSteps: 5},
		{Name: "Mapa Mental", Description: "Organiza las ideas en un diagrama radial.", TotalSteps: 0},
	}

	names := make([]string, 0, len(defaults))
	for _, m := range defaults {
		names = append(names, m.Name)
	}

	return runInTx(ctx, sms.db, func(tx *gorm.DB) error {
		existing, err := sms.methodRepo.GetByNames(ctx, tx, names)
		if err != nil {
			return fmt.Errorf("failed to check existing methods: %w", err)
		}
		have := map[string]bool{}
		for _, m := range existing {
			have[m.Name] = true
		}
		missing := []*types.StudyMethod{}
		for _, m := range defaults {
			if !have[m.Name] {
				m.ID = uuid.New()
				missing = append(missing, m)
			}
		}
		if len(missing) == 0 {
			return nil
		}
		_, err = sms.methodRepo.Create(ctx, tx, missing)
		return err
	})
}
