package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/types"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ScheduledNotification) ([]*types.ScheduledNotification, error)
	GetByUserTypeAndTime(ctx context.Context, tx *gorm.DB, userID uuid.UUID, notifType string, scheduledAt time.Time) (*types.ScheduledNotification, error)
	GetDue(ctx context.Context, tx *gorm.DB, until time.Time) ([]*types.ScheduledNotification, error)
	MarkSent(ctx context.Context, tx *gorm.DB, id uuid.UUID, sentAt time.Time) error
	ListUpcomingByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from time.Time) ([]*types.ScheduledNotification, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	repoLog := baseLog.With("repo", "NotificationRepo")
	return &notificationRepo{db: db, log: repoLog}
}

func (nr *notificationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ScheduledNotification) ([]*types.ScheduledNotification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if len(rows) == 0 {
		return []*types.ScheduledNotification{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (nr *notificationRepo) GetByUserTypeAndTime(ctx context.Context, tx *gorm.DB, userID uuid.UUID, notifType string, scheduledAt time.Time) (*types.ScheduledNotification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.ScheduledNotification
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND type = ? AND scheduled_at = ?", userID, notifType, scheduledAt).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// GetDue returns unsent notifications whose scheduled time is at or before
// until. Callers pass now plus a small forward buffer so sends scheduled a
// few seconds ahead are not missed until the next sweep.
func (nr *notificationRepo) GetDue(ctx context.Context, tx *gorm.DB, until time.Time) ([]*types.ScheduledNotification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.ScheduledNotification
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("sent = ? AND scheduled_at <= ?", false, until).
		Order("scheduled_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *notificationRepo) MarkSent(ctx context.Context, tx *gorm.DB, id uuid.UUID, sentAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ScheduledNotification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"sent":    true,
			"sent_at": sentAt,
		}).Error
}

func (nr *notificationRepo) ListUpcomingByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from time.Time) ([]*types.ScheduledNotification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.ScheduledNotification
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND sent = ? AND scheduled_at >= ?", userID, false, from).
		Order("scheduled_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
