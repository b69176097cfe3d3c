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
	"github.com/focusup-app/focusup-backend/internal/repos"
	"github.com/focusup-app/focusup-backend/internal/types"
)

const (
	// maxScheduleAhead bounds how far in the future a notification may be
	// scheduled. Anything beyond a year is almost certainly a bad timestamp.
	maxScheduleAhead = 365 * 24 * time.Hour

	// eventReminderLead is how far before a future-day event its reminder
	// fires. Same-day events are reminded at the event time itself.
	eventReminderLead = 10 * time.Minute

	// staleSessionReminderDelay offsets the reminder for sessions that went
	// quiet, so the daily sweep does not mail everyone at the same instant
	// it runs.
	staleSessionReminderDelay = time.Hour

	// motivationLeadTime is how far out the weekly motivation message is
	// scheduled each time the sweep runs.
	motivationLeadTime = 7 * 24 * time.Hour
)

var motivationQuotes = []string{
	"Cada sesión de estudio te acerca a tu meta.",
	"La constancia vence al talento cuando el talento no es constante.",
	"Hoy es un buen día para aprender algo nuevo.",
	"Un paso pequeño cada día construye resultados grandes.",
	"Tu concentración es un músculo, entrénala.",
	"No tienes que ser perfecto, solo persistente.",
}

type NotificationService interface {
	CreateScheduled(ctx context.Context, userID uuid.UUID, notifType, title string, message []byte, at time.Time) (*types.ScheduledNotification, error)
	ScheduleEventReminder(ctx context.Context, event *types.Event) (*types.ScheduledNotification, error)
	UpcomingForUser(ctx context.Context) ([]*types.ScheduledNotification, error)
	SchedulePendingMethodReminders(ctx context.Context) (int, error)
	ScheduleStaleSessionReminders(ctx context.Context, quietFor time.Duration) (int, error)
	ScheduleWeeklyMotivation(ctx context.Context) (int, error)
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	eventRepo        repos.EventRepo
	sessionRepo      repos.SessionRepo
	activeMethodRepo repos.ActiveMethodRepo
	notificationRepo repos.NotificationRepo
	now              func() time.Time
}

func NewNotificationService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	eventRepo repos.EventRepo,
	sessionRepo repos.SessionRepo,
	activeMethodRepo repos.ActiveMethodRepo,
	notificationRepo repos.NotificationRepo,
) NotificationService {
	serviceLog := log.With("service", "NotificationService")
	return &notificationService{
		db:               db,
		log:              serviceLog,
		userRepo:         userRepo,
		eventRepo:        eventRepo,
		sessionRepo:      sessionRepo,
		activeMethodRepo: activeMethodRepo,
		notificationRepo: notificationRepo,
		now:              time.Now,
	}
}

// CreateScheduled persists a future send after validating the scheduling
// window and deduplicating on (user, type, time). When an identical row
// already exists it is returned unchanged instead of inserting a twin.
func (ns *notificationService) CreateScheduled(ctx context.Context, userID uuid.UUID, notifType, title string, message []byte, at time.Time) (*types.ScheduledNotification, error) {
	if notifType == "" {
		return nil, fmt.Errorf("%w: notification type is required", apperr.ErrInvalidArgument)
	}
	now := ns.now()
	if !at.After(now) {
		return nil, fmt.Errorf("%w: scheduled time must be in the future", apperr.ErrInvalidArgument)
	}
	if at.After(now.Add(maxScheduleAhead)) {
		return nil, fmt.Errorf("%w: scheduled time is more than a year ahead", apperr.ErrInvalidArgument)
	}

	users, uErr := ns.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if uErr != nil {
		return nil, fmt.Errorf("failed to load user: %w", uErr)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %w", apperr.ErrNotFound)
	}

	existing, lErr := ns.notificationRepo.GetByUserTypeAndTime(ctx, nil, userID, notifType, at)
	if lErr != nil {
		return nil, fmt.Errorf("failed to check for duplicate notification: %w", lErr)
	}
	if existing != nil {
		return existing, nil
	}

	row := &types.ScheduledNotification{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		ScheduledAt: at,
	}
	if _, cErr := ns.notificationRepo.Create(ctx, nil, []*types.ScheduledNotification{row}); cErr != nil {
		return nil, fmt.Errorf("failed to create scheduled notification: %w", cErr)
	}
	return row, nil
}

// ScheduleEventReminder picks the reminder time for an event and persists it.
// Same-day events fire at the event time; events on a later day fire ten
// minutes early. Events whose reminder time already passed are skipped.
func (ns *notificationService) ScheduleEventReminder(ctx context.Context, event *types.Event) (*types.ScheduledNotification, error) {
	now := ns.now()
	reminderAt := eventReminderTime(now, event.StartsAt)
	if !reminderAt.After(now) {
		ns.log.Warn("Event reminder time already passed, skipping", "event_id", event.ID, "reminder_at", reminderAt)
		return nil, nil
	}

	payload, _ := json.Marshal(map[string]any{
		"event_id":  event.ID,
		"title":     event.Title,
		"starts_at": event.StartsAt,
	})
	return ns.CreateScheduled(ctx, event.UserID, types.NotificationTypeEvent, event.Title, payload, reminderAt)
}

// UpcomingForUser merges stored unsent notifications with reminder entries
// computed on the fly from the user's pending events. The computed entries
// are a read-model only, they are never written back.
func (ns *notificationService) UpcomingForUser(ctx context.Context) ([]*types.ScheduledNotification, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	now := ns.now()

	stored, sErr := ns.notificationRepo.ListUpcomingByUser(ctx, nil, userID, now)
	if sErr != nil {
		return nil, fmt.Errorf("failed to list scheduled notifications: %w", sErr)
	}

	events, eErr := ns.eventRepo.ListPendingByUser(ctx, nil, userID)
	if eErr != nil {
		return nil, fmt.Errorf("failed to list pending events: %w", eErr)
	}

	results := stored
	for _, event := range events {
		reminderAt := eventReminderTime(now, event.StartsAt)
		if !reminderAt.After(now) {
			continue
		}
		payload, _ := json.Marshal(map[string]any{
			"event_id":  event.ID,
			"title":     event.Title,
			"starts_at": event.StartsAt,
		})
		// The stored row and the response entry are produced independently.
		// A persistence failure is logged but the entry is still returned.
		if _, cErr := ns.CreateScheduled(ctx, userID, types.NotificationTypeEvent, event.Title, payload, reminderAt); cErr != nil {
			ns.log.Warn("Failed to persist event reminder", "event_id", event.ID, "error", cErr)
		}
		results = append(results, &types.ScheduledNotification{
			UserID:      userID,
			Type:        types.NotificationTypeEvent,
			Title:       event.Title,
			Message:     payload,
			ScheduledAt: reminderAt,
		})
	}
	return results, nil
}

// SchedulePendingMethodReminders scans for method runs that sat unfinished
// for a week or more and schedules a nudge an hour out for each. Returns the
// number of reminders scheduled.
func (ns *notificationService) SchedulePendingMethodReminders(ctx context.Context) (int, error) {
	now := ns.now()
	stale, err := ns.activeMethodRepo.GetStalePending(ctx, nil, now.Add(-pendingMethodReminderDelay))
	if err != nil {
		return 0, fmt.Errorf("failed to load stale active methods: %w", err)
	}

	scheduled := 0
	reminderAt := now.Add(time.Hour)
	for _, row := range stale {
		name := ""
		if row.Method != nil {
			name = row.Method.Name
		}
		payload, _ := json.Marshal(map[string]any{
			"method_id":   row.MethodID,
			"method_name": name,
			"progress":    row.Progress,
		})
		if _, cErr := ns.CreateScheduled(ctx, row.UserID, types.NotificationTypePendingMethod, "Método pendiente", payload, reminderAt); cErr != nil {
			ns.log.Warn("Failed to schedule pending-method reminder", "active_method_id", row.ID, "error", cErr)
			continue
		}
		scheduled++
	}
	return scheduled, nil
}

// ScheduleStaleSessionReminders nudges users whose sessions have had no
// interaction for quietFor. Returns the number of reminders scheduled.
func (ns *notificationService) ScheduleStaleSessionReminders(ctx context.Context, quietFor time.Duration) (int, error) {
	now := ns.now()
	sessions, err := ns.sessionRepo.GetPendingOlderThan(ctx, nil, now.Add(-quietFor))
	if err != nil {
		return 0, fmt.Errorf("failed to load stale sessions: %w", err)
	}

	scheduled := 0
	reminderAt := now.Add(staleSessionReminderDelay)
	for _, session := range sessions {
		payload, _ := json.Marshal(map[string]any{
			"session_id": session.ID,
			"elapsed":    session.Elapsed,
		})
		if _, cErr := ns.CreateScheduled(ctx, session.UserID, types.NotificationTypePendingSession, "Sesión sin terminar", payload, reminderAt); cErr != nil {
			ns.log.Warn("Failed to schedule stale-session reminder", "session_id", session.ID, "error", cErr)
			continue
		}
		scheduled++
	}
	return scheduled, nil
}

// ScheduleWeeklyMotivation queues a quote a week out for every opted-in
// user. The quote rotates with the ISO week number so everyone sees the same
// one in a given week. Returns the number of notifications scheduled.
func (ns *notificationService) ScheduleWeeklyMotivation(ctx context.Context) (int, error) {
	users, err := ns.userRepo.GetMotivationOptIns(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to load opted-in users: %w", err)
	}

	now := ns.now()
	sendAt := now.Add(motivationLeadTime)
	_, week := sendAt.ISOWeek()
	quote := motivationQuotes[week%len(motivationQuotes)]
	payload, _ := json.Marshal(map[string]any{"quote": quote})

	scheduled := 0
	for _, user := range users {
		if _, cErr := ns.CreateScheduled(ctx, user.ID, types.NotificationTypeMotivation, "Tu dosis semanal de motivación", payload, sendAt); cErr != nil {
			ns.log.Warn("Failed to schedule motivation message", "user_id", user.ID, "error", cErr)
			continue
		}
		scheduled++
	}
	return scheduled, nil
}

func eventReminderTime(now, startsAt time.Time) time.Time {
	if sameDay(now, startsAt) {
		return startsAt
	}
	return startsAt.Add(-eventReminderLead)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

