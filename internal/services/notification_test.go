package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/types"
)

func newNotificationFixture() (*notificationService, *fakeUserRepo, *fakeEventRepo, *fakeSessionRepo, *fakeActiveMethodRepo, *fakeNotificationRepo) {
	userRepo := &fakeUserRepo{}
	eventRepo := &fakeEventRepo{}
	sessionRepo := &fakeSessionRepo{}
	activeMethodRepo := &fakeActiveMethodRepo{}
	notificationRepo := &fakeNotificationRepo{}
	svc := NewNotificationService(nil, logger.NewNop(), userRepo, eventRepo, sessionRepo, activeMethodRepo, notificationRepo).(*notificationService)
	return svc, userRepo, eventRepo, sessionRepo, activeMethodRepo, notificationRepo
}

func seedVerifiedUser(userRepo *fakeUserRepo) uuid.UUID {
	user := &types.User{ID: uuid.New(), Email: "ana@example.com", EmailVerified: true}
	userRepo.users = append(userRepo.users, user)
	return user.ID
}

func TestCreateScheduledWindow(t *testing.T) {
	svc, userRepo, _, _, _, _ := newNotificationFixture()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	userID := seedVerifiedUser(userRepo)

	if _, err := svc.CreateScheduled(context.Background(), userID, "", "t", nil, now.Add(time.Hour)); err == nil {
		t.Error("expected error for empty type")
	}
	if _, err := svc.CreateScheduled(context.Background(), uuid.New(), types.NotificationTypeEvent, "t", nil, now.Add(time.Hour)); err == nil {
		t.Error("expected error for unknown user")
	}
	if _, err := svc.CreateScheduled(context.Background(), userID, types.NotificationTypeEvent, "t", nil, now); err == nil {
		t.Error("expected error scheduling exactly at now")
	}
	if _, err := svc.CreateScheduled(context.Background(), userID, types.NotificationTypeEvent, "t", nil, now.Add(-time.Minute)); err == nil {
		t.Error("expected error scheduling in the past")
	}
	if _, err := svc.CreateScheduled(context.Background(), userID, types.NotificationTypeEvent, "t", nil, now.AddDate(0, 0, 400)); err == nil {
		t.Error("expected error scheduling more than a year out")
	}
	if _, err := svc.CreateScheduled(context.Background(), userID, types.NotificationTypeEvent, "t", nil, now.Add(time.Hour)); err != nil {
		t.Errorf("scheduling an hour out: %v", err)
	}
}

func TestCreateScheduledDeduplicates(t *testing.T) {
	svc, userRepo, _, _, _, notificationRepo := newNotificationFixture()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	userID := seedVerifiedUser(userRepo)
	at := now.Add(2 * time.Hour)

	first, err := svc.CreateScheduled(context.Background(), userID, types.NotificationTypePendingMethod, "t", nil, at)
	if err != nil {
		t.Fatalf("first CreateScheduled: %v", err)
	}
	second, err := svc.CreateScheduled(context.Background(), userID, types.NotificationTypePendingMethod, "t", nil, at)
	if err != nil {
		t.Fatalf("second CreateScheduled: %v", err)
	}
	if first.ID != second.ID {
		t.Error("expected duplicate schedule to return the existing row")
	}
	if len(notificationRepo.rows) != 1 {
		t.Errorf("stored rows = %d, want 1", len(notificationRepo.rows))
	}

	// A different type at the same instant is its own row.
	if _, err := svc.CreateScheduled(context.Background(), userID, types.NotificationTypeEvent, "t", nil, at); err != nil {
		t.Fatalf("different type: %v", err)
	}
	if len(notificationRepo.rows) != 2 {
		t.Errorf("stored rows = %d, want 2", len(notificationRepo.rows))
	}
}

func TestScheduleEventReminderSameDay(t *testing.T) {
	svc, userRepo, _, _, _, _ := newNotificationFixture()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	event := &types.Event{
		ID:       uuid.New(),
		UserID:   seedVerifiedUser(userRepo),
		Title:    "Examen parcial",
		StartsAt: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
	}
	row, err := svc.ScheduleEventReminder(context.Background(), event)
	if err != nil {
		t.Fatalf("ScheduleEventReminder: %v", err)
	}
	if !row.ScheduledAt.Equal(event.StartsAt) {
		t.Errorf("same-day reminder at %v, want event time %v", row.ScheduledAt, event.StartsAt)
	}
}

func TestScheduleEventReminderFutureDay(t *testing.T) {
	svc, userRepo, _, _, _, _ := newNotificationFixture()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	event := &types.Event{
		ID:       uuid.New(),
		UserID:   seedVerifiedUser(userRepo),
		Title:    "Entrega de proyecto",
		StartsAt: time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC),
	}
	row, err := svc.ScheduleEventReminder(context.Background(), event)
	if err != nil {
		t.Fatalf("ScheduleEventReminder: %v", err)
	}
	want := event.StartsAt.Add(-10 * time.Minute)
	if !row.ScheduledAt.Equal(want) {
		t.Errorf("future-day reminder at %v, want %v", row.ScheduledAt, want)
	}
}

func TestScheduleEventReminderSkipsPast(t *testing.T) {
	svc, _, _, _, _, notificationRepo := newNotificationFixture()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	event := &types.Event{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Title:    "Ya pasó",
		StartsAt: now.Add(-time.Hour),
	}
	row, err := svc.ScheduleEventReminder(context.Background(), event)
	if err != nil {
		t.Fatalf("ScheduleEventReminder: %v", err)
	}
	if row != nil {
		t.Error("expected no reminder for a past event")
	}
	if len(notificationRepo.rows) != 0 {
		t.Error("expected nothing stored for a past event")
	}
}

func TestUpcomingForUserMergesEventReminders(t *testing.T) {
	svc, userRepo, eventRepo, _, _, notificationRepo := newNotificationFixture()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	userID := seedVerifiedUser(userRepo)
	notificationRepo.rows = append(notificationRepo.rows, &types.ScheduledNotification{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        types.NotificationTypeMotivation,
		ScheduledAt: now.Add(48 * time.Hour),
	})
	eventRepo.events = append(eventRepo.events, &types.Event{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    "Sesión de tarde",
		Status:   types.EventStatusPending,
		StartsAt: now.Add(5 * time.Hour),
	})

	list, err := svc.UpcomingForUser(ctxForUser(userID))
	if err != nil {
		t.Fatalf("UpcomingForUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d upcoming entries, want 2", len(list))
	}
	// The event reminder was also persisted alongside the motivation row.
	if len(notificationRepo.rows) != 2 {
		t.Errorf("stored rows = %d, want 2", len(notificationRepo.rows))
	}
}

func TestSchedulePendingMethodReminders(t *testing.T) {
	svc, userRepo, _, _, activeMethodRepo, notificationRepo := newNotificationFixture()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stale := &types.ActiveMethod{
		ID:       uuid.New(),
		UserID:   seedVerifiedUser(userRepo),
		MethodID: uuid.New(),
		Progress: 40,
	}
	stale.CreatedAt = now.Add(-8 * 24 * time.Hour)
	fresh := &types.ActiveMethod{
		ID:       uuid.New(),
		UserID:   seedVerifiedUser(userRepo),
		MethodID: uuid.New(),
		Progress: 20,
	}
	fresh.CreatedAt = now.Add(-time.Hour)
	activeMethodRepo.rows = append(activeMethodRepo.rows, stale, fresh)

	scheduled, err := svc.SchedulePendingMethodReminders(context.Background())
	if err != nil {
		t.Fatalf("SchedulePendingMethodReminders: %v", err)
	}
	if scheduled != 1 {
		t.Errorf("scheduled %d reminders, want 1", scheduled)
	}
	if len(notificationRepo.rows) != 1 {
		t.Fatalf("stored rows = %d, want 1", len(notificationRepo.rows))
	}
	row := notificationRepo.rows[0]
	if row.Type != types.NotificationTypePendingMethod {
		t.Errorf("type = %q, want pending_method", row.Type)
	}
	if !row.ScheduledAt.Equal(now.Add(time.Hour)) {
		t.Errorf("reminder at %v, want an hour out", row.ScheduledAt)
	}
}

func TestScheduleWeeklyMotivationOnlyOptIns(t *testing.T) {
	svc, userRepo, _, _, _, notificationRepo := newNotificationFixture()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	optedIn := &types.User{ID: uuid.New(), Email: "a@example.com", MotivationOptIn: true}
	optedOut := &types.User{ID: uuid.New(), Email: "b@example.com"}
	userRepo.users = append(userRepo.users, optedIn, optedOut)

	scheduled, err := svc.ScheduleWeeklyMotivation(context.Background())
	if err != nil {
		t.Fatalf("ScheduleWeeklyMotivation: %v", err)
	}
	if scheduled != 1 {
		t.Errorf("scheduled %d, want 1", scheduled)
	}
	if len(notificationRepo.rows) != 1 {
		t.Fatalf("stored rows = %d, want 1", len(notificationRepo.rows))
	}
	row := notificationRepo.rows[0]
	if row.UserID != optedIn.ID {
		t.Error("motivation scheduled for the wrong user")
	}
	want := now.Add(7 * 24 * time.Hour)
	if !row.ScheduledAt.Equal(want) {
		t.Errorf("scheduled at %v, want %v", row.ScheduledAt, want)
	}
}

func TestScheduleStaleSessionReminders(t *testing.T) {
	svc, userRepo, _, sessionRepo, _, notificationRepo := newNotificationFixture()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	quiet := now.Add(-48 * time.Hour)
	active := now.Add(-time.Hour)
	sessionRepo.sessions = append(sessionRepo.sessions,
		&types.Session{ID: uuid.New(), UserID: seedVerifiedUser(userRepo), Status: types.SessionStatusPending, LastInteractionAt: &quiet},
		&types.Session{ID: uuid.New(), UserID: seedVerifiedUser(userRepo), Status: types.SessionStatusPending, LastInteractionAt: &active},
		&types.Session{ID: uuid.New(), UserID: seedVerifiedUser(userRepo), Status: types.SessionStatusCompleted, LastInteractionAt: &quiet},
	)

	scheduled, err := svc.ScheduleStaleSessionReminders(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("ScheduleStaleSessionReminders: %v", err)
	}
	if scheduled != 1 {
		t.Errorf("scheduled %d, want 1", scheduled)
	}
	if len(notificationRepo.rows) != 1 {
		t.Fatalf("stored rows = %d, want 1", len(notificationRepo.rows))
	}
	if notificationRepo.rows[0].Type != types.NotificationTypePendingSession {
		t.Errorf("type = %q, want pending_session", notificationRepo.rows[0].Type)
	}
}
