package dispatcher

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/types"
)

type fakeNotificationRepo struct {
	rows []*types.ScheduledNotification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ScheduledNotification) ([]*types.ScheduledNotification, error) {
	f.rows = append(f.rows, rows...)
	return rows, nil
}

func (f *fakeNotificationRepo) GetByUserTypeAndTime(ctx context.Context, tx *gorm.DB, userID uuid.UUID, notifType string, scheduledAt time.Time) (*types.ScheduledNotification, error) {
	for _, r := range f.rows {
		if r.UserID == userID && r.Type == notifType && r.ScheduledAt.Equal(scheduledAt) {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationRepo) GetDue(ctx context.Context, tx *gorm.DB, until time.Time) ([]*types.ScheduledNotification, error) {
	var out []*types.ScheduledNotification
	for _, r := range f.rows {
		if !r.Sent && !r.ScheduledAt.After(until) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkSent(ctx context.Context, tx *gorm.DB, id uuid.UUID, sentAt time.Time) error {
	for _, r := range f.rows {
		if r.ID == id {
			r.Sent = true
			at := sentAt
			r.SentAt = &at
		}
	}
	return nil
}

func (f *fakeNotificationRepo) ListUpcomingByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from time.Time) ([]*types.ScheduledNotification, error) {
	return nil, nil
}

type fakeMail struct {
	sent []string
	err  error
}

func (f *fakeMail) Send(ctx context.Context, to, subject, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func dueRow(notifType string, message []byte) *types.ScheduledNotification {
	return &types.ScheduledNotification{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		User:        &types.User{ID: uuid.New(), Email: "ana@example.com", FirstName: "Ana"},
		Type:        notifType,
		Title:       "recordatorio",
		Message:     message,
		ScheduledAt: time.Now().Add(-time.Minute),
	}
}

func TestSweepDueSendsAndMarks(t *testing.T) {
	repo := &fakeNotificationRepo{}
	mail := &fakeMail{}
	d := New(logger.NewNop(), repo, nil, mail)

	row := dueRow(types.NotificationTypeEvent, []byte(`{"title":"Examen"}`))
	future := dueRow(types.NotificationTypeEvent, []byte(`{"title":"Luego"}`))
	future.ScheduledAt = time.Now().Add(time.Hour)
	repo.rows = append(repo.rows, row, future)

	if err := d.SweepDue(context.Background()); err != nil {
		t.Fatalf("SweepDue: %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(mail.sent))
	}
	if !row.Sent || row.SentAt == nil {
		t.Error("due row not marked sent")
	}
	if future.Sent {
		t.Error("future row must stay unsent")
	}
}

func TestSweepDueRetriesOnMailFailure(t *testing.T) {
	repo := &fakeNotificationRepo{}
	mail := &fakeMail{err: context.DeadlineExceeded}
	d := New(logger.NewNop(), repo, nil, mail)

	row := dueRow(types.NotificationTypeMotivation, []byte(`{"quote":"ánimo"}`))
	repo.rows = append(repo.rows, row)

	if err := d.SweepDue(context.Background()); err != nil {
		t.Fatalf("SweepDue: %v", err)
	}
	if row.Sent {
		t.Error("row marked sent although the mail failed")
	}

	// The next sweep picks it up again once mail recovers.
	mail.err = nil
	if err := d.SweepDue(context.Background()); err != nil {
		t.Fatalf("second SweepDue: %v", err)
	}
	if !row.Sent {
		t.Error("row not sent on retry")
	}
}

func TestSweepDueSkipsMalformedPendingMethod(t *testing.T) {
	repo := &fakeNotificationRepo{}
	mail := &fakeMail{}
	d := New(logger.NewNop(), repo, nil, mail)

	bad := dueRow(types.NotificationTypePendingMethod, []byte(`not json`))
	good := dueRow(types.NotificationTypePendingMethod, []byte(`{"method_name":"Método Cornell","progress":40}`))
	repo.rows = append(repo.rows, bad, good)

	if err := d.SweepDue(context.Background()); err != nil {
		t.Fatalf("SweepDue: %v", err)
	}
	if bad.Sent {
		t.Error("malformed row must not be marked sent")
	}
	if !good.Sent {
		t.Error("well-formed row should have been sent")
	}
	if len(mail.sent) != 1 {
		t.Errorf("mails sent = %d, want 1", len(mail.sent))
	}
}

func TestSweepDueEventFallsBackToPlainTitle(t *testing.T) {
	repo := &fakeNotificationRepo{}
	mail := &fakeMail{}
	d := New(logger.NewNop(), repo, nil, mail)

	// Unlike pending_method, an event row with a broken payload still mails
	// using the stored title.
	row := dueRow(types.NotificationTypeEvent, []byte(`not json`))
	repo.rows = append(repo.rows, row)

	if err := d.SweepDue(context.Background()); err != nil {
		t.Fatalf("SweepDue: %v", err)
	}
	if !row.Sent {
		t.Error("event row with broken payload should still send")
	}
}

func TestRenderEmailSubjects(t *testing.T) {
	cases := []struct {
		notifType string
		message   string
		subject   string
	}{
		{types.NotificationTypeEvent, `{"title":"Examen"}`, "Recordatorio de evento"},
		{types.NotificationTypePendingMethod, `{"method_name":"Método Cornell","progress":40}`, "Tienes un método pendiente"},
		{types.NotificationTypePendingSession, `{"elapsed":"01:02:05"}`, "Sesión sin terminar"},
		{types.NotificationTypeMotivation, `{"quote":"ánimo"}`, "Tu dosis semanal de motivación"},
	}
	for _, tc := range cases {
		row := dueRow(tc.notifType, []byte(tc.message))
		subject, body, err := renderEmail(row)
		if err != nil {
			t.Fatalf("renderEmail(%s): %v", tc.notifType, err)
		}
		if subject != tc.subject {
			t.Errorf("subject for %s = %q, want %q", tc.notifType, subject, tc.subject)
		}
		if body == "" {
			t.Errorf("empty body for %s", tc.notifType)
		}
	}
}
