package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/robfig/cron"

	"github.com/focusup-app/focusup-backend/internal/logger"
	"github.com/focusup-app/focusup-backend/internal/repos"
	"github.com/focusup-app/focusup-backend/internal/services"
	"github.com/focusup-app/focusup-backend/internal/types"
)

const (
	// sweepBuffer pulls in rows scheduled a few seconds past the sweep
	// instant, so a send due right after the tick is not pushed a full
	// minute out.
	sweepBuffer = 10 * time.Second

	sweepSpec = "@every 1m"
	dailySpec = "0 0 2 * * *"

	// staleSessionQuietFor marks a pending session as abandoned once a week
	// passes without any interaction.
	staleSessionQuietFor = 7 * 24 * time.Hour
)

// Dispatcher owns the scheduled-notification sweeps. A minutely sweep mails
// due rows and a daily sweep queues reminder rows for stale sessions and
// methods. Failed sends stay unsent and are retried on later sweeps.
type Dispatcher struct {
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	notifications    services.NotificationService
	mail             services.MailService
	cron             *cron.Cron
	now              func() time.Time
}

func New(
	log *logger.Logger,
	notificationRepo repos.NotificationRepo,
	notifications services.NotificationService,
	mail services.MailService,
) *Dispatcher {
	dispatcherLog := log.With("job", "Dispatcher")
	return &Dispatcher{
		log:              dispatcherLog,
		notificationRepo: notificationRepo,
		notifications:    notifications,
		mail:             mail,
		cron:             cron.New(),
		now:              time.Now,
	}
}

func (d *Dispatcher) Start() error {
	if err := d.cron.AddFunc(sweepSpec, func() {
		if err := d.SweepDue(context.Background()); err != nil {
			d.log.Error("Notification sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to register minutely sweep: %w", err)
	}
	if err := d.cron.AddFunc(dailySpec, func() {
		if err := d.DailySweep(context.Background()); err != nil {
			d.log.Error("Daily sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to register daily sweep: %w", err)
	}
	d.cron.Start()
	d.log.Info("Dispatcher started", "sweep", sweepSpec, "daily", dailySpec)
	return nil
}

func (d *Dispatcher) Stop() {
	d.cron.Stop()
}

// SweepDue mails every unsent notification that is due, marking each row sent
// only after its mail went out.
func (d *Dispatcher) SweepDue(ctx context.Context) error {
	now := d.now()
	due, err := d.notificationRepo.GetDue(ctx, nil, now.Add(sweepBuffer))
	if err != nil {
		return fmt.Errorf("failed to load due notifications: %w", err)
	}

	for _, n := range due {
		if n.User == nil || n.User.Email == "" {
			d.log.Warn("Due notification has no deliverable user, skipping", "notification_id", n.ID)
			continue
		}
		subject, body, rErr := renderEmail(n)
		if rErr != nil {
			// Malformed payloads are left alone rather than mailed half-broken.
			d.log.Warn("Failed to render notification, skipping", "notification_id", n.ID, "type", n.Type, "error", rErr)
			continue
		}
		if mErr := d.mail.Send(ctx, n.User.Email, subject, body); mErr != nil {
			d.log.Warn("Failed to send notification mail, will retry", "notification_id", n.ID, "error", mErr)
			continue
		}
		if msErr := d.notificationRepo.MarkSent(ctx, nil, n.ID, d.now()); msErr != nil {
			d.log.Error("Failed to mark notification sent", "notification_id", n.ID, "error", msErr)
		}
	}
	return nil
}

// DailySweep queues reminder rows for stale work. All queueing is
// deduplicated, so rerunning the sweep is harmless.
func (d *Dispatcher) DailySweep(ctx context.Context) error {
	sessions, err := d.notifications.ScheduleStaleSessionReminders(ctx, staleSessionQuietFor)
	if err != nil {
		return err
	}
	methods, err := d.notifications.SchedulePendingMethodReminders(ctx)
	if err != nil {
		return err
	}
	motivation, err := d.notifications.ScheduleWeeklyMotivation(ctx)
	if err != nil {
		return err
	}
	d.log.Info("Daily sweep done", "stale_sessions", sessions, "pending_methods", methods, "motivation", motivation)
	return nil
}

var (
	eventTemplate = template.Must(template.New("event").Parse(
		`<p>Hola {{.Name}},</p><p>Recordatorio: <strong>{{.Title}}</strong> empieza pronto.</p>`))
	pendingMethodTemplate = template.Must(template.New("pending_method").Parse(
		`<p>Hola {{.Name}},</p><p>Dejaste <strong>{{.MethodName}}</strong> en {{.Progress}}%. ¡Retómalo cuando quieras!</p>`))
	pendingSessionTemplate = template.Must(template.New("pending_session").Parse(
		`<p>Hola {{.Name}},</p><p>Tienes una sesión de estudio sin terminar ({{.Elapsed}}).</p>`))
	motivationTemplate = template.Must(template.New("motivation").Parse(
		`<p>Hola {{.Name}},</p><p>{{.Quote}}</p>`))
	genericTemplate = template.Must(template.New("generic").Parse(
		`<p>Hola {{.Name}},</p><p>{{.Title}}</p>`))
)

func renderEmail(n *types.ScheduledNotification) (string, string, error) {
	name := ""
	if n.User != nil {
		name = n.User.FirstName
	}

	switch n.Type {
	case types.NotificationTypeEvent:
		var payload struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(n.Message, &payload); err != nil || payload.Title == "" {
			// Fall back to the stored title.
			payload.Title = n.Title
		}
		body, err := render(eventTemplate, map[string]any{"Name": name, "Title": payload.Title})
		return "Recordatorio de evento", body, err

	case types.NotificationTypePendingMethod:
		// This payload is machine-written; a parse failure means the row is
		// corrupt and there is nothing sensible to mail.
		var payload struct {
			MethodName string `json:"method_name"`
			Progress   int    `json:"progress"`
		}
		if err := json.Unmarshal(n.Message, &payload); err != nil {
			return "", "", fmt.Errorf("malformed pending_method payload: %w", err)
		}
		body, err := render(pendingMethodTemplate, map[string]any{
			"Name":       name,
			"MethodName": payload.MethodName,
			"Progress":   payload.Progress,
		})
		return "Tienes un método pendiente", body, err

	case types.NotificationTypePendingSession:
		var payload struct {
			Elapsed string `json:"elapsed"`
		}
		if err := json.Unmarshal(n.Message, &payload); err != nil {
			payload.Elapsed = "00:00:00"
		}
		body, err := render(pendingSessionTemplate, map[string]any{"Name": name, "Elapsed": payload.Elapsed})
		return "Sesión sin terminar", body, err

	case types.NotificationTypeMotivation:
		var payload struct {
			Quote string `json:"quote"`
		}
		if err := json.Unmarshal(n.Message, &payload); err != nil || payload.Quote == "" {
			payload.Quote = n.Title
		}
		body, err := render(motivationTemplate, map[string]any{"Name": name, "Quote": payload.Quote})
		return "Tu dosis semanal de motivación", body, err

	default:
		body, err := render(genericTemplate, map[string]any{"Name": name, "Title": n.Title})
		return n.Title, body, err
	}
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
