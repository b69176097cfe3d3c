package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/focusup-app/focusup-backend/internal/requestdata"
	"github.com/focusup-app/focusup-backend/internal/types"
)

func ctxForUser(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
}

type fakeUserRepo struct {
	users []*types.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	f.users = append(f.users, users...)
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, e := range emails {
			if u.Email == e {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdateName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, firstName, lastName string) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.FirstName = firstName
			u.LastName = lastName
		}
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, tx *gorm.DB, userID uuid.UUID, passwordHash string) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.Password = passwordHash
		}
	}
	return nil
}

func (f *fakeUserRepo) SetEmailVerified(ctx context.Context, tx *gorm.DB, userID uuid.UUID, verified bool) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.EmailVerified = verified
		}
	}
	return nil
}

func (f *fakeUserRepo) SetMotivationOptIn(ctx context.Context, tx *gorm.DB, userID uuid.UUID, optIn bool) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.MotivationOptIn = optIn
		}
	}
	return nil
}

func (f *fakeUserRepo) GetMotivationOptIns(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		if u.MotivationOptIn {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeUserTokenRepo struct {
	tokens []*types.UserToken
}

func (f *fakeUserTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) ([]*types.UserToken, error) {
	f.tokens = append(f.tokens, tokens...)
	return tokens, nil
}

func (f *fakeUserTokenRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, t := range f.tokens {
		for _, id := range ids {
			if t.UserID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeUserTokenRepo) GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, t := range f.tokens {
		for _, at := range accessTokens {
			if t.AccessToken == at {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeUserTokenRepo) GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, t := range f.tokens {
		for _, rt := range refreshTokens {
			if t.RefreshToken == rt {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeUserTokenRepo) FullDeleteByTokens(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) error {
	kept := f.tokens[:0]
	for _, t := range f.tokens {
		drop := false
		for _, d := range tokens {
			if t.ID == d.ID {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, t)
		}
	}
	f.tokens = kept
	return nil
}

type fakeVerificationTokenRepo struct {
	tokens []*types.VerificationToken
}

func (f *fakeVerificationTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.VerificationToken) ([]*types.VerificationToken, error) {
	f.tokens = append(f.tokens, tokens...)
	return tokens, nil
}

func (f *fakeVerificationTokenRepo) GetByToken(ctx context.Context, tx *gorm.DB, token string) (*types.VerificationToken, error) {
	for _, t := range f.tokens {
		if t.Token == token {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeVerificationTokenRepo) MarkUsed(ctx context.Context, tx *gorm.DB, tokenID uuid.UUID, usedAt time.Time) error {
	for _, t := range f.tokens {
		if t.ID == tokenID {
			at := usedAt
			t.UsedAt = &at
		}
	}
	return nil
}

func (f *fakeVerificationTokenRepo) FullDeleteByUserAndPurpose(ctx context.Context, tx *gorm.DB, userID uuid.UUID, purpose string) error {
	kept := f.tokens[:0]
	for _, t := range f.tokens {
		if t.UserID == userID && t.Purpose == purpose {
			continue
		}
		kept = append(kept, t)
	}
	f.tokens = kept
	return nil
}

type fakeStudyMethodRepo struct {
	methods []*types.StudyMethod
}

func (f *fakeStudyMethodRepo) Create(ctx context.Context, tx *gorm.DB, methods []*types.StudyMethod) ([]*types.StudyMethod, error) {
	f.methods = append(f.methods, methods...)
	return methods, nil
}

func (f *fakeStudyMethodRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StudyMethod, error) {
	var out []*types.StudyMethod
	for _, m := range f.methods {
		for _, id := range ids {
			if m.ID == id {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (f *fakeStudyMethodRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.StudyMethod, error) {
	var out []*types.StudyMethod
	for _, m := range f.methods {
		for _, n := range names {
			if m.Name == n {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (f *fakeStudyMethodRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.StudyMethod, error) {
	return f.methods, nil
}

func (f *fakeStudyMethodRepo) Update(ctx context.Context, tx *gorm.DB, method *types.StudyMethod) error {
	for i, m := range f.methods {
		if m.ID == method.ID {
			f.methods[i] = method
		}
	}
	return nil
}

func (f *fakeStudyMethodRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	kept := f.methods[:0]
	for _, m := range f.methods {
		drop := false
		for _, id := range ids {
			if m.ID == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, m)
		}
	}
	f.methods = kept
	return nil
}

type fakeActiveMethodRepo struct {
	rows []*types.ActiveMethod
}

func (f *fakeActiveMethodRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ActiveMethod) ([]*types.ActiveMethod, error) {
	f.rows = append(f.rows, rows...)
	return rows, nil
}

func (f *fakeActiveMethodRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ActiveMethod, error) {
	var out []*types.ActiveMethod
	for _, r := range f.rows {
		for _, id := range ids {
			if r.ID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeActiveMethodRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ActiveMethod, error) {
	var out []*types.ActiveMethod
	for _, r := range f.rows {
		for _, id := range ids {
			if r.UserID == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (f *fakeActiveMethodRepo) GetByMethodAndUser(ctx context.Context, tx *gorm.DB, methodID, userID uuid.UUID) (*types.ActiveMethod, error) {
	for _, r := range f.rows {
		if r.MethodID == methodID && r.UserID == userID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeActiveMethodRepo) Save(ctx context.Context, tx *gorm.DB, row *types.ActiveMethod) error {
	for i, r := range f.rows {
		if r.ID == row.ID {
			f.rows[i] = row
			return nil
		}
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeActiveMethodRepo) FullDeleteByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (int64, error) {
	kept := f.rows[:0]
	var deleted int64
	for _, r := range f.rows {
		if r.ID == id && r.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return deleted, nil
}

func (f *fakeActiveMethodRepo) GetStalePending(ctx context.Context, tx *gorm.DB, createdBefore time.Time) ([]*types.ActiveMethod, error) {
	var out []*types.ActiveMethod
	for _, r := range f.rows {
		if r.Progress < 100 && !r.CreatedAt.After(createdBefore) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeEventRepo struct {
	events []*types.Event
}

func (f *fakeEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.Event) ([]*types.Event, error) {
	f.events = append(f.events, events...)
	return events, nil
}

func (f *fakeEventRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Event, error) {
	var out []*types.Event
	for _, e := range f.events {
		for _, id := range ids {
			if e.ID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (f *fakeEventRepo) GetByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Event, error) {
	for _, e := range f.events {
		if e.ID == id && e.UserID == userID {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEventRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Event, error) {
	var out []*types.Event
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListPendingByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Event, error) {
	var out []*types.Event
	for _, e := range f.events {
		if e.UserID == userID && e.Status == types.EventStatusPending {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Save(ctx context.Context, tx *gorm.DB, event *types.Event) error {
	for i, e := range f.events {
		if e.ID == event.ID {
			f.events[i] = event
			return nil
		}
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	for _, e := range f.events {
		if e.ID == id {
			e.Status = status
		}
	}
	return nil
}

func (f *fakeEventRepo) FullDeleteByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (int64, error) {
	kept := f.events[:0]
	var deleted int64
	for _, e := range f.events {
		if e.ID == id && e.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	f.events = kept
	return deleted, nil
}

type fakeSessionRepo struct {
	sessions []*types.Session
}

func (f *fakeSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.Session) ([]*types.Session, error) {
	f.sessions = append(f.sessions, sessions...)
	return sessions, nil
}

func (f *fakeSessionRepo) GetByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Session, error) {
	for _, s := range f.sessions {
		if s.ID == id && s.UserID == userID {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) GetByEventAndUser(ctx context.Context, tx *gorm.DB, eventID, userID uuid.UUID) (*types.Session, error) {
	for _, s := range f.sessions {
		if s.EventID != nil && *s.EventID == eventID && s.UserID == userID {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) Save(ctx context.Context, tx *gorm.DB, session *types.Session) error {
	for i, s := range f.sessions {
		if s.ID == session.ID {
			f.sessions[i] = session
			return nil
		}
	}
	f.sessions = append(f.sessions, session)
	return nil
}

func (f *fakeSessionRepo) ListByUserPaginated(ctx context.Context, tx *gorm.DB, userID uuid.UUID, page, perPage int) ([]*types.Session, int64, error) {
	var all []*types.Session
	for _, s := range f.sessions {
		if s.UserID == userID {
			all = append(all, s)
		}
	}
	total := int64(len(all))
	start := (page - 1) * perPage
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeSessionRepo) GetPendingOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*types.Session, error) {
	var out []*types.Session
	for _, s := range f.sessions {
		if s.Status != types.SessionStatusPending {
			continue
		}
		last := s.UpdatedAt
		if s.LastInteractionAt != nil {
			last = *s.LastInteractionAt
		}
		if last.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) FullDeleteByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (int64, error) {
	kept := f.sessions[:0]
	var deleted int64
	for _, s := range f.sessions {
		if s.ID == id && s.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	f.sessions = kept
	return deleted, nil
}

type fakeAlbumRepo struct {
	albums []*types.Album
	tracks []*types.Track
}

func (f *fakeAlbumRepo) Create(ctx context.Context, tx *gorm.DB, albums []*types.Album) ([]*types.Album, error) {
	f.albums = append(f.albums, albums...)
	return albums, nil
}

func (f *fakeAlbumRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Album, error) {
	var out []*types.Album
	for _, a := range f.albums {
		for _, id := range ids {
			if a.ID == id {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (f *fakeAlbumRepo) GetByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Album, error) {
	for _, a := range f.albums {
		if a.ID == id && a.UserID == userID {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAlbumRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Album, error) {
	var out []*types.Album
	for _, a := range f.albums {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAlbumRepo) Save(ctx context.Context, tx *gorm.DB, album *types.Album) error {
	for i, a := range f.albums {
		if a.ID == album.ID {
			f.albums[i] = album
			return nil
		}
	}
	f.albums = append(f.albums, album)
	return nil
}

func (f *fakeAlbumRepo) FullDeleteByIDAndUser(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (int64, error) {
	kept := f.albums[:0]
	var deleted int64
	for _, a := range f.albums {
		if a.ID == id && a.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	f.albums = kept
	return deleted, nil
}

func (f *fakeAlbumRepo) AddTracks(ctx context.Context, tx *gorm.DB, tracks []*types.Track) ([]*types.Track, error) {
	f.tracks = append(f.tracks, tracks...)
	return tracks, nil
}

func (f *fakeAlbumRepo) FullDeleteTrack(ctx context.Context, tx *gorm.DB, trackID, albumID uuid.UUID) (int64, error) {
	kept := f.tracks[:0]
	var deleted int64
	for _, t := range f.tracks {
		if t.ID == trackID && t.AlbumID == albumID {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	f.tracks = kept
	return deleted, nil
}

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
	var out []*types.ScheduledNotification
	for _, r := range f.rows {
		if r.UserID == userID && !r.Sent && !r.ScheduledAt.Before(from) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeMailService struct {
	sent []fakeMailMessage
	err  error
}

type fakeMailMessage struct {
	To      string
	Subject string
	HTML    string
}

func (f *fakeMailService) Send(ctx context.Context, to, subject, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, fakeMailMessage{To: to, Subject: subject, HTML: html})
	return nil
}
