package handler

// In-memory fakes backing the handler tests.  fakeUsers mirrors the
// credential store contract closely enough to exercise the full auth flows
// without MySQL; the revocation and ticket stores are the real
// implementations running on their in-memory fallback.

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/adityarawat/newsroom/internal/model"
	"github.com/adityarawat/newsroom/internal/repository"
	"github.com/adityarawat/newsroom/internal/utils"
)

type fakeUsers struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*model.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{nextID: 1, byID: map[uint64]*model.User{}}
}

func (f *fakeUsers) findByEmail(email string) *model.User {
	email = utils.NormalizeEmail(email)
	for _, u := range f.byID {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (f *fakeUsers) Create(_ context.Context, name, email, password, role string, cost int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = utils.NormalizeEmail(email)
	if f.findByEmail(email) != nil {
		return 0, repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	id := f.nextID
	f.nextID++
	now := time.Now().UTC()
	f.byID[id] = &model.User{
		ID: id, Name: name, Email: email, PasswordHash: hash, Role: role,
		Gender: model.GenderOther, CreatedAt: now, UpdatedAt: now,
	}
	return id, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u := f.findByEmail(email); u != nil {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uint64, p repository.ProfilePatch) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	u.Name, u.Contact, u.Country, u.DOB, u.Gender = p.Name, p.Contact, p.Country, p.DOB, p.Gender
	if p.Picture != "" {
		u.ProfilePicture = p.Picture
	}
	u.UpdatedAt = time.Now().UTC()
	return *u, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id uint64, role string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	u.Role = role
	return *u, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, email, password string, cost int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.findByEmail(email)
	if u == nil {
		return repository.ErrNotFound
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) SetOTP(_ context.Context, email, code string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.findByEmail(email)
	if u == nil {
		return repository.ErrNotFound
	}
	exp := expiresAt.UTC()
	u.OTP = &code
	u.OTPExpiresAt = &exp
	return nil
}

func (f *fakeUsers) ConsumeOTP(_ context.Context, email, code string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.findByEmail(email)
	if u == nil {
		return repository.ErrNotFound
	}
	if u.OTP == nil || u.OTPExpiresAt == nil || *u.OTP != code || !now.Before(*u.OTPExpiresAt) {
		return repository.ErrOTPInvalid
	}
	u.OTP = nil
	u.OTPExpiresAt = nil
	return nil
}

func (f *fakeUsers) ClearOTP(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u := f.findByEmail(email); u != nil {
		u.OTP = nil
		u.OTPExpiresAt = nil
	}
	return nil
}

func (f *fakeUsers) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

func (f *fakeUsers) List(_ context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	mu   sync.Mutex
	fail bool
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("mail provider unavailable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}
