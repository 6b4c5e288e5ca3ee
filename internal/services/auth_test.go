package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/types"
)

type fakeUserRepo struct {
	byEmail map[string]*types.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*types.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	user.ID = f.nextID
	f.nextID++
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, userID int64) (*types.User, error) {
	for _, u := range f.byEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func newTestAuthService(ttl time.Duration) (AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewAuthService(logger.NewNop(), repo, "test-secret", ttl), repo
}

func TestRegisterUser(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		seed     bool
		wantErr  error
	}{
		{name: "valid", email: "a@b.com", password: "hunter2"},
		{name: "normalizes_email_case", email: "  A@B.COM ", password: "hunter2"},
		{name: "missing_email", email: "", password: "hunter2", wantErr: ErrMissingFields},
		{name: "missing_password", email: "a@b.com", password: "", wantErr: ErrMissingFields},
		{name: "duplicate_email", email: "a@b.com", password: "hunter2", seed: true, wantErr: ErrEmailTaken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			as, repo := newTestAuthService(time.Hour)
			if tc.seed {
				repo.byEmail["a@b.com"] = &types.User{ID: 99, Email: "a@b.com"}
			}
			user, err := as.RegisterUser(context.Background(), tc.email, tc.password)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("RegisterUser error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("RegisterUser returned error: %v", err)
			}
			if user.ID == 0 {
				t.Fatalf("RegisterUser did not assign an id")
			}
			if user.Email != "a@b.com" {
				t.Fatalf("RegisterUser email = %q, want normalized a@b.com", user.Email)
			}
			if user.Password == tc.password {
				t.Fatalf("RegisterUser stored the plaintext password")
			}
		})
	}
}

func TestLoginUserRoundTrip(t *testing.T) {
	as, _ := newTestAuthService(time.Hour)
	user, err := as.RegisterUser(context.Background(), "a@b.com", "hunter2")
	if err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}

	token, err := as.LoginUser(context.Background(), "a@b.com", "hunter2")
	if err != nil {
		t.Fatalf("LoginUser returned error: %v", err)
	}

	rd, err := as.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if rd.UserID != user.ID {
		t.Fatalf("token user id = %d, want %d", rd.UserID, user.ID)
	}
	if rd.Email != "a@b.com" {
		t.Fatalf("token email = %q, want a@b.com", rd.Email)
	}
}

func TestLoginUserRejectsBadCredentials(t *testing.T) {
	as, _ := newTestAuthService(time.Hour)
	if _, err := as.RegisterUser(context.Background(), "a@b.com", "hunter2"); err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "wrong_password", email: "a@b.com", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "unknown_email", email: "x@y.com", password: "hunter2", wantErr: ErrInvalidCredentials},
		{name: "missing_fields", email: "", password: "", wantErr: ErrMissingFields},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := as.LoginUser(context.Background(), tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("LoginUser error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseTokenRejectsGarbageAndExpired(t *testing.T) {
	as, _ := newTestAuthService(time.Hour)
	if _, err := as.ParseToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("ParseToken(garbage) error = %v, want %v", err, ErrInvalidToken)
	}

	expired, _ := newTestAuthService(-time.Minute)
	if _, err := expired.RegisterUser(context.Background(), "a@b.com", "hunter2"); err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}
	token, err := expired.LoginUser(context.Background(), "a@b.com", "hunter2")
	if err != nil {
		t.Fatalf("LoginUser returned error: %v", err)
	}
	if _, err := expired.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("ParseToken(expired) error = %v, want %v", err, ErrInvalidToken)
	}

	// A token signed under a different secret must not validate.
	other := NewAuthService(logger.NewNop(), newFakeUserRepo(), "other-secret", time.Hour)
	if _, err := as.RegisterUser(context.Background(), "c@d.com", "hunter2"); err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}
	goodToken, err := as.LoginUser(context.Background(), "c@d.com", "hunter2")
	if err != nil {
		t.Fatalf("LoginUser returned error: %v", err)
	}
	if _, err := other.ParseToken(goodToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("ParseToken(foreign secret) error = %v, want %v", err, ErrInvalidToken)
	}
}
