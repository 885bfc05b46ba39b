package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"customer_backend/internal/feature/auth/domain/entity"
	userentity "customer_backend/internal/feature/users/domain/entity"
	"customer_backend/internal/shared/password"
)

func init() {
	password.Cost = bcrypt.MinCost
}

// memUsers is an in-memory UserRepository.
type memUsers struct {
	byID   map[uint]*userentity.User
	nextID uint
	// FindByEmailErr, when set, is returned by FindByEmail.
	FindByEmailErr error
}

func newMemUsers(seed ...userentity.User) *memUsers {
	m := &memUsers{byID: map[uint]*userentity.User{}, nextID: 1}
	for i := range seed {
		u := seed[i]
		if u.ID == 0 {
			u.ID = m.nextID
		}
		m.byID[u.ID] = &u
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *userentity.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return ErrEmailAlreadyExists
		}
	}
	u.ID = m.nextID
	m.nextID++
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id uint) (*userentity.User, error) {
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrUserNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*userentity.User, error) {
	if m.FindByEmailErr != nil {
		return nil, m.FindByEmailErr
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memUsers) FindByGoogleID(_ context.Context, googleID string) (*userentity.User, error) {
	for _, u := range m.byID {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memUsers) Update(_ context.Context, u *userentity.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return ErrUserNotFound
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.LastLogin = &at
	return nil
}

// memSessions is an in-memory SessionRepository.
type memSessions struct {
	byID map[string]*entity.Session
}

func newMemSessions() *memSessions {
	return &memSessions{byID: map[string]*entity.Session{}}
}

func (m *memSessions) Create(_ context.Context, s *entity.Session) error {
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memSessions) FindByID(_ context.Context, id string) (*entity.Session, error) {
	if s, ok := m.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, ErrSessionNotFound
}

func (m *memSessions) Revoke(_ context.Context, id string, at time.Time) error {
	s, ok := m.byID[id]
	if !ok {
		return ErrSessionNotFound
	}
	if s.RevokedAt != nil {
		return ErrSessionRevoked
	}
	s.RevokedAt = &at
	return nil
}

// staleReads returns sessions as they were before any revoke, like a reader
// that ran just before a concurrent rotation committed.
type staleReads struct {
	*memSessions
}

func (s staleReads) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	found, err := s.memSessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	found.RevokedAt = nil
	return found, nil
}

func (m *memSessions) RevokeAllByUserID(_ context.Context, userID uint, at time.Time) error {
	for _, s := range m.byID {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &at
		}
	}
	return nil
}

func (m *memSessions) active(userID uint, now time.Time) []*entity.Session {
	var out []*entity.Session
	for _, s := range m.byID {
		if s.UserID == userID && s.Active(now) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *memSessions) CountActive(_ context.Context, userID uint, now time.Time) (int64, error) {
	return int64(len(m.active(userID, now))), nil
}

func (m *memSessions) DeleteOldest(_ context.Context, userID uint, now time.Time) error {
	if act := m.active(userID, now); len(act) > 0 {
		delete(m.byID, act[0].ID)
	}
	return nil
}

func (m *memSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range m.byID {
		if s.Expired(now) {
			delete(m.byID, id)
			n++
		}
	}
	return n, nil
}

// stubTokens is a JWTGenerator returning predictable tokens.
type stubTokens struct {
	err error
}

func (s stubTokens) GenerateToken(userID uint, email, role string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "access:" + email + ":" + role, nil
}

func (stubTokens) TTL() time.Duration { return time.Hour }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestUsecase(users *memUsers, sessions *memSessions, maxSessions int) (*authUsecase, *clock) {
	uc := NewAuthUsecase(users, sessions, stubTokens{}, Options{RefreshTTL: 24 * time.Hour, MaxSessions: maxSessions})
	c := &clock{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	uc.now = c.now
	return uc, c
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := password.Hash(plain)
	require.NoError(t, err)
	return h
}

var meta = ClientMeta{UserAgent: "test-agent", IPAddress: "10.0.0.1"}

func TestAuthUsecase_Register(t *testing.T) {
	t.Run("success: creates a user and opens a session", func(t *testing.T) {
		users, sessions := newMemUsers(), newMemSessions()
		uc, clk := newTestUsecase(users, sessions, 5)

		res, err := uc.Register(context.Background(), RegisterInput{
			Name: " Maria ", Email: " Maria@Example.com", Password: "secret1",
		}, meta)
		require.NoError(t, err)

		assert.Equal(t, "access:maria@example.com:user", res.AccessToken)
		assert.Equal(t, time.Hour, res.ExpiresIn)
		assert.Len(t, res.RefreshToken, 64)
		assert.Equal(t, "Maria", res.User.Name)
		assert.Equal(t, userentity.RoleUser, res.User.Role)

		stored, err := users.FindByEmail(context.Background(), "maria@example.com")
		require.NoError(t, err)
		assert.NoError(t, password.Compare(stored.Password, "secret1"))
		require.NotNil(t, stored.LastLogin)
		assert.True(t, clk.t.Equal(*stored.LastLogin))

		s, err := sessions.FindByID(context.Background(), res.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, s.UserID)
		assert.Equal(t, "test-agent", s.UserAgent)
		assert.Equal(t, clk.t.Add(24*time.Hour), s.ExpiresAt)
	})

	t.Run("failure: email already exists", func(t *testing.T) {
		users := newMemUsers(userentity.User{Email: "taken@example.com", Role: userentity.RoleUser})
		uc, _ := newTestUsecase(users, newMemSessions(), 5)

		_, err := uc.Register(context.Background(), RegisterInput{Name: "A", Email: "taken@example.com", Password: "secret1"}, meta)
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("failure: lookup error is propagated", func(t *testing.T) {
		boom := errors.New("db down")
		users := newMemUsers()
		users.FindByEmailErr = boom
		uc, _ := newTestUsecase(users, newMemSessions(), 5)

		_, err := uc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"}, meta)
		assert.ErrorIs(t, err, boom)
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	hash := mustHash(t, "admin123")
	seed := []userentity.User{
		{ID: 1, Name: "Admin", Email: "admin@example.com", Password: hash, Role: userentity.RoleAdmin},
		{ID: 2, Name: "Google", Email: "g@example.com", Role: userentity.RoleUser},
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"success", "ADMIN@example.com", "admin123", nil},
		{"wrong password", "admin@example.com", "nope", ErrInvalidCredentials},
		{"unknown email", "ghost@example.com", "admin123", ErrInvalidCredentials},
		{"account without password", "g@example.com", "", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMemUsers(seed...)
			uc, _ := newTestUsecase(users, newMemSessions(), 5)

			res, err := uc.Login(context.Background(), tt.email, tt.password, meta)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "access:admin@example.com:admin", res.AccessToken)
			assert.NotEmpty(t, res.RefreshToken)

			stored, _ := users.FindByID(context.Background(), 1)
			assert.NotNil(t, stored.LastLogin)
		})
	}
}

func TestAuthUsecase_MaxSessions(t *testing.T) {
	users := newMemUsers(userentity.User{ID: 1, Email: "a@example.com", Password: mustHash(t, "secret1"), Role: userentity.RoleUser})
	sessions := newMemSessions()
	uc, clk := newTestUsecase(users, sessions, 2)

	var tokens []string
	for i := 0; i < 3; i++ {
		clk.t = clk.t.Add(time.Minute)
		res, err := uc.Login(context.Background(), "a@example.com", "secret1", meta)
		require.NoError(t, err)
		tokens = append(tokens, res.RefreshToken)
	}

	n, err := sessions.CountActive(context.Background(), 1, clk.t)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = sessions.FindByID(context.Background(), tokens[0])
	assert.ErrorIs(t, err, ErrSessionNotFound, "oldest session must be evicted")
}

func TestAuthUsecase_Refresh(t *testing.T) {
	setup := func(t *testing.T) (*authUsecase, *memSessions, *clock, string) {
		users := newMemUsers(userentity.User{ID: 1, Email: "a@example.com", Password: mustHash(t, "secret1"), Role: userentity.RoleUser})
		sessions := newMemSessions()
		uc, clk := newTestUsecase(users, sessions, 5)
		res, err := uc.Login(context.Background(), "a@example.com", "secret1", meta)
		require.NoError(t, err)
		return uc, sessions, clk, res.RefreshToken
	}

	t.Run("success: rotates the refresh token", func(t *testing.T) {
		uc, sessions, _, old := setup(t)

		res, err := uc.Refresh(context.Background(), old, meta)
		require.NoError(t, err)
		assert.NotEqual(t, old, res.RefreshToken)
		assert.Equal(t, "access:a@example.com:user", res.AccessToken)

		prev, err := sessions.FindByID(context.Background(), old)
		require.NoError(t, err)
		assert.True(t, prev.Revoked())
	})

	t.Run("failure: reuse of a rotated token revokes every session", func(t *testing.T) {
		uc, sessions, clk, old := setup(t)

		res, err := uc.Refresh(context.Background(), old, meta)
		require.NoError(t, err)

		_, err = uc.Refresh(context.Background(), old, meta)
		assert.ErrorIs(t, err, ErrSessionRevoked)

		current, err := sessions.FindByID(context.Background(), res.RefreshToken)
		require.NoError(t, err)
		assert.False(t, current.Active(clk.t))
	})

	t.Run("failure: concurrent rotation of the same token issues only one session", func(t *testing.T) {
		uc, sessions, _, old := setup(t)

		_, err := uc.Refresh(context.Background(), old, meta)
		require.NoError(t, err)
		before := len(sessions.byID)

		uc.sessions = staleReads{sessions}
		_, err = uc.Refresh(context.Background(), old, meta)
		assert.ErrorIs(t, err, ErrSessionRevoked)
		assert.Len(t, sessions.byID, before)
	})

	t.Run("failure: expired", func(t *testing.T) {
		uc, _, clk, old := setup(t)
		clk.t = clk.t.Add(25 * time.Hour)

		_, err := uc.Refresh(context.Background(), old, meta)
		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("failure: unknown or malformed token", func(t *testing.T) {
		uc, _, _, _ := setup(t)

		_, err := uc.Refresh(context.Background(), strings.Repeat("ab", 32), meta)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)

		_, err = uc.Refresh(context.Background(), "not-a-token", meta)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthUsecase_Logout(t *testing.T) {
	users := newMemUsers(userentity.User{ID: 1, Email: "a@example.com", Password: mustHash(t, "secret1"), Role: userentity.RoleUser})
	sessions := newMemSessions()
	uc, _ := newTestUsecase(users, sessions, 5)

	res, err := uc.Login(context.Background(), "a@example.com", "secret1", meta)
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Logout(context.Background(), res.RefreshToken, 2), ErrInvalidRefreshToken, "token of another user")

	require.NoError(t, uc.Logout(context.Background(), res.RefreshToken, 1))
	s, err := sessions.FindByID(context.Background(), res.RefreshToken)
	require.NoError(t, err)
	assert.True(t, s.Revoked())

	assert.NoError(t, uc.Logout(context.Background(), res.RefreshToken, 1), "second logout is a no-op")
	assert.NoError(t, uc.Logout(context.Background(), strings.Repeat("cd", 32), 1), "unknown token is ignored")
	assert.ErrorIs(t, uc.Logout(context.Background(), "short", 1), ErrInvalidRefreshToken)

	uc.sessions = staleReads{sessions}
	assert.NoError(t, uc.Logout(context.Background(), res.RefreshToken, 1), "logout racing another revoke succeeds")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		n        int
		expected string
	}{
		{name: "short input is kept", in: "curl/8", n: 10, expected: "curl/8"},
		{name: "ascii is cut at n", in: "abcdef", n: 3, expected: "abc"},
		{name: "cut inside a rune backs off", in: "ééé", n: 3, expected: "é"},
		{name: "cut on a rune boundary", in: "ééé", n: 4, expected: "éé"},
		{name: "four byte rune", in: "a😀", n: 3, expected: "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestAuthUsecase_Profile(t *testing.T) {
	uc, _ := newTestUsecase(newMemUsers(userentity.User{ID: 4, Email: "p@example.com"}), newMemSessions(), 5)

	u, err := uc.Profile(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "p@example.com", u.Email)

	_, err = uc.Profile(context.Background(), 5)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthUsecase_GoogleLogin(t *testing.T) {
	gid := "google-1"
	profile := GoogleProfile{ID: gid, Email: "Ana@Example.com", EmailVerified: true, Name: "Ana"}

	t.Run("existing google account", func(t *testing.T) {
		users := newMemUsers(userentity.User{ID: 3, Email: "other@example.com", GoogleID: &gid, Role: userentity.RoleAdmin})
		sessions := newMemSessions()
		uc, _ := newTestUsecase(users, sessions, 5)

		res, err := uc.GoogleLogin(context.Background(), profile)
		require.NoError(t, err)
		assert.Equal(t, uint(3), res.User.ID)
		assert.Equal(t, "access:other@example.com:admin", res.AccessToken)
		assert.Empty(t, res.RefreshToken)
		assert.Empty(t, sessions.byID)
	})

	t.Run("links an account with the same email", func(t *testing.T) {
		users := newMemUsers(userentity.User{ID: 8, Email: "ana@example.com", Password: "hash", Role: userentity.RoleUser})
		uc, _ := newTestUsecase(users, newMemSessions(), 5)

		res, err := uc.GoogleLogin(context.Background(), profile)
		require.NoError(t, err)
		assert.Equal(t, uint(8), res.User.ID)

		stored, _ := users.FindByID(context.Background(), 8)
		require.NotNil(t, stored.GoogleID)
		assert.Equal(t, gid, *stored.GoogleID)
		assert.Equal(t, "hash", stored.Password)
		assert.NotNil(t, stored.LastLogin)
	})

	t.Run("creates a password-less account", func(t *testing.T) {
		users := newMemUsers()
		uc, _ := newTestUsecase(users, newMemSessions(), 5)

		res, err := uc.GoogleLogin(context.Background(), GoogleProfile{ID: gid, Email: "new@example.com", EmailVerified: true})
		require.NoError(t, err)
		assert.Equal(t, "new", res.User.Name)
		assert.False(t, res.User.HasPassword())
		assert.Equal(t, userentity.RoleUser, res.User.Role)
	})

	t.Run("unverified email is rejected", func(t *testing.T) {
		uc, _ := newTestUsecase(newMemUsers(), newMemSessions(), 5)

		_, err := uc.GoogleLogin(context.Background(), GoogleProfile{ID: gid, Email: "x@example.com"})
		assert.ErrorIs(t, err, ErrGoogleProfileIncomplete)
	})
}

func TestAuthUsecase_TokenFailure(t *testing.T) {
	boom := errors.New("sign failed")
	users := newMemUsers(userentity.User{ID: 1, Email: "a@example.com", Password: mustHash(t, "secret1"), Role: userentity.RoleUser})
	uc := NewAuthUsecase(users, newMemSessions(), stubTokens{err: boom}, Options{})

	_, err := uc.Login(context.Background(), "a@example.com", "secret1", meta)
	assert.ErrorIs(t, err, boom)
}
