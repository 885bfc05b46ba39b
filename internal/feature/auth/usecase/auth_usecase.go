package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"customer_backend/internal/feature/auth/domain/entity"
	userentity "customer_backend/internal/feature/users/domain/entity"
	"customer_backend/internal/shared/password"
)

const refreshTokenBytes = 32

// UserRepository is the subset of the user store the auth flows need.
type UserRepository interface {
	Create(ctx context.Context, user *userentity.User) error
	FindByID(ctx context.Context, id uint) (*userentity.User, error)
	FindByEmail(ctx context.Context, email string) (*userentity.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*userentity.User, error)
	Update(ctx context.Context, user *userentity.User) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

// JWTGenerator issues signed access tokens.
type JWTGenerator interface {
	GenerateToken(userID uint, email, role string) (string, error)
	TTL() time.Duration
}

// Options tunes refresh session handling.
type Options struct {
	RefreshTTL  time.Duration
	MaxSessions int
}

// ClientMeta identifies the client a session is issued to.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

// RegisterInput carries the self-service sign-up fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// GoogleProfile is the identity returned by Google after consent.
type GoogleProfile struct {
	ID            string
	Email         string
	EmailVerified bool
	Name          string
}

// AuthResult is the outcome of every flow that authenticates a user.
type AuthResult struct {
	AccessToken  string
	RefreshToken string // empty when no session was opened
	ExpiresIn    time.Duration
	User         *userentity.User
}

type authUsecase struct {
	users    UserRepository
	sessions SessionRepository
	tokens   JWTGenerator
	opts     Options
	now      func() time.Time
}

// NewAuthUsecase creates the auth usecase.
func NewAuthUsecase(users UserRepository, sessions SessionRepository, tokens JWTGenerator, opts Options) *authUsecase {
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 7 * 24 * time.Hour
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 5
	}
	return &authUsecase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		opts:     opts,
		now:      time.Now,
	}
}

// Register creates a user with the user role and signs it in.
func (u *authUsecase) Register(ctx context.Context, in RegisterInput, meta ClientMeta) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &userentity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hashed,
		Role:     userentity.RoleUser,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return u.signIn(ctx, user, &meta)
}

// Login checks the credentials and opens a session.
// A bcrypt comparison runs even for unknown emails so both failures take the same time.
func (u *authUsecase) Login(ctx context.Context, email, plain string, meta ClientMeta) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash := ""
	if user != nil {
		hash = user.Password
	}
	if cmpErr := password.Compare(hash, plain); cmpErr != nil || user == nil {
		return nil, ErrInvalidCredentials
	}

	return u.signIn(ctx, user, &meta)
}

// Refresh exchanges a refresh token for a new token pair. The presented session is revoked.
// Presenting an already revoked token revokes every session of its owner.
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (*AuthResult, error) {
	if !validTokenFormat(refreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	s, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	now := u.now()
	if s.Revoked() {
		if err := u.sessions.RevokeAllByUserID(ctx, s.UserID, now); err != nil {
			return nil, fmt.Errorf("revoke sessions after token reuse: %w", err)
		}
		return nil, ErrSessionRevoked
	}
	if s.Expired(now) {
		return nil, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	// Only the caller that wins the revoke may rotate; a concurrent refresh with the same token loses.
	if err := u.sessions.Revoke(ctx, s.ID, now); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	return u.issue(ctx, user, &meta)
}

// Logout revokes the refresh token when it belongs to userID.
// Unknown tokens are ignored so logout is idempotent.
func (u *authUsecase) Logout(ctx context.Context, refreshToken string, userID uint) error {
	if !validTokenFormat(refreshToken) {
		return ErrInvalidRefreshToken
	}
	s, err := u.sessions.FindByID(ctx, refreshToken)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if s.UserID != userID {
		return ErrInvalidRefreshToken
	}
	if s.Revoked() {
		return nil
	}
	err = u.sessions.Revoke(ctx, s.ID, u.now())
	if errors.Is(err, ErrSessionRevoked) || errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	return err
}

// Profile returns the stored user behind an access token.
func (u *authUsecase) Profile(ctx context.Context, userID uint) (*userentity.User, error) {
	return u.users.FindByID(ctx, userID)
}

// GoogleLogin finds the user by Google id, links an existing account with the same email,
// or creates a password-less account. Only an access token is issued.
func (u *authUsecase) GoogleLogin(ctx context.Context, p GoogleProfile) (*AuthResult, error) {
	if p.ID == "" || p.Email == "" || !p.EmailVerified {
		return nil, ErrGoogleProfileIncomplete
	}

	user, err := u.users.FindByGoogleID(ctx, p.ID)
	switch {
	case err == nil:
	case errors.Is(err, ErrUserNotFound):
		user, err = u.linkOrCreate(ctx, p)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return u.signIn(ctx, user, nil)
}

func (u *authUsecase) linkOrCreate(ctx context.Context, p GoogleProfile) (*userentity.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	googleID := p.ID

	user, err := u.users.FindByEmail(ctx, email)
	if err == nil {
		user.GoogleID = &googleID
		if err := u.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("link google account: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	user = &userentity.User{
		Name:     name,
		Email:    email,
		Role:     userentity.RoleUser,
		GoogleID: &googleID,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// signIn stamps the last login and issues tokens. A nil meta issues an access token only.
func (u *authUsecase) signIn(ctx context.Context, user *userentity.User, meta *ClientMeta) (*AuthResult, error) {
	now := u.now()
	if err := u.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now
	return u.issue(ctx, user, meta)
}

func (u *authUsecase) issue(ctx context.Context, user *userentity.User, meta *ClientMeta) (*AuthResult, error) {
	access, err := u.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	res := &AuthResult{AccessToken: access, ExpiresIn: u.tokens.TTL(), User: user}
	if meta == nil {
		return res, nil
	}

	s, err := u.openSession(ctx, user.ID, *meta)
	if err != nil {
		return nil, err
	}
	res.RefreshToken = s.ID
	return res, nil
}

// openSession evicts the oldest sessions until the user is below MaxSessions, then stores a new one.
func (u *authUsecase) openSession(ctx context.Context, userID uint, meta ClientMeta) (*entity.Session, error) {
	now := u.now()
	count, err := u.sessions.CountActive(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	for ; count >= int64(u.opts.MaxSessions); count-- {
		if err := u.sessions.DeleteOldest(ctx, userID, now); err != nil {
			return nil, fmt.Errorf("evict session: %w", err)
		}
	}

	id, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	s := &entity.Session{
		ID:        id,
		UserID:    userID,
		UserAgent: truncate(meta.UserAgent, 512),
		IPAddress: truncate(meta.IPAddress, 45),
		CreatedAt: now,
		ExpiresAt: now.Add(u.opts.RefreshTTL),
	}
	if err := u.sessions.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

func newRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func validTokenFormat(token string) bool {
	if len(token) != refreshTokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
