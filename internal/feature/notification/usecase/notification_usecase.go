// Package usecase reports users who have stopped signing in.
package usecase

import (
	"context"
	"errors"
	"time"

	userentity "customer_backend/internal/feature/users/domain/entity"
)

// MaxDays bounds the inactivity window a caller may ask for.
const MaxDays = 3650

// ErrInvalidDays is returned for a window outside [1, MaxDays].
var ErrInvalidDays = errors.New("days must be between 1 and 3650")

// InactiveUserFinder returns the users inactive since cutoff, ordered by email.
type InactiveUserFinder interface {
	FindInactiveSince(ctx context.Context, cutoff time.Time) ([]userentity.User, error)
}

// InactiveReport lists the users inactive for Days days.
type InactiveReport struct {
	Emails []string
	Days   int
}

type notificationUsecase struct {
	users       InactiveUserFinder
	defaultDays int
	now         func() time.Time
}

// NewNotificationUsecase creates the usecase. defaultDays is used when a caller passes 0.
func NewNotificationUsecase(users InactiveUserFinder, defaultDays int) *notificationUsecase {
	if defaultDays < 1 {
		defaultDays = 30
	}
	return &notificationUsecase{users: users, defaultDays: defaultDays, now: time.Now}
}

// InactiveUsers returns the emails of users who have not logged in during the last days days.
func (u *notificationUsecase) InactiveUsers(ctx context.Context, days int) (InactiveReport, error) {
	if days == 0 {
		days = u.defaultDays
	}
	if days < 1 || days > MaxDays {
		return InactiveReport{}, ErrInvalidDays
	}

	cutoff := u.now().AddDate(0, 0, -days)
	users, err := u.users.FindInactiveSince(ctx, cutoff)
	if err != nil {
		return InactiveReport{}, err
	}

	emails := make([]string, 0, len(users))
	for _, user := range users {
		emails = append(emails, user.Email)
	}
	return InactiveReport{Emails: emails, Days: days}, nil
}
