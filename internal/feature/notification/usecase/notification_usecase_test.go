package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userentity "customer_backend/internal/feature/users/domain/entity"
)

type mockFinder struct {
	FindInactiveSinceFunc func(ctx context.Context, cutoff time.Time) ([]userentity.User, error)
}

func (m *mockFinder) FindInactiveSince(ctx context.Context, cutoff time.Time) ([]userentity.User, error) {
	return m.FindInactiveSinceFunc(ctx, cutoff)
}

func TestNotificationUsecase_InactiveUsers(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("uses default window", func(t *testing.T) {
		var gotCutoff time.Time
		uc := NewNotificationUsecase(&mockFinder{
			FindInactiveSinceFunc: func(_ context.Context, cutoff time.Time) ([]userentity.User, error) {
				gotCutoff = cutoff
				return []userentity.User{{Email: "a@example.com"}, {Email: "b@example.com"}}, nil
			},
		}, 30)
		uc.now = func() time.Time { return now }

		report, err := uc.InactiveUsers(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), gotCutoff)
		assert.Equal(t, InactiveReport{Emails: []string{"a@example.com", "b@example.com"}, Days: 30}, report)
	})

	t.Run("explicit window and empty result", func(t *testing.T) {
		var gotCutoff time.Time
		uc := NewNotificationUsecase(&mockFinder{
			FindInactiveSinceFunc: func(_ context.Context, cutoff time.Time) ([]userentity.User, error) {
				gotCutoff = cutoff
				return nil, nil
			},
		}, 30)
		uc.now = func() time.Time { return now }

		report, err := uc.InactiveUsers(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, 0, -7), gotCutoff)
		assert.Equal(t, []string{}, report.Emails)
		assert.Equal(t, 7, report.Days)
	})

	t.Run("rejects out of range windows", func(t *testing.T) {
		uc := NewNotificationUsecase(&mockFinder{}, 30)
		for _, days := range []int{-1, MaxDays + 1} {
			_, err := uc.InactiveUsers(context.Background(), days)
			assert.ErrorIs(t, err, ErrInvalidDays)
		}
	})

	t.Run("propagates store errors", func(t *testing.T) {
		boom := errors.New("db down")
		uc := NewNotificationUsecase(&mockFinder{
			FindInactiveSinceFunc: func(context.Context, time.Time) ([]userentity.User, error) { return nil, boom },
		}, 30)
		_, err := uc.InactiveUsers(context.Background(), 10)
		assert.ErrorIs(t, err, boom)
	})
}
