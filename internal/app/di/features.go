// Package di wires repositories, usecases and handlers together.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"customer_backend/internal/config"
	authadapters "customer_backend/internal/feature/auth/adapters"
	authhandler "customer_backend/internal/feature/auth/transport/handler"
	authusecase "customer_backend/internal/feature/auth/usecase"
	customeradapters "customer_backend/internal/feature/customers/adapters"
	customerhandler "customer_backend/internal/feature/customers/transport/handler"
	customerusecase "customer_backend/internal/feature/customers/usecase"
	notificationhandler "customer_backend/internal/feature/notification/transport/handler"
	notificationusecase "customer_backend/internal/feature/notification/usecase"
	useradapters "customer_backend/internal/feature/users/adapters"
	userhandler "customer_backend/internal/feature/users/transport/handler"
	userusecase "customer_backend/internal/feature/users/usecase"
	"customer_backend/internal/platform/cache"
	"customer_backend/internal/platform/externalapi/google"
	infrahttp "customer_backend/internal/platform/http"
	jwtmw "customer_backend/internal/platform/jwt"
)

const googleTimeout = 10 * time.Second

// Models lists the gorm models migrated at startup.
func Models() []any {
	return []any{
		&useradapters.UserModel{},
		&customeradapters.CustomerModel{},
		&authadapters.SessionModel{},
	}
}

// Features holds the HTTP handlers and the long-lived dependencies main needs to manage.
type Features struct {
	Auth          *authhandler.AuthHandler
	Users         *userhandler.UserHandler
	Customers     *customerhandler.CustomerHandler
	Notifications *notificationhandler.NotificationHandler

	Sessions authusecase.SessionRepository
}

// NewFeatures builds every feature on top of db and, when non-nil, rdb.
func NewFeatures(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *zap.Logger) *Features {
	// Repository
	userRepo := useradapters.NewUserGorm(db)
	customerRepo := cache.NewCachingCustomerRepository(rdb, cfg.Redis.CacheTTL, customeradapters.NewCustomerGorm(db), "customers")
	sessionRepo := NewSessionRepository(rdb, db, log)

	// Usecase
	tokens := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, tokens, authusecase.Options{
		RefreshTTL:  cfg.JWT.RefreshTTL,
		MaxSessions: cfg.JWT.MaxSessions,
	})
	userUC := userusecase.NewUserUsecase(userRepo)
	customerUC := customerusecase.NewCustomerUsecase(customerRepo)
	notificationUC := notificationusecase.NewNotificationUsecase(userRepo, cfg.InactiveDays)

	// Handler
	return &Features{
		Auth:          authhandler.NewAuthHandler(authUC, NewGoogleOAuth(cfg.Google, log), cfg.FrontendURL, cfg.IsProduction(), log),
		Users:         userhandler.NewUserHandler(userUC, log),
		Customers:     customerhandler.NewCustomerHandler(customerUC, log),
		Notifications: notificationhandler.NewNotificationHandler(notificationUC, log),
		Sessions:      sessionRepo,
	}
}

// NewGoogleOAuth returns the Google sign-in client, or nil when it is not configured.
func NewGoogleOAuth(cfg config.GoogleConfig, log *zap.Logger) authhandler.GoogleOAuth {
	if !cfg.Enabled() {
		log.Info("google sign-in disabled")
		return nil
	}
	return google.NewClient(google.ConfigFrom(cfg), infrahttp.NewHTTPClient(googleTimeout), log)
}
