package di

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authadapters "customer_backend/internal/feature/auth/adapters"
	authusecase "customer_backend/internal/feature/auth/usecase"
	"customer_backend/internal/platform/session"
)

// sessionKeyPrefix namespaces refresh sessions in Redis.
const sessionKeyPrefix = "session"

// NewSessionRepository picks where refresh sessions live: Redis when a client
// is configured, otherwise the sessions table.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB, log *zap.Logger) authusecase.SessionRepository {
	if rdb != nil {
		log.Info("session store selected", zap.String("backend", "redis"), zap.String("prefix", sessionKeyPrefix))
		return session.NewSessionRedis(rdb, sessionKeyPrefix)
	}
	log.Info("session store selected", zap.String("backend", "database"))
	return authadapters.NewSessionGorm(db)
}
