// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"customer_backend/internal/feature/customers/domain/entity"
	"customer_backend/internal/feature/customers/usecase"
	"customer_backend/internal/platform/metrics"
	"customer_backend/internal/shared/pagination"
)

// CachingCustomerRepository decorates a CustomerRepository with a Redis read-through
// cache of single customers looked up by id. Writes go to the inner repository and
// then invalidate the cached entry.
type CachingCustomerRepository struct {
	inner     usecase.CustomerRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.CustomerRepository = (*CachingCustomerRepository)(nil)

// NewCachingCustomerRepository wraps inner. A nil rdb disables caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "customers".
func NewCachingCustomerRepository(rdb *redis.Client, ttl time.Duration, inner usecase.CustomerRepository, namespace string) *CachingCustomerRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "customers"
	}
	return &CachingCustomerRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *CachingCustomerRepository) Create(ctx context.Context, cust *entity.Customer) error {
	return c.inner.Create(ctx, cust)
}

// FindByID checks the cache first and falls back to the inner repository on a miss.
func (c *CachingCustomerRepository) FindByID(ctx context.Context, id uint) (*entity.Customer, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.key(id)
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out entity.Customer
		if err := json.Unmarshal(b, &out); err == nil {
			c.record("hit")
			return &out, nil
		}
		// Corrupted entry
		_ = c.rdb.Del(ctx, key).Err()
		c.record("error")
	case errors.Is(err, redis.Nil):
		c.record("miss")
	case err != nil:
		c.record("error")
	}

	out, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

func (c *CachingCustomerRepository) FindByCNPJ(ctx context.Context, formatted string) (*entity.Customer, error) {
	return c.inner.FindByCNPJ(ctx, formatted)
}

func (c *CachingCustomerRepository) FindMatching(ctx context.Context, q pagination.Query) ([]entity.Customer, int64, error) {
	return c.inner.FindMatching(ctx, q)
}

// Update writes through and drops the cached entry.
func (c *CachingCustomerRepository) Update(ctx context.Context, cust *entity.Customer) error {
	if err := c.inner.Update(ctx, cust); err != nil {
		return err
	}
	c.invalidate(ctx, cust.ID)
	return nil
}

// Delete removes the customer and drops the cached entry.
func (c *CachingCustomerRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// invalidate is best effort: a stale entry expires after ttl anyway.
func (c *CachingCustomerRepository) invalidate(ctx context.Context, id uint) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.key(id)).Err()
}

func (c *CachingCustomerRepository) key(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}

func (c *CachingCustomerRepository) record(result string) {
	metrics.CacheResults.WithLabelValues(c.namespace, result).Inc()
}
