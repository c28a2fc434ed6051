package repo

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	errx "github.com/equine-kiosk/server/internal/core/error"
	"github.com/equine-kiosk/server/internal/session"
	logx "github.com/equine-kiosk/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	codeDigits      = 6
	maxCodeAttempts = 8
)

var ErrNoFreeCode = errors.New("no free saved cart code")

type RedisSavedCartRepository struct {
	rdb     redis.Cmdable
	ttl     time.Duration
	newCode func() string
}

func NewRedisSavedCartRepository(rdb redis.Cmdable, ttl time.Duration) *RedisSavedCartRepository {
	return &RedisSavedCartRepository{rdb: rdb, ttl: ttl, newCode: randomCode}
}

func randomCode() string {
	return fmt.Sprintf("%0*d", codeDigits, rand.IntN(1_000_000))
}

func (r *RedisSavedCartRepository) savedCartKey(code string) string {
	return fmt.Sprintf("saved_cart:%s", code)
}

// Save stores payload under a fresh numeric code. Codes are only reused once
// the previous cart under them has expired.
func (r *RedisSavedCartRepository) Save(ctx context.Context, payload []byte) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := r.newCode()
		key := r.savedCartKey(code)

		ok, err := r.rdb.SetNX(ctx, key, payload, r.ttl).Result()
		if err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to store saved cart in redis")
			return "", errx.WrapRedis(err)
		}
		if ok {
			return code, nil
		}
		logx.Debug().Str("key", key).Int("attempt", attempt+1).Msg("saved cart code taken, retrying")
	}
	logx.Warn().Int("attempts", maxCodeAttempts).Msg("could not allocate a saved cart code")
	return "", ErrNoFreeCode
}

func (r *RedisSavedCartRepository) Load(ctx context.Context, code string) ([]byte, error) {
	key := r.savedCartKey(code)
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logx.Error().Err(err).Str("key", key).Msg("failed to load saved cart from redis")
		}
		return nil, errx.WrapRedis(err)
	}
	return b, nil
}

// Delete drops a saved cart, e.g. once its order went through.
func (r *RedisSavedCartRepository) Delete(ctx context.Context, code string) error {
	key := r.savedCartKey(code)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete saved cart from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ session.SavedCartRepository = (*RedisSavedCartRepository)(nil)
