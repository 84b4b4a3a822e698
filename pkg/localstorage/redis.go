package localstorage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// redisStorage keeps the key space in redis, for shared-kiosk deployments
// where several storefront terminals resume the same session state.
type redisStorage struct {
	logger  *logrus.Logger
	rc      *redis.Client
	prefix  string
	timeout time.Duration
}

func NewRedisStorage(logger *logrus.Logger, rc *redis.Client, prefix string) Storage {
	return &redisStorage{
		logger:  logger,
		rc:      rc,
		prefix:  prefix,
		timeout: 3 * time.Second,
	}
}

func (s *redisStorage) GetItem(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	v, err := s.rc.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(err).Error()
		}
		return "", false
	}

	return v, true
}

func (s *redisStorage) SetItem(key string, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.rc.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		s.logger.WithError(err).Error()
		return err
	}

	return nil
}

func (s *redisStorage) RemoveItem(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.rc.Del(ctx, s.prefix+key).Err(); err != nil {
		s.logger.WithError(err).Error()
		return err
	}

	return nil
}
