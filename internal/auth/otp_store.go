package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix   = "auth:otp:"
	resetKeyPrefix = "auth:reset:"
)

// OTPStore holds short-lived password recovery secrets. Entries expire on
// their TTL; a missing entry reads back as the empty string.
type OTPStore interface {
	SaveOTP(ctx context.Context, email, otp string, ttl time.Duration) error
	GetOTP(ctx context.Context, email string) (string, error)
	DeleteOTP(ctx context.Context, email string) error

	SaveResetToken(ctx context.Context, email, token string, ttl time.Duration) error
	GetResetToken(ctx context.Context, email string) (string, error)
	DeleteResetToken(ctx context.Context, email string) error
}

type redisOTPStore struct {
	rdb *redis.Client
}

func NewRedisOTPStore(rdb *redis.Client) OTPStore {
	return &redisOTPStore{rdb: rdb}
}

func (s *redisOTPStore) SaveOTP(ctx context.Context, email, otp string, ttl time.Duration) error {
	return s.rdb.Set(ctx, otpKeyPrefix+email, otp, ttl).Err()
}

func (s *redisOTPStore) GetOTP(ctx context.Context, email string) (string, error) {
	return s.get(ctx, otpKeyPrefix+email)
}

func (s *redisOTPStore) DeleteOTP(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, otpKeyPrefix+email).Err()
}

func (s *redisOTPStore) SaveResetToken(ctx context.Context, email, token string, ttl time.Duration) error {
	return s.rdb.Set(ctx, resetKeyPrefix+email, token, ttl).Err()
}

func (s *redisOTPStore) GetResetToken(ctx context.Context, email string) (string, error) {
	return s.get(ctx, resetKeyPrefix+email)
}

func (s *redisOTPStore) DeleteResetToken(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, resetKeyPrefix+email).Err()
}

func (s *redisOTPStore) get(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
