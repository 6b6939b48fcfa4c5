package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"roadmap_backend/internal/config"
	"roadmap_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

// CodeStore issues and checks one-time sign-in codes for a contact
// (email address or phone number).
type CodeStore interface {
	Issue(ctx context.Context, contact string) (string, error)
	Verify(ctx context.Context, contact, code string) (bool, error)
}

// StaticCodeStore accepts a single fixed code for every contact.
type StaticCodeStore struct {
	Code string
}

func (s *StaticCodeStore) Issue(_ context.Context, contact string) (string, error) {
	if normalizeContact(contact) == "" {
		return "", util.ErrContactRequired
	}
	return s.Code, nil
}

func (s *StaticCodeStore) Verify(_ context.Context, contact, code string) (bool, error) {
	if normalizeContact(contact) == "" {
		return false, util.ErrContactRequired
	}
	return codesEqual(s.Code, code), nil
}

const otpKeyPrefix = "otp:"

// RedisCodeStore keeps a random code per contact with a TTL.
// A code is consumed by the first successful verification.
type RedisCodeStore struct {
	Redis  *redis.Client
	TTL    time.Duration
	Digits int
}

func NewRedisCodeStore(rdb *redis.Client, ttl time.Duration) *RedisCodeStore {
	return &RedisCodeStore{Redis: rdb, TTL: ttl, Digits: 4}
}

func (s *RedisCodeStore) Issue(ctx context.Context, contact string) (string, error) {
	contact = normalizeContact(contact)
	if contact == "" {
		return "", util.ErrContactRequired
	}

	code, err := randomDigits(s.Digits)
	if err != nil {
		return "", err
	}

	if err := s.Redis.Set(ctx, otpKeyPrefix+contact, code, s.TTL).Err(); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}
	return code, nil
}

func (s *RedisCodeStore) Verify(ctx context.Context, contact, code string) (bool, error) {
	contact = normalizeContact(contact)
	if contact == "" {
		return false, util.ErrContactRequired
	}

	key := otpKeyPrefix + contact
	stored, err := s.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load code: %w", err)
	}

	if !codesEqual(stored, code) {
		return false, nil
	}

	s.Redis.Del(ctx, key)
	return true, nil
}

// NewCodeStore builds the store selected by auth.otp.mode.
func NewCodeStore(cfg config.OTPConfig, rdb *redis.Client) (CodeStore, error) {
	switch cfg.Mode {
	case config.OTPModeRedis:
		if rdb == nil {
			return nil, fmt.Errorf("otp mode %q requires redis", cfg.Mode)
		}
		return NewRedisCodeStore(rdb, cfg.TTL), nil
	default:
		return &StaticCodeStore{Code: cfg.StaticCode}, nil
	}
}

func normalizeContact(contact string) string {
	return strings.ToLower(strings.TrimSpace(contact))
}

func codesEqual(want, got string) bool {
	got = strings.TrimSpace(got)
	return want != "" && subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func randomDigits(n int) (string, error) {
	if n <= 0 {
		n = 4
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
