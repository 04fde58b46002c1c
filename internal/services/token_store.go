package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found or expired")

const (
	resetTokenPrefix   = "reset:"
	confirmTokenPrefix = "confirm:"
	revokedTokenPrefix = "revoked:"

	ResetTokenTTL   = 30 * time.Minute
	ConfirmTokenTTL = 48 * time.Hour
)

// TokenStore keeps the short-lived opaque tokens of the auth flows in Redis:
// single-use password-reset tokens, email-confirmation tokens, and the jti
// denylist that makes sign-out effective before a JWT expires.
type TokenStore struct {
	rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

func (s *TokenStore) CreateResetToken(ctx context.Context, userID int64) (string, error) {
	return s.createToken(ctx, resetTokenPrefix, userID, ResetTokenTTL)
}

// ConsumeResetToken atomically fetches and deletes the token, so a reset link
// works exactly once even when opened from two devices at the same time.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, token string) (int64, error) {
	return s.consumeToken(ctx, resetTokenPrefix, token)
}

func (s *TokenStore) CreateConfirmToken(ctx context.Context, userID int64) (string, error) {
	return s.createToken(ctx, confirmTokenPrefix, userID, ConfirmTokenTTL)
}

func (s *TokenStore) ConsumeConfirmToken(ctx context.Context, token string) (int64, error) {
	return s.consumeToken(ctx, confirmTokenPrefix, token)
}

func (s *TokenStore) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedTokenPrefix+jti, "1", ttl).Err()
}

func (s *TokenStore) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.rdb.Get(ctx, revokedTokenPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *TokenStore) createToken(ctx context.Context, prefix string, userID int64, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, prefix+token, strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *TokenStore) consumeToken(ctx context.Context, prefix, token string) (int64, error) {
	value, err := s.rdb.GetDel(ctx, prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}
