package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidRefresh = errors.New("invalid refresh token")
	errNoRedis        = errors.New("redis not configured")
)

// RedisRefreshTokens stores "rt:<token>" -> "<userID>|<tokenVersion>" with a TTL.
type RedisRefreshTokens struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRefreshTokens(rdb *redis.Client, ttl time.Duration) *RedisRefreshTokens {
	return &RedisRefreshTokens{rdb: rdb, ttl: ttl}
}

func (s *RedisRefreshTokens) Issue(ctx context.Context, userID int64, tokenVersion int) (string, error) {
	if s.rdb == nil {
		return "", errNoRedis
	}
	token, err := randToken()
	if err != nil {
		return "", err
	}
	val := strconv.FormatInt(userID, 10) + "|" + strconv.Itoa(tokenVersion)
	if err := s.rdb.Set(ctx, "rt:"+token, val, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return token, nil
}

// Consume removes the token with GETDEL and returns what it was issued for.
// A token can be consumed once; concurrent callers race on the same key and
// all but one get ErrInvalidRefresh.
func (s *RedisRefreshTokens) Consume(ctx context.Context, token string) (int64, int, error) {
	if s.rdb == nil {
		return 0, 0, errNoRedis
	}
	val, err := s.rdb.GetDel(ctx, "rt:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, 0, ErrInvalidRefresh
	}
	if err != nil {
		return 0, 0, err
	}
	return parseRefreshValue(val)
}

func (s *RedisRefreshTokens) Revoke(ctx context.Context, token string) error {
	if s.rdb == nil {
		return errNoRedis
	}
	return s.rdb.Del(ctx, "rt:"+token).Err()
}

func parseRefreshValue(val string) (int64, int, error) {
	uid, tv, ok := strings.Cut(val, "|")
	if !ok {
		return 0, 0, ErrInvalidRefresh
	}
	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return 0, 0, ErrInvalidRefresh
	}
	ver, err := strconv.Atoi(tv)
	if err != nil {
		return 0, 0, ErrInvalidRefresh
	}
	return id, ver, nil
}

func randToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
