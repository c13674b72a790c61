package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"terminal-terrace/library/packages/database"
)

const (
	// AccessTokenPrefix 令牌 key 前缀, 值为 user_id
	AccessTokenPrefix = "access_token:"
	// UserTokensPrefix 用户令牌集合 key 前缀, 用于批量撤销
	UserTokensPrefix = "user_access_tokens:"
)

// Store 令牌登记表, 只有登记过且未过期的令牌才有效
type Store struct {
	redis *database.RedisClient
}

func NewStore(redisClient *database.RedisClient) *Store {
	return &Store{redis: redisClient}
}

// Save registers tokenID for userID until ttl elapses.
func (s *Store) Save(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	userKey := userTokensKey(userID)

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, AccessTokenPrefix+tokenID, userID, ttl)
		pipe.SAdd(ctx, userKey, tokenID)
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Lookup 返回令牌对应的用户 ID
func (s *Store) Lookup(ctx context.Context, tokenID string) (uint, error) {
	val, err := s.redis.Get(ctx, AccessTokenPrefix+tokenID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrRevokedToken
	}
	if err != nil {
		return 0, fmt.Errorf("lookup token: %w", err)
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed token entry: %w", err)
	}
	return uint(userID), nil
}

// Revoke 撤销单个令牌
func (s *Store) Revoke(ctx context.Context, tokenID string, userID uint) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, AccessTokenPrefix+tokenID)
		pipe.SRem(ctx, userTokensKey(userID), tokenID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeAllForUser 撤销用户的全部令牌
func (s *Store) RevokeAllForUser(ctx context.Context, userID uint) error {
	userKey := userTokensKey(userID)

	tokenIDs, err := s.redis.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("list user tokens: %w", err)
	}

	keys := make([]string, 0, len(tokenIDs)+1)
	for _, id := range tokenIDs {
		keys = append(keys, AccessTokenPrefix+id)
	}
	keys = append(keys, userKey)

	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

// CountActive 用户当前登记的令牌数量
func (s *Store) CountActive(ctx context.Context, userID uint) (int64, error) {
	n, err := s.redis.SCard(ctx, userTokensKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("count user tokens: %w", err)
	}
	return n, nil
}

func userTokensKey(userID uint) string {
	return UserTokensPrefix + strconv.FormatUint(uint64(userID), 10)
}
