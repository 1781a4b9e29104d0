// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/daybook/internal/platform/constants"
)

// # Login Lockout

// RedisLoginThrottle implements [LoginThrottle] with one counter per attempt
// key (see [AttemptKey]).
//
// Every failure restarts the window, so the lockout lifts once the window has
// passed without further failed attempts.
type RedisLoginThrottle struct {
	client      redis.Cmdable
	maxFailures int64
	window      time.Duration
}

// NewLoginThrottle creates a Redis-backed [LoginThrottle].
func NewLoginThrottle(client redis.Cmdable, maxFailures int, window time.Duration) *RedisLoginThrottle {
	return &RedisLoginThrottle{
		client:      client,
		maxFailures: int64(maxFailures),
		window:      window,
	}
}

func failureKey(key string) string {
	return constants.RedisPrefixLoginFailures + key
}

/*
Locked reports whether key has used up its failed attempts.

Returns:
  - bool: true when the failure count has reached the limit
  - time.Duration: Remaining lockout (the key TTL) when locked
  - error: Connectivity errors
*/
func (throttle *RedisLoginThrottle) Locked(context context.Context, key string) (bool, time.Duration, error) {
	count, err := throttle.client.Get(context, failureKey(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("redis_login_throttle_get_failed: %w", err)
	}

	if count < throttle.maxFailures {
		return false, 0, nil
	}

	remaining, err := throttle.client.TTL(context, failureKey(key)).Result()
	if err != nil {
		return true, throttle.window, fmt.Errorf("redis_login_throttle_ttl_failed: %w", err)
	}
	if remaining <= 0 {
		remaining = throttle.window
	}

	return true, remaining, nil
}

/*
RecordFailure increments the failure counter for key.

Description: INCR and EXPIRE run in one MULTI block, so a counter never
exists without a deadline.
*/
func (throttle *RedisLoginThrottle) RecordFailure(context context.Context, key string) (int64, error) {
	redisKey := failureKey(key)

	var incr *redis.IntCmd
	_, err := throttle.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(context, redisKey)
		pipe.Expire(context, redisKey, throttle.window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis_login_throttle_incr_failed: %w", err)
	}

	return incr.Val(), nil
}

// Reset removes the counter for key.
func (throttle *RedisLoginThrottle) Reset(context context.Context, key string) error {
	if err := throttle.client.Del(context, failureKey(key)).Err(); err != nil {
		return fmt.Errorf("redis_login_throttle_reset_failed: %w", err)
	}
	return nil
}
