/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"accredited-programmes-ui/internal/constants"
)

// RedisStore keeps tokens in Redis under the systemToken: prefix
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a token store backed by client
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, prefix: constants.SystemTokenPrefix}
}

// SetToken stores token with the given ttl
func (s *RedisStore) SetToken(ctx context.Context, key, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// GetToken returns the token held under key
func (s *RedisStore) GetToken(ctx context.Context, key string) (string, error) {
	token, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}
