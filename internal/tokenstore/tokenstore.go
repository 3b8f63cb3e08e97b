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
	"time"
)

// TokenStore caches system tokens by key. GetToken returns an empty string and a nil
// error when no unexpired token is held.
type TokenStore interface {
	SetToken(ctx context.Context, key, token string, ttl time.Duration) error
	GetToken(ctx context.Context, key string) (string, error)
}
