// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RedisEvaler abstracts the minimal surface we need from a Redis client.
// Implementations may wrap github.com/redis/go-redis/v9 (Cmdable.Eval) or any equivalent.
type RedisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error)
}

// RedisRecorder appends run records idempotently using a Lua script:
// 1) SETNX run:<run_id> 1
// 2) If set -> RPUSH runs:<strategy> <record json>
// 3) EXPIRE the marker (TTL) for leak protection
// If SETNX fails (already recorded), returns OK and makes no changes.
type RedisRecorder struct {
	client    RedisEvaler
	markerTTL time.Duration
}

// NewRedisRecorder returns a recorder with the given client and marker TTL.
// markerTTL guards against unbounded growth of run markers; choose a duration
// comfortably larger than your maximum retry window.
func NewRedisRecorder(client RedisEvaler, markerTTL time.Duration) *RedisRecorder {
	if markerTTL <= 0 {
		markerTTL = 24 * time.Hour
	}
	return &RedisRecorder{client: client, markerTTL: markerTTL}
}

// redisLuaScript performs the idempotent append. It returns 1 if recorded, 0 if already recorded.
const redisLuaScript = `
local historyKey = KEYS[1]
local markerKey = KEYS[2]
local payload = ARGV[1]
local ttlSeconds = tonumber(ARGV[2])
-- try to set the idempotency marker
local set = redis.call('SETNX', markerKey, 1)
if set == 1 then
  -- first sighting; append to the strategy's run history
  redis.call('RPUSH', historyKey, payload)
  if ttlSeconds and ttlSeconds > 0 then
    redis.call('EXPIRE', markerKey, ttlSeconds)
  end
  return 1
else
  -- already recorded; no-op
  return 0
end
`

// Keys layout helpers (public for interoperability with other components)
func RedisHistoryKey(strategy string) string { return fmt.Sprintf("runs:%s", strategy) }
func RedisRunMarkerKey(runID string) string { return fmt.Sprintf("run:%s", runID) }

// Record applies records using a single EVAL per record to keep the marker
// check and the append atomic. Callers can wrap batching externally if needed.
func (r *RedisRecorder) Record(ctx context.Context, recs []RunRecord) error {
	if len(recs) == 0 {
		return nil
	}
	for _, rec := range recs {
		if rec.RunID == "" {
			return errors.New("RunRecord.RunID must be set")
		}
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal run record: %w", err)
		}
		keys := []string{RedisHistoryKey(rec.Strategy), RedisRunMarkerKey(rec.RunID)}
		args := []interface{}{string(payload), int(r.markerTTL.Seconds())}
		if _, err := r.client.Eval(ctx, redisLuaScript, keys, args...); err != nil {
			return fmt.Errorf("redis eval run=%s: %w", rec.RunID, err)
		}
	}
	return nil
}
