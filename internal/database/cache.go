package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// CacheBuilder assembles a single keyed cache operation.
type CacheBuilder struct {
	client CacheClient
	key    string
	value  any
	ttl    time.Duration
	ctx    context.Context
}

func NewCacheBuilder(client CacheClient, key any) *CacheBuilder {
	return &CacheBuilder{
		client: client,
		key:    fmt.Sprint(key),
		ctx:    context.Background(),
	}
}

func (cb *CacheBuilder) WithPrefix(prefix string) *CacheBuilder {
	cb.key = prefix + ":" + cb.key
	return cb
}

func (cb *CacheBuilder) WithStruct(value any) *CacheBuilder {
	cb.value = value
	return cb
}

func (cb *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	cb.ttl = ttl
	return cb
}

func (cb *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	cb.ctx = ctx
	return cb
}

func (cb *CacheBuilder) Key() string {
	return cb.key
}

func (cb *CacheBuilder) Set() error {
	if cb.client == nil {
		return fmt.Errorf("cache client is nil")
	}

	data, err := json.Marshal(cb.value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value for %s: %w", cb.key, err)
	}

	set := cb.client.B().Set().Key(cb.key).Value(string(data))
	var cmd valkey.Completed
	if seconds := int64(cb.ttl / time.Second); seconds > 0 {
		cmd = set.ExSeconds(seconds).Build()
	} else {
		cmd = set.Build()
	}

	return cb.client.Do(cb.ctx, cmd).Error()
}

// Get decodes the cached value into dest and reports whether the key existed.
func (cb *CacheBuilder) Get(dest any) (bool, error) {
	if cb.client == nil {
		return false, fmt.Errorf("cache client is nil")
	}

	data, err := cb.client.Do(cb.ctx, cb.client.B().Get().Key(cb.key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value for %s: %w", cb.key, err)
	}
	return true, nil
}

func (cb *CacheBuilder) Delete() error {
	if cb.client == nil {
		return fmt.Errorf("cache client is nil")
	}
	return cb.client.Do(cb.ctx, cb.client.B().Del().Key(cb.key).Build()).Error()
}
