// Package rediscache decorates a fitting.Oracle with a Redis-backed cache:
// marshal to JSON, gzip-compress, store with a TTL, and decompress on a
// cache hit.
package rediscache

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/eve-fitting-engine/internal/metrics"
	"github.com/Sternrassler/eve-fitting-engine/pkg/fitting"
)

// Oracle wraps another fitting.Oracle, caching every read in Redis. Static
// data changes on an SDE release cadence (months), so a long TTL is
// appropriate; it is a constructor parameter rather than a constant so
// callers can shorten it for tests.
type Oracle struct {
	next  fitting.Oracle
	redis *redis.Client
	ttl   time.Duration
}

// New wraps next with a Redis cache using the given TTL.
func New(next fitting.Oracle, redisClient *redis.Client, ttl time.Duration) *Oracle {
	return &Oracle{next: next, redis: redisClient, ttl: ttl}
}

func cached[T any](o *Oracle, key string, fetch func() (T, error)) (T, error) {
	ctx := context.Background()

	if data, err := o.redis.Get(ctx, key).Bytes(); err == nil {
		v, err := decompress[T](data)
		if err == nil {
			metrics.FittingOracleCacheHitsTotal.Inc()
			return v, nil
		}
	}

	metrics.FittingOracleCacheMissesTotal.Inc()
	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	if compressed, err := compress(v); err == nil {
		_ = o.redis.Set(ctx, key, compressed, o.ttl).Err()
	}
	return v, nil
}

func compress[T any](v T) ([]byte, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err := gzipWriter.Write(jsonData); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress[T any](data []byte) (T, error) {
	var zero T
	gzipReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return zero, err
	}
	defer gzipReader.Close()

	jsonData, err := io.ReadAll(gzipReader)
	if err != nil {
		return zero, err
	}

	var v T
	if err := json.Unmarshal(jsonData, &v); err != nil {
		return zero, err
	}
	return v, nil
}

func (o *Oracle) TypeAttributes(typeID int) ([]fitting.TypeAttribute, error) {
	return cached(o, fmt.Sprintf("fitting:type_attrs:%d", typeID), func() ([]fitting.TypeAttribute, error) {
		return o.next.TypeAttributes(typeID)
	})
}

func (o *Oracle) AttributeMeta(attributeID int) (fitting.DogmaAttribute, error) {
	return cached(o, fmt.Sprintf("fitting:attr_meta:%d", attributeID), func() (fitting.DogmaAttribute, error) {
		return o.next.AttributeMeta(attributeID)
	})
}

func (o *Oracle) TypeEffects(typeID int) ([]fitting.TypeEffect, error) {
	return cached(o, fmt.Sprintf("fitting:type_effects:%d", typeID), func() ([]fitting.TypeEffect, error) {
		return o.next.TypeEffects(typeID)
	})
}

func (o *Oracle) EffectMeta(effectID int) (fitting.EffectMeta, error) {
	return cached(o, fmt.Sprintf("fitting:effect_meta:%d", effectID), func() (fitting.EffectMeta, error) {
		return o.next.EffectMeta(effectID)
	})
}

func (o *Oracle) TypeMeta(typeID int) (fitting.TypeMeta, error) {
	return cached(o, fmt.Sprintf("fitting:type_meta:%d", typeID), func() (fitting.TypeMeta, error) {
		return o.next.TypeMeta(typeID)
	})
}

func (o *Oracle) AttributeNameToID(name string) (int, error) {
	return cached(o, fmt.Sprintf("fitting:attr_name:%s", name), func() (int, error) {
		return o.next.AttributeNameToID(name)
	})
}

func (o *Oracle) TypeNameToID(name string) (int, error) {
	return cached(o, fmt.Sprintf("fitting:type_name:%s", name), func() (int, error) {
		return o.next.TypeNameToID(name)
	})
}

var _ fitting.Oracle = (*Oracle)(nil)
