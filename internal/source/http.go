package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/schema"
)

// defaultRetries bounds how often a failed download is retried.
const defaultRetries = 3

// currentCacheVersion defines the version of cached source payloads.
const currentCacheVersion = 1

// loadRemote fetches a table over HTTP, consulting the source cache first.
func (l *Loader) loadRemote(ctx context.Context, location string) (schema.RawTable, error) {
	format, err := DetectFormat(location)
	if err != nil {
		return schema.RawTable{}, err
	}

	key := cacheKey(location)
	body := checkCacheHit(l.cache, key)
	if body == nil {
		body, err = l.fetch(ctx, location)
		if err != nil {
			return schema.RawTable{}, err
		}
		storeInCache(l.cache, key, body)
	}

	switch format {
	case XLSXFormat:
		return ReadXLSX(bytes.NewReader(body))
	default:
		return ReadCSV(bytes.NewReader(body))
	}
}

// fetch downloads a URL with exponential backoff. Server errors and throttling
// are retried; other failures are permanent.
func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		resp, err := l.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("fetch %s: %w", location, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("fetch %s: status %d", location, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d", location, resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, l.retries), ctx)
	notify := func(err error, wait time.Duration) {
		contract.LogWarn(fmt.Sprintf("retrying in %v", wait.Round(time.Millisecond)), err)
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return body, nil
}

func cacheKey(location string) string {
	return "source:" + location
}

// checkCacheHit returns a cached payload when it exists, matches the current
// version and is fresh. Any other outcome is a miss.
func checkCacheHit(store contract.CacheStore, key string) []byte {
	if store == nil {
		return nil
	}
	data, version, ts, err := store.Get(key)
	if err != nil || version != currentCacheVersion || len(data) == 0 {
		return nil
	}
	if time.Since(time.Unix(ts, 0)) > staleAfter {
		return nil
	}
	return data
}

func storeInCache(store contract.CacheStore, key string, data []byte) {
	if store == nil {
		return
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("failed to cache source", err)
	}
}
