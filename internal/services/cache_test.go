package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vahanpulse/internal/dataprocessing"
	"vahanpulse/pkg/contracts/domain"
)

func TestLoadCacheFreshness(t *testing.T) {
	cache := newLoadCache(time.Hour, nil)

	now := time.Now()
	cache.now = func() time.Time { return now }

	key := cacheKey{mode: dataprocessing.ModeYearly, evOnly: false}
	calls := 0
	load := func(context.Context) (*domain.Dataset, error) {
		calls++
		return &domain.Dataset{HasMaker: true}, nil
	}

	// First access populates, second is a hit within the TTL.
	first, err := cache.get(context.Background(), key, load)
	require.NoError(t, err)
	second, err := cache.get(context.Background(), key, load)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	// A different key loads independently.
	_, err = cache.get(context.Background(), cacheKey{mode: dataprocessing.ModeYearly, evOnly: true}, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	// After expiry the entry is recomputed on next access.
	now = now.Add(time.Hour)
	_, err = cache.get(context.Background(), key, load)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestLoadCacheDoesNotCacheErrors(t *testing.T) {
	cache := newLoadCache(time.Hour, nil)
	key := cacheKey{mode: dataprocessing.ModeMonthly, evOnly: false}

	calls := 0
	failing := func(context.Context) (*domain.Dataset, error) {
		calls++
		return nil, errors.New("read failed")
	}

	_, err := cache.get(context.Background(), key, failing)
	require.Error(t, err)

	// The failed load left no entry behind; the next access retries.
	ds, err := cache.get(context.Background(), key, func(context.Context) (*domain.Dataset, error) {
		calls++
		return &domain.Dataset{}, nil
	})
	require.NoError(t, err)
	assert.NotNil(t, ds)
	assert.Equal(t, 2, calls)
}

func TestCacheKeyString(t *testing.T) {
	assert.Equal(t, "yearly|ev=false", cacheKey{mode: dataprocessing.ModeYearly}.String())
	assert.Equal(t, "monthly|ev=true", cacheKey{mode: dataprocessing.ModeMonthly, evOnly: true}.String())
}
