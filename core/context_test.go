package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	_, ok := getAnalysisID(ctx)
	assert.False(t, ok)
}

func TestContextWrongValueType(t *testing.T) {
	ctx := context.WithValue(context.Background(), suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(ctx))

	ctx = context.WithValue(context.Background(), analysisIDKey, 7)
	_, ok := getAnalysisID(ctx)
	assert.False(t, ok, "an int is not an int64 analysis ID")
}

// TestContextConcurrentAccess tests that context values can be safely read concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := withAnalysisID(WithSuppressHeader(context.Background()), 12345)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			id, ok := getAnalysisID(ctx)
			assert.True(t, shouldSuppressHeader(ctx), "goroutine %d", i)
			assert.True(t, ok, "goroutine %d", i)
			assert.Equal(t, int64(12345), id, "goroutine %d", i)
		})
	}
	wg.Wait()
}

// TestContextIsolation tests that derived contexts do not leak values into each other.
func TestContextIsolation(t *testing.T) {
	base := context.Background()
	ctx1 := withAnalysisID(base, 1)
	ctx2 := withAnalysisID(base, 2)
	ctx3 := WithSuppressHeader(base)

	id1, _ := getAnalysisID(ctx1)
	id2, _ := getAnalysisID(ctx2)
	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)
	assert.False(t, shouldSuppressHeader(ctx1))
	assert.True(t, shouldSuppressHeader(ctx3))
	_, ok := getAnalysisID(ctx3)
	assert.False(t, ok)
}
