package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameLookup_CoalescesConcurrentFetches(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	l := NewNameLookup(func(ctx context.Context) (map[string]string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return map[string]string{"d1": "Лампа"}, nil
	})

	var wg sync.WaitGroup
	results := make([]map[string]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			names, err := l.Names(context.Background())
			assert.NoError(t, err)
			results[i] = names
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, names := range results {
		assert.Equal(t, "Лампа", names["d1"])
	}
}

func TestNameLookup_BuiltOnce(t *testing.T) {
	calls := 0
	l := NewNameLookup(func(ctx context.Context) (map[string]string, error) {
		calls++
		return map[string]string{"d1": "fetched"}, nil
	})
	l.Seed(map[string]string{"d1": "seeded"})
	l.Seed(map[string]string{"d1": "again"})

	names, err := l.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seeded", names["d1"])
	assert.Zero(t, calls)
}

func TestNameLookup_RetriesAfterError(t *testing.T) {
	fail := true
	l := NewNameLookup(func(ctx context.Context) (map[string]string, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return map[string]string{}, nil
	})

	_, err := l.Names(context.Background())
	assert.Error(t, err)
	assert.False(t, l.Built())

	fail = false
	_, err = l.Names(context.Background())
	assert.NoError(t, err)
	assert.True(t, l.Built())
}
