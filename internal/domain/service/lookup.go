package service

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// NameLookup maps device and group ids to display names. It is filled once
// per session and never invalidated; concurrent first reads share a single
// fetch.
type NameLookup struct {
	fetch func(ctx context.Context) (map[string]string, error)

	mu    sync.RWMutex
	names map[string]string
	group singleflight.Group
}

func NewNameLookup(fetch func(ctx context.Context) (map[string]string, error)) *NameLookup {
	return &NameLookup{fetch: fetch}
}

// Names returns the lookup map, fetching it on first use.
func (l *NameLookup) Names(ctx context.Context) (map[string]string, error) {
	if names, ok := l.cached(); ok {
		return names, nil
	}
	v, err, _ := l.group.Do("names", func() (interface{}, error) {
		if names, ok := l.cached(); ok {
			return names, nil
		}
		names, err := l.fetch(ctx)
		if err != nil {
			return nil, err
		}
		return l.store(names), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]string), nil
}

// Seed fills the lookup from an already fetched inventory. It is a no-op
// once the lookup is built.
func (l *NameLookup) Seed(names map[string]string) {
	l.store(names)
}

func (l *NameLookup) Built() bool {
	_, ok := l.cached()
	return ok
}

func (l *NameLookup) cached() (map[string]string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.names, l.names != nil
}

func (l *NameLookup) store(names map[string]string) map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.names == nil {
		if names == nil {
			names = map[string]string{}
		}
		l.names = names
	}
	return l.names
}
