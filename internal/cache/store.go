// Package cache holds the latest fetched value of each resource collection
// and collapses concurrent fetches of the same key into one loader call.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Loader fetches the current value of a key from the server.
type Loader func(ctx context.Context) (any, error)

type subscription struct {
	fn     func(Key)
	active atomic.Bool
}

type entry struct {
	value any
	fresh bool
	// gen is bumped by every invalidation; a load only lands if gen is
	// unchanged when it completes.
	gen  uint64
	subs map[int]*subscription
}

type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
	nextSub int
	group   singleflight.Group
	log     *slog.Logger
}

func New(log *slog.Logger) *Store {
	return &Store{entries: map[Key]*entry{}, log: log}
}

// entry must be called with mu held.
func (s *Store) entry(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{subs: map[int]*subscription{}}
		s.entries[key] = e
	}
	return e
}

// Fetch returns the fresh value of key, joining an in-flight load of the same
// generation or starting one. If ctx ends first the caller gets ctx.Err() and
// the load carries on for the others.
func (s *Store) Fetch(ctx context.Context, key Key, load Loader) (any, error) {
	s.mu.Lock()
	e := s.entry(key)
	if e.fresh {
		v := e.value
		s.mu.Unlock()
		return v, nil
	}
	gen := e.gen
	s.mu.Unlock()

	flight := fmt.Sprintf("%s#%d", key, gen)
	ch := s.group.DoChan(flight, func() (any, error) {
		s.log.Debug("cache load", slog.String("key", string(key)), slog.Uint64("gen", gen))
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if e := s.entry(key); e.gen == gen {
			e.value = v
			e.fresh = true
		} else {
			s.log.Debug("cache load outlived invalidation", slog.String("key", string(key)))
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.log.Debug("cache load shared", slog.String("key", string(key)))
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

// Invalidate marks keys stale and notifies their subscribers.
func (s *Store) Invalidate(keys ...Key) {
	var notify []*subscription
	var notifyKeys []Key

	s.mu.Lock()
	for _, key := range keys {
		e := s.entry(key)
		e.fresh = false
		e.gen++
		for _, sub := range e.subs {
			notify = append(notify, sub)
			notifyKeys = append(notifyKeys, key)
		}
	}
	s.mu.Unlock()

	s.log.Debug("cache invalidate", slog.Any("keys", keys))
	for i, sub := range notify {
		if sub.active.Load() {
			sub.fn(notifyKeys[i])
		}
	}
}

// Subscribe calls fn after every invalidation of key until the returned
// function is called.
func (s *Store) Subscribe(key Key, fn func(Key)) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.entry(key).subs[id] = sub
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			s.mu.Lock()
			delete(s.entry(key).subs, id)
			s.mu.Unlock()
		})
	}
}

// Peek returns the last stored value of key and whether it is still fresh.
func (s *Store) Peek(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, e.fresh
}

// Get is Fetch with a typed loader and result.
func Get[T any](ctx context.Context, s *Store, key Key, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := s.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.Errorf("cache key %q holds %T, want %T", key, v, zero)
	}
	return t, nil
}
