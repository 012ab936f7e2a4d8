// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package lookup

import (
	"fmt"
	"maps"
	"strings"
	"sync/atomic"

	"github.com/apex/log"
)

// DeriveFunc computes the value for key on a cache miss. It must be a pure
// function of key: concurrent misses for the same key may each call it and
// the last one to be installed wins.
type DeriveFunc func(key string) (string, error)

// Observer receives cache outcomes. Implementations must be safe for
// concurrent use. Stored reports the size of the snapshot an install
// published; racing installs may report out of order, but the largest value
// is always the current size.
type Observer interface {
	Hit()
	Miss()
	Stored(entries int)
}

// Option configures a Cache.
type Option func(*Cache)

// WithObserver reports hits, misses and installs to o.
func WithObserver(o Observer) Option {
	return func(c *Cache) {
		c.observer = o
	}
}

// Cache maps keys to derived values for the life of the Cache. Entries are
// never evicted or replaced with different content.
type Cache struct {
	// snapshot is never written after it has been published.
	snapshot atomic.Pointer[map[string]string]
	derive   DeriveFunc
	observer Observer
}

// New returns an empty Cache that fills itself with derive.
func New(derive DeriveFunc, opts ...Option) *Cache {
	c := &Cache{derive: derive}
	empty := map[string]string{}
	c.snapshot.Store(&empty)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Lookup returns the stored value for key without deriving it.
func (c *Cache) Lookup(key string) (string, bool) {
	v, ok := (*c.snapshot.Load())[key]
	return v, ok
}

// Resolve returns the value for key, deriving and storing it on the first
// call. Failed derivations are not stored, so the next call tries again.
func (c *Cache) Resolve(key string) (string, error) {
	if v, ok := c.Lookup(key); ok {
		if c.observer != nil {
			c.observer.Hit()
		}
		return v, nil
	}

	if c.observer != nil {
		c.observer.Miss()
	}

	v, err := c.derive(key)
	if err != nil {
		log.WithError(err).Debugf("lookup: derive failed for %q", key)
		return "", fmt.Errorf("failed to derive value: %w", err)
	}

	n := c.install(strings.Clone(key), v)
	log.Debugf("lookup: stored %q (%d entries)", key, n)

	if c.observer != nil {
		c.observer.Stored(n)
	}

	return v, nil
}

// Len returns the number of entries in the current snapshot.
func (c *Cache) Len() int {
	return len(*c.snapshot.Load())
}

// install publishes a copy of the current snapshot with key set to v and
// returns the size of the published snapshot. A lost race rebuilds from the
// winner's snapshot so no other key is dropped.
func (c *Cache) install(key, v string) int {
	for {
		cur := c.snapshot.Load()

		next := make(map[string]string, len(*cur)+1)
		maps.Copy(next, *cur)
		next[key] = v

		if c.snapshot.CompareAndSwap(cur, &next) {
			return len(next)
		}
	}
}
