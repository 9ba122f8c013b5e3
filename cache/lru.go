// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import lru "github.com/hashicorp/golang-lru"

// LRU is a typed view over golang-lru. It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	c *lru.Cache
}

// NewLRU creates a cache holding at most size entries. size must be positive.
func NewLRU[K comparable, V any](size int) (*LRU[K, V], error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{c}, nil
}

func (l *LRU[K, V]) Get(key K) (v V, ok bool) {
	if cached, found := l.c.Get(key); found {
		return cached.(V), true
	}
	return v, false
}

func (l *LRU[K, V]) Add(key K, v V) {
	l.c.Add(key, v)
}

func (l *LRU[K, V]) Contains(key K) bool {
	return l.c.Contains(key)
}

func (l *LRU[K, V]) Len() int {
	return l.c.Len()
}

// GetOrLoad returns the cached value of key, calling load on a miss.
// Failed loads are not cached.
func (l *LRU[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	l.Add(key, v)
	return v, nil
}
