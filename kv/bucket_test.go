// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errNotFound = errors.New("not found")

type mem map[string]string

func (m mem) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errNotFound
}

func (m mem) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m mem) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m mem) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func (m mem) IsNotFound(err error) bool {
	return err == errNotFound
}

type memBatch struct {
	m   mem
	ops []func()
}

func (b *memBatch) Put(k, v []byte) error {
	k, v = append([]byte(nil), k...), append([]byte(nil), v...)
	b.ops = append(b.ops, func() { b.m[string(k)] = string(v) })
	return nil
}

func (b *memBatch) Delete(k []byte) error {
	k = append([]byte(nil), k...)
	b.ops = append(b.ops, func() { delete(b.m, string(k)) })
	return nil
}

func (b *memBatch) Len() int { return len(b.ops) }

func (b *memBatch) Write() error {
	for _, op := range b.ops {
		op()
	}
	return nil
}

func (m mem) NewBatch() Batch { return &memBatch{m: m} }

func TestBucket_GetterGet(t *testing.T) {
	m := mem{"k1": "v1", "k2": "v2"}

	tests := []struct {
		b    Bucket
		key  string
		want string
	}{
		{Bucket(""), "k1", "v1"},
		{Bucket(""), "k2", "v2"},
		{Bucket("k"), "k1", ""},
		{Bucket("k"), "1", "v1"},
		{Bucket("k"), "2", "v2"},
		{Bucket("k1"), "", "v1"},
	}
	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got, _ := tt.b.NewGetter(m).Get([]byte(tt.key))
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestBucket_GetterHasAndNotFound(t *testing.T) {
	m := mem{"k1": "v1"}
	getter := Bucket("k").NewGetter(m)

	has, err := getter.Has([]byte("1"))
	assert.NoError(t, err)
	assert.True(t, has)

	_, err = getter.Get([]byte("2"))
	assert.True(t, getter.IsNotFound(err))
}

func TestBucket_Putter(t *testing.T) {
	m := mem{}
	putter := Bucket("b").NewPutter(m)

	assert.NoError(t, putter.Put([]byte("1"), []byte("v1")))
	assert.Equal(t, mem{"b1": "v1"}, m)

	assert.NoError(t, putter.Delete([]byte("1")))
	assert.Equal(t, mem{}, m)
}

func TestBucket_StoreBatch(t *testing.T) {
	m := mem{}
	store := Bucket("s").NewStore(m)

	batch := store.NewBatch()
	assert.NoError(t, batch.Put([]byte("1"), []byte("v1")))
	assert.NoError(t, batch.Put([]byte("2"), []byte("v2")))
	assert.Equal(t, 2, batch.Len())
	assert.Empty(t, m)

	assert.NoError(t, batch.Write())
	assert.Equal(t, mem{"s1": "v1", "s2": "v2"}, m)

	v, err := store.Get([]byte("2"))
	assert.NoError(t, err)
	assert.Equal(t, "v2", string(v))
}

func TestBucket_Key(t *testing.T) {
	key := []byte("1")
	k := Bucket("s").Key(key)
	assert.Equal(t, []byte("s1"), k)

	k[1] = '2'
	assert.Equal(t, []byte("1"), key, "source key untouched")
}
