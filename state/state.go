// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/powerledger/cache"
	"github.com/vechain/powerledger/kv"
	"github.com/vechain/powerledger/stackedmap"
	"github.com/vechain/powerledger/thor"
)

const (
	storageBucket = kv.Bucket("s")

	committedCacheSize = 4096
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// storageKey addresses a single storage slot of a contract.
type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) dbKey() []byte {
	return append(append(make([]byte, 0, thor.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State manages contract storage on top of a kv store.
// All writes are journaled in memory until Commit; checkpoints allow
// reverting a failed operation without touching committed data.
type State struct {
	store     kv.Store
	sm        *stackedmap.StackedMap
	committed *cache.LRU[storageKey, rlp.RawValue]
}

// New create state object.
func New(store kv.Store) *State {
	committed, _ := cache.NewLRU[storageKey, rlp.RawValue](committedCacheSize)
	s := &State{
		store:     storageBucket.NewStore(store),
		committed: committed,
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (any, bool, error) {
	k, ok := key.(storageKey)
	if !ok {
		panic(fmt.Errorf("unexpected key type %+v", key))
	}
	v, err := s.committed.GetOrLoad(k, func() (rlp.RawValue, error) {
		raw, err := s.store.Get(k.dbKey())
		if err != nil {
			if s.store.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Changes returns the number of distinct slots touched since the last commit.
func (s *State) Changes() int {
	keys := make(map[storageKey]struct{})
	s.sm.Journal(func(k, _ any) bool {
		keys[k.(storageKey)] = struct{}{}
		return true
	})
	return len(keys)
}

// Commit writes all journaled changes into the underlying store in a single batch.
// The journal is reset afterwards, so previous checkpoints become invalid.
func (s *State) Commit() error {
	latest := make(map[storageKey]rlp.RawValue)
	var order []storageKey
	s.sm.Journal(func(k, v any) bool {
		key := k.(storageKey)
		if _, ok := latest[key]; !ok {
			order = append(order, key)
		}
		latest[key] = v.(rlp.RawValue)
		return true
	})

	batch := s.store.NewBatch()
	for _, key := range order {
		raw := latest[key]
		if len(raw) == 0 {
			if err := batch.Delete(key.dbKey()); err != nil {
				return &Error{err}
			}
			continue
		}
		if err := batch.Put(key.dbKey(), raw); err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}

	for _, key := range order {
		s.committed.Add(key, latest[key])
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return nil
}
