// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/vechain/powerledger/kv"
	"github.com/vechain/powerledger/metrics"
)

var (
	_ kv.GetPutCloser = (*LevelDB)(nil)

	metricBatchOps = metrics.LazyLoadHistogram("lvldb_batch_ops", []int64{0, 1, 5, 10, 50, 100, 500, 1000, 5000})
)

const minCacheMB = 16

type Options struct {
	// CacheSize in MiB, split between the block cache and the write buffers.
	CacheSize              int
	OpenFilesCacheCapacity int
	// SyncBatches fsyncs every batch write. A committed block then survives a power loss.
	SyncBatches bool
}

// LevelDB is the kv.Store of the ledger state and the chain head.
type LevelDB struct {
	db        *leveldb.DB
	batchOpts *opt.WriteOptions
}

// New opens the database at path, creating it when missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "new persistent level db")
	}
	return open(stg, opts)
}

// NewMem returns a database that lives in memory, for tests and non-persistent solo runs.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	cacheMB := max(opts.CacheSize, minCacheMB)
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: max(opts.OpenFilesCacheCapacity, 16),
		BlockCacheCapacity:     cacheMB / 2 * opt.MiB,
		// leveldb keeps two write buffers alive during compaction
		WriteBuffer: cacheMB / 4 * opt.MiB,
		Filter:      filter.NewBloomFilter(10),
	})
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{
		db:        db,
		batchOpts: &opt.WriteOptions{Sync: opts.SyncBatches},
	}, nil
}

func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get fails with an error matched by IsNotFound when key is absent.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, nil)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, nil)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, nil)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, nil)
}

// Close releases the database. Every later call fails.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

// NewBatch collects writes that land together or not at all.
func (ldb *LevelDB) NewBatch() kv.Batch {
	return &batch{ldb, new(leveldb.Batch)}
}

type batch struct {
	ldb *LevelDB
	b   *leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int {
	return b.b.Len()
}

func (b *batch) Write() error {
	metricBatchOps().Observe(int64(b.b.Len()))
	return b.ldb.db.Write(b.b, b.ldb.batchOpts)
}
