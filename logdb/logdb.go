// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/metrics"
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
)

var metricQueryCount = metrics.LazyLoadCounterVec("logdb_queries_count", []string{"order"})

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// every connection to :memory: opens its own database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the sqlite library.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Prepare starts a batch collecting the events of one block.
func (db *LogDB) Prepare(blockNumber uint32, blockTime uint64) *BlockBatch {
	return &BlockBatch{
		db:          db.db,
		blockNumber: blockNumber,
		blockTime:   blockTime,
	}
}

// Write stores the events of the receipts of a block. Reverted receipts carry no events.
func (db *LogDB) Write(blockNumber uint32, blockTime uint64, receipts tx.Receipts) error {
	batch := db.Prepare(blockNumber, blockTime)
	for _, r := range receipts {
		if r.Reverted {
			continue
		}
		for i, output := range r.Outputs {
			batch.ForTransaction(r.TxID, r.Origin).Insert(uint32(i), output.Events)
		}
	}
	return batch.Commit()
}

// NewestBlock returns the highest block number having events, or zero.
func (db *LogDB) NewestBlock(ctx context.Context) (uint32, error) {
	var n sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(blockNumber) FROM event").Scan(&n); err != nil {
		return 0, err
	}
	return uint32(n.Int64), nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT blockNumber, eventIndex, blockTime, clauseIndex, txID, txOrigin, name, miner, account, data FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY blockNumber ASC,eventIndex ASC")
	}
	var args []any
	stmt := query + " WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND blockNumber >= ? "
		if filter.Range.To >= filter.Range.From && filter.Range.To > 0 {
			args = append(args, filter.Range.To)
			stmt += " AND blockNumber <= ? "
		}
	}
	if filter.Miner != nil {
		args = append(args, filter.Miner.Bytes())
		stmt += " AND miner = ? "
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ? "
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		stmt += " AND name = ? "
	}
	if filter.TxID != nil {
		args = append(args, filter.TxID.Bytes())
		stmt += " AND txID = ? "
	}

	if filter.Order == DESC {
		stmt += " ORDER BY blockNumber DESC,eventIndex DESC "
	} else {
		stmt += " ORDER BY blockNumber ASC,eventIndex ASC "
	}
	metricQueryCount().AddWithLabel(1, map[string]string{"order": string(filter.Order)})

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			blockNumber uint32
			index       uint32
			blockTime   uint64
			clauseIndex uint32
			txID        []byte
			txOrigin    []byte
			name        string
			miner       []byte
			account     []byte
			data        []byte
		)
		if err := rows.Scan(
			&blockNumber,
			&index,
			&blockTime,
			&clauseIndex,
			&txID,
			&txOrigin,
			&name,
			&miner,
			&account,
			&data,
		); err != nil {
			return nil, err
		}
		events = append(events, &Event{
			BlockNumber: blockNumber,
			Index:       index,
			BlockTime:   blockTime,
			ClauseIndex: clauseIndex,
			TxID:        thor.BytesToBytes32(txID),
			TxOrigin:    thor.BytesToAddress(txOrigin),
			Name:        name,
			Miner:       thor.BytesToAddress(miner),
			Account:     accountFromBytes(account),
			Data:        data,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// BlockBatch collects events of a block and writes them in one sql transaction.
type BlockBatch struct {
	db          *sql.DB
	blockNumber uint32
	blockTime   uint64
	events      []*Event
	err         error
}

func (bb *BlockBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := bb.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Commit writes the collected events. The first encoding error met while inserting is returned instead.
func (bb *BlockBatch) Commit() error {
	if bb.err != nil {
		return bb.err
	}
	return bb.execInTx(func(tx *sql.Tx) error {
		for _, event := range bb.events {
			if _, err := tx.Exec("INSERT OR REPLACE INTO event(blockNumber, eventIndex, blockTime, clauseIndex, txID, txOrigin, name, miner, account, data) VALUES ( ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				event.BlockNumber,
				event.Index,
				event.BlockTime,
				event.ClauseIndex,
				event.TxID.Bytes(),
				event.TxOrigin.Bytes(),
				event.Name,
				event.Miner.Bytes(),
				accountBytes(event.Account),
				[]byte(event.Data),
			); err != nil {
				return errors.Wrap(err, "insert event")
			}
		}
		return nil
	})
}

// ForTransaction collects the events of the clauses of one tx.
func (bb *BlockBatch) ForTransaction(txID thor.Bytes32, txOrigin thor.Address) struct {
	Insert func(clauseIndex uint32, events tx.Events) *BlockBatch
} {
	return struct {
		Insert func(clauseIndex uint32, events tx.Events) *BlockBatch
	}{
		func(clauseIndex uint32, events tx.Events) *BlockBatch {
			for _, event := range events {
				if bb.err != nil {
					break
				}
				ev, err := newEvent(bb.blockNumber, bb.blockTime, uint32(len(bb.events)), clauseIndex, txID, txOrigin, event)
				if err != nil {
					bb.err = err
					break
				}
				bb.events = append(bb.events, ev)
			}
			return bb
		},
	}
}

// a missing account is stored as NULL, so an account filter never matches it
func accountBytes(account *thor.Address) []byte {
	if account == nil {
		return nil
	}
	return account.Bytes()
}

func accountFromBytes(b []byte) *thor.Address {
	if len(b) == 0 {
		return nil
	}
	addr := thor.BytesToAddress(b)
	return &addr
}
