// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for events
const eventTableSchema = `
create table if not exists event (
	blockNumber integer,
	eventIndex integer,
	blockTime integer,
	clauseIndex integer,
	txID blob(32),
	txOrigin blob(20),
	name text,
	miner blob(20),
	account blob(20),
	data blob,
	primary key (blockNumber, eventIndex)
);

CREATE INDEX if not exists minerIndex on event(miner);
CREATE INDEX if not exists nameIndex on event(name);
CREATE INDEX if not exists txIDIndex on event(txID);
`
