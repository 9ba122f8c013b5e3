// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package minerid maps sequential miner indexes to miner addresses and back.
//
// A miner address is the domain tag "miner", the big-endian index, and zero padding:
//
//	6d696e6572 | 0000002a | 00000000000000000000000000
//	  "miner"     index=42       zero padding
package minerid

import (
	"bytes"
	"encoding/binary"

	"github.com/vechain/powerledger/thor"
)

var tag = []byte("miner")

const indexLen = 4

// Derive returns the address of the miner with the given index.
func Derive(index uint32) thor.Address {
	var addr thor.Address
	copy(addr[:], tag)
	binary.BigEndian.PutUint32(addr[len(tag):], index)
	return addr
}

// Recover returns the index encoded in addr.
// It fails for addresses not produced by Derive.
func Recover(addr thor.Address) (uint32, bool) {
	if !bytes.HasPrefix(addr[:], tag) {
		return 0, false
	}
	for _, b := range addr[len(tag)+indexLen:] {
		if b != 0 {
			return 0, false
		}
	}
	return binary.BigEndian.Uint32(addr[len(tag):]), true
}
