// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"hash"
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// hashers are reused; slot positions and tx hashes are computed on every storage access.
var hashers = sync.Pool{
	New: func() any {
		h, _ := blake2b.New256(nil)
		return h
	},
}

// Blake2b is the blake2b-256 digest of the concatenation of data.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	return Blake2bFn(func(w io.Writer) {
		for _, b := range data {
			w.Write(b)
		}
	})
}

// Blake2bFn is the blake2b-256 digest of everything fn writes.
func Blake2bFn(fn func(w io.Writer)) (sum Bytes32) {
	h := hashers.Get().(hash.Hash)
	defer func() {
		h.Reset()
		hashers.Put(h)
	}()

	fn(h)
	h.Sum(sum[:0])
	return sum
}
