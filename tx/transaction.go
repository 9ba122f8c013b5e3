// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/thor"
)

var (
	errEmptyClauses   = errors.New("empty clauses")
	errTooManyClauses = errors.Errorf("clauses count exceeds %d", thor.MaxClausesPerTx)
	errNoSignature    = errors.New("unsigned transaction")
)

// Transaction is an immutable tx type.
type Transaction struct {
	body body

	cache struct {
		signingHash atomic.Value
		origin      atomic.Value
		id          atomic.Value
		size        atomic.Value
	}
}

// body describes details of a tx.
type body struct {
	Nonce     uint64
	BlockRef  uint32
	Clauses   Clauses
	Signature []byte
}

// SigningHash returns hash of tx excludes signature.
func (t *Transaction) SigningHash() thor.Bytes32 {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return cached.(thor.Bytes32)
	}
	hash := thor.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			t.body.Nonce,
			t.body.BlockRef,
			t.body.Clauses,
		})
	})
	t.cache.signingHash.Store(hash)
	return hash
}

// Origin extract address of tx originator from signature.
func (t *Transaction) Origin() (thor.Address, error) {
	if cached := t.cache.origin.Load(); cached != nil {
		return cached.(thor.Address), nil
	}
	origin, err := recoverSigner(t.SigningHash(), t.body.Signature)
	if err != nil {
		return thor.Address{}, err
	}
	t.cache.origin.Store(origin)
	return origin, nil
}

// ID returns id of tx.
// ID = hash(signingHash, origin).
// It returns zero Bytes32 if origin not available.
func (t *Transaction) ID() (id thor.Bytes32) {
	if cached := t.cache.id.Load(); cached != nil {
		return cached.(thor.Bytes32)
	}
	defer func() { t.cache.id.Store(id) }()

	origin, err := t.Origin()
	if err != nil {
		return
	}
	return thor.Blake2b(t.SigningHash().Bytes(), origin.Bytes())
}

// Nonce returns nonce value.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// BlockRef returns the lowest block number the tx can be packed into.
func (t *Transaction) BlockRef() uint32 {
	return t.body.BlockRef
}

// Clauses returns clauses in tx.
func (t *Transaction) Clauses() Clauses {
	clauses := make(Clauses, len(t.body.Clauses))
	for i, c := range t.body.Clauses {
		clauses[i] = c.Copy()
	}
	return clauses
}

// Signature returns signature.
func (t *Transaction) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// WithSignature create a new tx with signature set.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{
		body: t.body,
	}
	// copy sig
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	_, size, err := s.Kind()
	if err != nil {
		return err
	}
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	t.cache.size.Store(rlp.ListSize(size))
	return nil
}

// Size returns size in bytes when RLP encoded.
func (t *Transaction) Size() uint64 {
	if cached := t.cache.size.Load(); cached != nil {
		return cached.(uint64)
	}
	data, _ := rlp.EncodeToBytes(t)
	size := uint64(len(data))
	t.cache.size.Store(size)
	return size
}

// Validate checks the shape of the tx, it does not execute anything.
func (t *Transaction) Validate() error {
	if len(t.body.Clauses) == 0 {
		return errEmptyClauses
	}
	if len(t.body.Clauses) > thor.MaxClausesPerTx {
		return errTooManyClauses
	}
	if t.Size() > thor.MaxTxSize {
		return errors.Errorf("size too large (%d > %d)", t.Size(), thor.MaxTxSize)
	}
	if _, err := t.Origin(); err != nil {
		return err
	}
	return nil
}

func (t *Transaction) String() string {
	var (
		originStr = "N/A"
		id        = t.ID()
	)
	if origin, err := t.Origin(); err == nil {
		originStr = origin.String()
	}

	return fmt.Sprintf(`
	Tx(%v, %v)
	Origin:		%v
	Clauses:	%v
	Nonce:		%v
	BlockRef:	%v
	Signature:	0x%x
`, id, t.Size(), originStr, t.body.Clauses, t.body.Nonce, t.body.BlockRef, t.body.Signature)
}

// Transactions a slice of transactions.
type Transactions []*Transaction
