// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/powerledger/thor"
)

type clauseBody struct {
	To     thor.Address
	Method string
	Data   []byte
}

// Clause is the basic execution unit of a transaction.
// It names a built-in contract, one of its methods, and the RLP encoded arguments.
type Clause struct {
	body clauseBody
}

// NewClause create a new clause instance.
func NewClause(to thor.Address, method string) *Clause {
	return &Clause{
		clauseBody{
			To:     to,
			Method: method,
		},
	}
}

// WithData create a new clause copy with data changed.
func (c *Clause) WithData(data []byte) *Clause {
	newClause := *c
	newClause.body.Data = append([]byte(nil), data...)
	return &newClause
}

// WithArgs create a new clause copy with args RLP encoded as data.
func (c *Clause) WithArgs(args any) (*Clause, error) {
	data, err := rlp.EncodeToBytes(args)
	if err != nil {
		return nil, err
	}
	return c.WithData(data), nil
}

// To returns the target contract address.
func (c *Clause) To() thor.Address {
	return c.body.To
}

// Method returns the method name.
func (c *Clause) Method() string {
	return c.body.Method
}

// Data returns 'Data'.
func (c *Clause) Data() []byte {
	return append([]byte(nil), c.body.Data...)
}

// Copy returns a deep copy of the clause.
func (c *Clause) Copy() *Clause {
	return c.WithData(c.body.Data)
}

// EncodeRLP implements rlp.Encoder
func (c *Clause) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &c.body)
}

// DecodeRLP implements rlp.Decoder
func (c *Clause) DecodeRLP(s *rlp.Stream) error {
	var body clauseBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*c = Clause{body}
	return nil
}

func (c *Clause) String() string {
	return fmt.Sprintf(`
		(To:	%v
		 Method:	%v
		 Data:	0x%x)`, c.body.To, c.body.Method, c.body.Data)
}

// Clauses array of clauses.
type Clauses []*Clause
