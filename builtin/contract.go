// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
	"github.com/vechain/powerledger/xenv"
)

type contract struct {
	name    string
	Address thor.Address
}

func newContract(name string) *contract {
	return &contract{
		name,
		thor.BytesToAddress([]byte(name)),
	}
}

// Name returns the contract name.
func (c *contract) Name() string {
	return c.name
}

func (c *contract) impl(method string, run func(env *xenv.Environment) error) *NativeMethod {
	return &NativeMethod{
		addr:   c.Address,
		method: method,
		run:    run,
	}
}

// clause builds a clause calling method with args, which must be RLP encodable.
func (c *contract) clause(method string, args any) *tx.Clause {
	clause, err := tx.NewClause(c.Address, method).WithArgs(args)
	if err != nil {
		panic(fmt.Errorf("encode args of %s.%s: %w", c.name, method, err))
	}
	return clause
}
