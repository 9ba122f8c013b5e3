// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/xenv"
)

// ErrMethodNotFound is returned when a clause names a method no builtin contract implements.
var ErrMethodNotFound = errors.New("native call: method not found")

type addressAndMethod struct {
	thor.Address
	method string
}

var nativeMethods = make(map[addressAndMethod]*NativeMethod)

// NativeMethod is a method of a builtin contract implemented natively.
type NativeMethod struct {
	addr   thor.Address
	method string
	run    func(env *xenv.Environment) error
}

func (n *NativeMethod) Name() string { return n.method }

// Call runs the method in env. Input decoding failures and reverts are returned as error.
func (n *NativeMethod) Call(env *xenv.Environment) error {
	return env.Call(n.run)()
}

// FindNativeMethod returns the native method bound to the contract address with the given name.
func FindNativeMethod(to thor.Address, method string) (*NativeMethod, bool) {
	m, ok := nativeMethods[addressAndMethod{to, method}]
	return m, ok
}

func register(methods ...*NativeMethod) {
	for _, m := range methods {
		key := addressAndMethod{m.addr, m.method}
		if _, dup := nativeMethods[key]; dup {
			panic("duplicated native method " + m.method)
		}
		nativeMethods[key] = m
	}
}
