// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding"

	"github.com/ethereum/go-ethereum/common"
)

const AddressLength = common.AddressLength

var (
	_ encoding.TextMarshaler   = Address{}
	_ encoding.TextUnmarshaler = (*Address)(nil)
)

// Address identifies an account, a miner or a built-in contract.
type Address common.Address

func (a Address) String() string {
	return encodeHex(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText encodes a as 0x-prefixed hex. It also serves JSON, YAML and map keys.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses 40 hex digits, with or without the 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address
	if err := decodeFixedHex(s, a[:]); err != nil {
		return Address{}, err
	}
	return a, nil
}

// MustParseAddress is ParseAddress for constants. It panics on bad input.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// BytesToAddress left-pads b, or keeps its last 20 bytes when longer.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}
