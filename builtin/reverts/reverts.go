// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import "errors"

// ErrRevert is a business-rule failure of a built-in contract.
// The clause reverts with it and nothing it wrote survives; the node keeps running.
type ErrRevert struct {
	msg string
}

func New(msg string) *ErrRevert {
	return &ErrRevert{msg}
}

func (e *ErrRevert) Error() string {
	return e.msg
}

// IsRevertErr reports whether err is, or wraps, a revert.
func IsRevertErr(err error) bool {
	var r *ErrRevert
	return errors.As(err, &r) && r != nil
}
