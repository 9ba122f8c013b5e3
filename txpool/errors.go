// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import "github.com/pkg/errors"

var (
	errKnownTx      = errors.New("known transaction")
	errPoolFull     = errors.New("tx pool is full")
	errAccountQuota = errors.New("account quota exceeds")
	errClosed       = errors.New("tx pool closed")

	errPackedTx      = errors.New("tx already packed")
	errOutOfSchedule = errors.New("block ref out of schedule")
)

// badTxError is the error of a tx that can never be accepted.
type badTxError struct {
	msg string
}

func (e badTxError) Error() string {
	return "bad tx: " + e.msg
}

func IsErrKnownTx(err error) bool {
	return err == errKnownTx
}

// IsBadTx reports whether err means the tx itself is malformed.
func IsBadTx(err error) bool {
	_, ok := err.(badTxError)
	return ok
}

// IsTxRejected reports whether the tx was valid but refused, by pool limits or because the chain
// already has it or is not close enough to its block ref.
func IsTxRejected(err error) bool {
	switch err {
	case errPoolFull, errAccountQuota, errPackedTx, errOutOfSchedule:
		return true
	}
	return false
}
