// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package miner

import "github.com/vechain/powerledger/thor"

// CanManageKeys reports whether signer may change the worker and controllers.
func CanManageKeys(signer thor.Address, info *Info) bool {
	return signer == info.Owner
}

// CanUpdatePeerID reports whether signer may change the peer id.
func CanUpdatePeerID(signer thor.Address, info *Info) bool {
	return signer == info.Owner || signer == info.Worker || info.isController(signer)
}

// CanProposeOwner reports whether signer may propose a new owner.
func CanProposeOwner(signer thor.Address, info *Info) bool {
	return signer == info.Owner
}

// CanConfirmOwner reports whether signer is the pending owner confirming itself.
func CanConfirmOwner(signer thor.Address, info *Info, proposed thor.Address) bool {
	return info.PendingOwner != nil && signer == *info.PendingOwner && proposed == *info.PendingOwner
}
