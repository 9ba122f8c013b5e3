// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/powerledger/builtin/miner"
	"github.com/vechain/powerledger/xenv"
)

func init() {
	register(
		Miner.impl("create", func(env *xenv.Environment) error {
			var args CreateArgs
			env.ParseArgs(&args)
			_, err := Miner.WithState(env.State()).Create(env, args.Owner, args.Worker, args.PeerID)
			return err
		}),
		Miner.impl("changeWorkerAddress", func(env *xenv.Environment) error {
			var args ChangeWorkerAddressArgs
			env.ParseArgs(&args)
			return Miner.WithState(env.State()).ChangeWorkerAddress(env, args.Miner, args.NewWorker, args.Controllers)
		}),
		Miner.impl("confirmUpdateWorkerKey", func(env *xenv.Environment) error {
			var args ConfirmUpdateWorkerKeyArgs
			env.ParseArgs(&args)
			return Miner.WithState(env.State()).ConfirmUpdateWorkerKey(env, args.Miner)
		}),
		Miner.impl("changePeerID", func(env *xenv.Environment) error {
			var args ChangePeerIDArgs
			env.ParseArgs(&args)
			return Miner.WithState(env.State()).ChangePeerID(env, args.Miner, args.PeerID)
		}),
		Miner.impl("changeOwnerAddress", func(env *xenv.Environment) error {
			var args ChangeOwnerAddressArgs
			env.ParseArgs(&args)
			return Miner.WithState(env.State()).ChangeOwnerAddress(env, args.Miner, args.NewOwner)
		}),

		Power.impl("updateClaim", func(env *xenv.Environment) error {
			var args UpdateClaimArgs
			env.ParseArgs(&args)

			// claims are reported by the miner itself
			info, err := Miner.WithState(env.State()).Get(args.Miner)
			if err != nil {
				return err
			}
			if info == nil {
				return miner.ErrNoSuchMiner
			}
			if signer := env.Signer(); signer != info.Worker && signer != info.Owner {
				return miner.ErrInvalidSigner
			}

			raw, qa := args.Deltas()
			_, err = Power.WithState(env.State()).UpdateClaim(args.Miner, raw, qa)
			return err
		}),
	)
}
