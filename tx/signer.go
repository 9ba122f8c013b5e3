// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/thor"
)

// Sign returns a copy of trx carrying key's secp256k1 signature over the signing hash.
func Sign(trx *Transaction, key *ecdsa.PrivateKey) (*Transaction, error) {
	hash := trx.SigningHash()
	sig, err := crypto.Sign(hash[:], key)
	if err != nil {
		return nil, errors.Wrap(err, "sign tx")
	}
	return trx.WithSignature(sig), nil
}

// MustSign is Sign for tests and genesis fixtures.
func MustSign(trx *Transaction, key *ecdsa.PrivateKey) *Transaction {
	signed, err := Sign(trx, key)
	if err != nil {
		panic(err)
	}
	return signed
}

// recoverSigner is the account whose key produced sig over hash.
func recoverSigner(hash thor.Bytes32, sig []byte) (thor.Address, error) {
	if len(sig) == 0 {
		return thor.Address{}, errNoSignature
	}
	pub, err := crypto.SigToPub(hash[:], sig)
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "recover origin")
	}
	return thor.Address(crypto.PubkeyToAddress(*pub)), nil
}
