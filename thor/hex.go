// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"errors"
	"strings"
)

// decodeFixedHex decodes s into out, which fixes the expected length.
// The 0x prefix is optional.
func decodeFixedHex(s string, out []byte) error {
	switch {
	case len(s) >= 2 && strings.EqualFold(s[:2], "0x"):
		s = s[2:]
	case len(s) == len(out)*2+2:
		return errors.New("invalid prefix")
	}
	if len(s) != len(out)*2 {
		return errors.New("invalid length")
	}
	_, err := hex.Decode(out, []byte(s))
	return err
}

func encodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
