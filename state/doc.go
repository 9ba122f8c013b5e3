// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the storage of builtin contracts.
// It follows the flow as bellow:
//
//	          o
//	          |
//	 [ revertable state ]
//	          |
//	   [ stacked map ] -> [ journal ] -> [ batch ] -> [ kv store ]
//	          |
//	  [ committed cache ]
//	          |
//	     [ kv store ]
//
// Checkpoints are cheap: reverting pops journal levels and never touches the store.
package state
