// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/vechain/powerledger/log"
	"github.com/vechain/powerledger/thor"
)

var logger = log.WithContext("pkg", "solidity")

// ConfigVariable is a contract parameter with a compiled-in default,
// which can be overridden by a non-zero value stored in the contract's slot.
type ConfigVariable struct {
	slot        thor.Bytes32
	name        string
	value       uint32
	initialised bool
}

func NewConfigVariable(name string, defaultValue uint32) *ConfigVariable {
	return &ConfigVariable{
		slot:  thor.BytesToBytes32([]byte(name)),
		name:  name,
		value: defaultValue,
	}
}

func (c *ConfigVariable) Get() uint32 {
	return c.value
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() thor.Bytes32 {
	return c.slot
}

// Store writes value into the contract slot, used by genesis to seed overrides.
// Zero can not be stored as an override, it reads back as the default.
func (c *ConfigVariable) Store(ctx *Context, value uint32) {
	var word thor.Bytes32
	binary.BigEndian.PutUint32(word[28:], value)
	ctx.state.SetStorage(ctx.address, c.slot, word)
	c.value = value
	c.initialised = true
}

func (c *ConfigVariable) Override(ctx *Context) {
	if c.initialised { // early return to prevent subsequent reads
		return
	}
	storage, err := ctx.state.GetStorage(ctx.address, c.slot)
	if err != nil {
		logger.Warn("failed to read config value", "slot", c.Name(), "error", err)
		return
	}

	c.initialised = true

	if v := binary.BigEndian.Uint32(storage[28:]); v != 0 {
		c.value = v
		logger.Debug("override found new config value", "slot", c.Name(), "value", c.Get())
	} else {
		logger.Debug("using default config value", "slot", c.Name(), "value", c.Get())
	}
}
