// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/powerledger/builtin"
	"github.com/vechain/powerledger/builtin/minerid"
	"github.com/vechain/powerledger/state"
	"github.com/vechain/powerledger/thor"
)

// Config is user customized genesis.
type Config struct {
	Name           string        `yaml:"name"`
	LaunchTime     uint64        `yaml:"launchTime"`
	BlockInterval  uint64        `yaml:"blockInterval"`
	WorkerKeyDelay *uint32       `yaml:"workerKeyDelay"` // must be positive when set
	Miners         []MinerConfig `yaml:"miners"`
}

// MinerConfig is a miner created at genesis, in the order listed.
// Worker defaults to Owner.
type MinerConfig struct {
	Owner           thor.Address  `yaml:"owner"`
	Worker          *thor.Address `yaml:"worker"`
	PeerID          hexutil.Bytes `yaml:"peerID"`
	RawBytePower    uint64        `yaml:"rawBytePower"`
	QualityAdjPower uint64        `yaml:"qualityAdjPower"`
}

// LoadConfig reads a YAML genesis config. Unknown fields are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML genesis config.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &cfg, nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(cfg *Config) (*Genesis, error) {
	if cfg.BlockInterval == 0 {
		cfg.BlockInterval = thor.BlockInterval
	}
	if cfg.Name == "" {
		cfg.Name = "customnet"
	}

	builder := new(Builder).Timestamp(cfg.LaunchTime)

	if cfg.WorkerKeyDelay != nil {
		delay := *cfg.WorkerKeyDelay
		// a stored zero reads back as the compiled-in default
		if delay == 0 {
			return nil, errors.New("workerKeyDelay must be positive")
		}
		builder.State(func(st *state.State) error {
			builtin.Miner.WithState(st).SetWorkerKeyDelay(delay)
			return nil
		})
	}

	for i, m := range cfg.Miners {
		if m.Owner.IsZero() {
			return nil, fmt.Errorf("miners[%d]: owner must be set", i)
		}
		worker := m.Owner
		if m.Worker != nil {
			worker = *m.Worker
		}

		builder.Call(builtin.Miner.CreateClause(m.Owner, worker, m.PeerID), m.Owner)

		if m.RawBytePower == 0 && m.QualityAdjPower == 0 {
			continue
		}
		if m.RawBytePower > uint64(1<<63-1) || m.QualityAdjPower > uint64(1<<63-1) {
			return nil, fmt.Errorf("miners[%d]: power exceeds a single claim delta", i)
		}
		// indexes of a fresh registry start at 1
		addr := minerid.Derive(uint32(i + 1))
		builder.Call(builtin.Power.UpdateClaimClause(addr, int64(m.RawBytePower), int64(m.QualityAdjPower)), m.Owner)
	}

	return &Genesis{builder, cfg.Name, cfg.BlockInterval}, nil
}
