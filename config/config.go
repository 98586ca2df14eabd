// Copyright 2023 Cypress
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/cypress-chain/go-cypress/log"
)

// NetworkConf describes one chain endpoint a client can sign for.
type NetworkConf struct {
	Name     string `yaml:"name"`     // human readable network name
	ChainID  int64  `yaml:"chainid"`  // chain id folded into signature V
	Endpoint string `yaml:"endpoint"` // JSON-RPC endpoint URL
	GasPrice int64  `yaml:"gasprice"` // optional static gas price, 0 means ask the node
}

func (nc NetworkConf) String() string {
	return fmt.Sprintf("{Name:%s ChainID:%d Endpoint:%s}", nc.Name, nc.ChainID, nc.Endpoint)
}

func (nc NetworkConf) Validate() error {
	if nc.Name == "" {
		return errors.New("network name must not be empty")
	}
	if nc.ChainID <= 0 {
		return fmt.Errorf("network %s: chainid must be positive", nc.Name)
	}
	if nc.Endpoint == "" {
		return fmt.Errorf("network %s: endpoint must not be empty", nc.Name)
	}
	return nil
}

// ChainIDBig returns the chain id as consumed by the signing layer.
func (nc NetworkConf) ChainIDBig() *big.Int {
	return big.NewInt(nc.ChainID)
}

type Config struct {
	Networks []NetworkConf `yaml:"networks"`
	Default  string        `yaml:"default"` // name of the network used when none is given
}

// Well known networks, usable without a config file.
var (
	Mainnet = NetworkConf{Name: "mainnet", ChainID: 8217, Endpoint: "https://rpc.cypress.net"}
	Testnet = NetworkConf{Name: "testnet", ChainID: 1001, Endpoint: "https://rpc.testnet.cypress.net"}
)

// LoadConfig reads and validates a yaml config file.
func LoadConfig(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	config := new(Config)
	if err = yaml.Unmarshal(contents, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	log.WithField("L", "CONFIG").Infof("loaded %d network(s) from %s", len(config.Networks), path)
	return config, nil
}

func (c *Config) Validate() error {
	if len(c.Networks) == 0 {
		return errors.New("at least one network must be configured")
	}
	seen := make(map[string]struct{}, len(c.Networks))
	for _, nc := range c.Networks {
		if err := nc.Validate(); err != nil {
			return err
		}
		if _, ok := seen[nc.Name]; ok {
			return fmt.Errorf("duplicate network name %s", nc.Name)
		}
		seen[nc.Name] = struct{}{}
	}
	if c.Default != "" {
		if _, err := c.Network(c.Default); err != nil {
			return fmt.Errorf("default network: %w", err)
		}
	}
	return nil
}

// Network looks up a configured network by name. An empty name resolves to
// the configured default, falling back to the first entry.
func (c *Config) Network(name string) (NetworkConf, error) {
	if name == "" {
		if c.Default != "" {
			name = c.Default
		} else if len(c.Networks) > 0 {
			return c.Networks[0], nil
		}
	}
	for _, nc := range c.Networks {
		if nc.Name == name {
			return nc, nil
		}
	}
	return NetworkConf{}, fmt.Errorf("network %s not configured", name)
}
