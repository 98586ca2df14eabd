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
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
networks:
  - name: mainnet
    chainid: 8217
    endpoint: https://rpc.cypress.net
  - name: local
    chainid: 2019
    endpoint: http://localhost:8545
    gasprice: 25000000000
default: local
`)
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(c.Networks) != 2 {
		t.Fatalf("got %d networks, want 2", len(c.Networks))
	}

	nc, err := c.Network("")
	if err != nil {
		t.Fatalf("Network(default): %v", err)
	}
	if nc.Name != "local" || nc.ChainID != 2019 {
		t.Errorf("default network = %s, want local/2019", nc)
	}
	if nc.ChainIDBig().Int64() != 2019 {
		t.Errorf("ChainIDBig = %s, want 2019", nc.ChainIDBig())
	}

	if _, err := c.Network("nosuch"); err == nil {
		t.Error("unknown network lookup should fail")
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{"empty", `networks: []`},
		{"missing chainid", "networks:\n  - name: x\n    endpoint: http://localhost:8545\n"},
		{"missing endpoint", "networks:\n  - name: x\n    chainid: 1\n"},
		{"duplicate name", "networks:\n  - name: x\n    chainid: 1\n    endpoint: http://a\n  - name: x\n    chainid: 2\n    endpoint: http://b\n"},
		{"bad default", "networks:\n  - name: x\n    chainid: 1\n    endpoint: http://a\ndefault: y\n"},
	}
	for _, c := range cases {
		path := writeConfig(t, c.contents)
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestWellKnownNetworks(t *testing.T) {
	if err := Mainnet.Validate(); err != nil {
		t.Errorf("mainnet preset invalid: %v", err)
	}
	if err := Testnet.Validate(); err != nil {
		t.Errorf("testnet preset invalid: %v", err)
	}
	if Mainnet.ChainID == Testnet.ChainID {
		t.Error("mainnet and testnet share a chain id")
	}
}
