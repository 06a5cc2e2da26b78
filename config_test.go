// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package r4dcb08

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB0")

	assert.Equal(t, cfg.Port, "/dev/ttyUSB0")
	assert.Equal(t, cfg.Address, 1)
	assert.Equal(t, cfg.BaudRate, 9600)
	assert.Equal(t, cfg.Timeout, time.Second)
	assert.NilError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty port", func(c *Config) { c.Port = "" }, false},
		{"address 0", func(c *Config) { c.Address = 0 }, false},
		{"address 247", func(c *Config) { c.Address = 247 }, true},
		{"address 248", func(c *Config) { c.Address = 248 }, false},
		{"baud 1200", func(c *Config) { c.BaudRate = 1200 }, true},
		{"baud 19200", func(c *Config) { c.BaudRate = 19200 }, true},
		{"baud 38400", func(c *Config) { c.BaudRate = 38400 }, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, false},
		{"tcp gateway", func(c *Config) { c.Port = "tcp://10.0.0.5:502" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig("/dev/ttyUSB0")
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NilError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
