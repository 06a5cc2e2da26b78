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
	"fmt"
	"slices"
	"time"
)

// Config holds the connection parameters for one invocation. It is a value
// type; build it with DefaultConfig and adjust fields before NewClient.
type Config struct {
	// Port is the serial device (e.g. /dev/ttyUSB0, COM3) or tcp://host:port
	// for a Modbus TCP gateway.
	Port     string
	Address  int
	BaudRate int
	Timeout  time.Duration
}

// DefaultConfig returns a Config for port with the collector defaults.
func DefaultConfig(port string) Config {
	return Config{
		Port:     port,
		Address:  DefaultAddress,
		BaudRate: DefaultBaudRate,
		Timeout:  DefaultTimeout,
	}
}

// Validate checks every field and returns an error wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port is required", ErrInvalidConfig)
	}
	if c.Address < MinAddress || c.Address > MaxAddress {
		return fmt.Errorf("%w: address %d out of range %d-%d", ErrInvalidConfig, c.Address, MinAddress, MaxAddress)
	}
	if !slices.Contains(BaudRates, c.BaudRate) {
		return fmt.Errorf("%w: unsupported baud rate %d (supported: %v)", ErrInvalidConfig, c.BaudRate, BaudRates)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidConfig, c.Timeout)
	}
	return nil
}
