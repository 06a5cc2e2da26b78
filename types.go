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

// Package r4dcb08 provides a client for the R4DCB08 8-channel DS18B20
// temperature collector, spoken to over Modbus RTU.
//
// Register transactions are delegated to a Modbus library; this package maps
// channel operations onto the device register map and converts between raw
// register words and Celsius values.
package r4dcb08

//go:generate mockgen -source=types.go -destination=transport_mock_test.go -package=r4dcb08

import (
	"context"
	"time"
)

// FunctionCode represents a Modbus function code.
type FunctionCode uint8

// Function codes issued by the client.
const (
	FuncReadHoldingRegisters FunctionCode = 0x03
	FuncWriteSingleRegister  FunctionCode = 0x06
)

// String returns the string representation of the function code.
func (fc FunctionCode) String() string {
	switch fc {
	case FuncReadHoldingRegisters:
		return "ReadHoldingRegisters"
	case FuncWriteSingleRegister:
		return "WriteSingleRegister"
	default:
		return "Unknown"
	}
}

// Device constants.
const (
	// Channels is the number of sensor inputs on the collector.
	Channels = 8

	// TemperatureBase is the first register of the temperature bank.
	TemperatureBase uint16 = 0x0000

	// CorrectionBase is the first register of the correction bank.
	CorrectionBase uint16 = 0x0008

	// NoSensor is the raw temperature word reported for an absent or faulty sensor.
	NoSensor uint16 = 0x8000

	// MinCorrection and MaxCorrection bound a channel correction in Celsius.
	MinCorrection = -327.6
	MaxCorrection = 327.6
)

// Serial framing. The collector only speaks 8N1.
const (
	DataBits = 8
	Parity   = "N"
	StopBits = 1
)

// Connection defaults.
const (
	DefaultAddress  = 1
	DefaultBaudRate = 9600
	DefaultTimeout  = 1 * time.Second

	MinAddress = 1
	MaxAddress = 247
)

// BaudRates lists the serial speeds supported by the collector.
var BaudRates = []int{1200, 2400, 4800, 9600, 19200}

// Temperature is a decoded channel reading. Valid is false when the device
// reports no sensor on the channel.
type Temperature struct {
	Celsius float64
	Valid   bool
}

// Transport is an open Modbus link to a single unit.
type Transport interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
	Close() error
}

// Dialer opens a Transport for the given configuration.
type Dialer func(ctx context.Context, cfg Config) (Transport, error)
