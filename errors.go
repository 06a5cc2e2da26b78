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
	"errors"
	"fmt"

	"github.com/goburrow/modbus"
)

// ExceptionCode represents a Modbus exception code.
type ExceptionCode uint8

// Modbus exception codes.
const (
	ExceptionIllegalFunction                    ExceptionCode = 0x01
	ExceptionIllegalDataAddress                 ExceptionCode = 0x02
	ExceptionIllegalDataValue                   ExceptionCode = 0x03
	ExceptionServerDeviceFailure                ExceptionCode = 0x04
	ExceptionAcknowledge                        ExceptionCode = 0x05
	ExceptionServerDeviceBusy                   ExceptionCode = 0x06
	ExceptionMemoryParityError                  ExceptionCode = 0x08
	ExceptionGatewayPathUnavailable             ExceptionCode = 0x0A
	ExceptionGatewayTargetDeviceFailedToRespond ExceptionCode = 0x0B
)

// String returns the string representation of the exception code.
func (e ExceptionCode) String() string {
	switch e {
	case ExceptionIllegalFunction:
		return "illegal function"
	case ExceptionIllegalDataAddress:
		return "illegal data address"
	case ExceptionIllegalDataValue:
		return "illegal data value"
	case ExceptionServerDeviceFailure:
		return "server device failure"
	case ExceptionAcknowledge:
		return "acknowledge"
	case ExceptionServerDeviceBusy:
		return "server device busy"
	case ExceptionMemoryParityError:
		return "memory parity error"
	case ExceptionGatewayPathUnavailable:
		return "gateway path unavailable"
	case ExceptionGatewayTargetDeviceFailedToRespond:
		return "gateway target device failed to respond"
	default:
		return fmt.Sprintf("unknown exception (0x%02X)", uint8(e))
	}
}

// Common errors.
var (
	// ErrNotConnected indicates an operation was attempted before Connect succeeded.
	ErrNotConnected = errors.New("r4dcb08: not connected")

	// ErrInvalidChannel indicates a channel outside 0-7.
	ErrInvalidChannel = errors.New("r4dcb08: invalid channel")

	// ErrInvalidCorrection indicates a correction outside -327.6..+327.6 °C.
	ErrInvalidCorrection = errors.New("r4dcb08: invalid correction")

	// ErrInvalidConfig indicates a rejected connection setting.
	ErrInvalidConfig = errors.New("r4dcb08: invalid config")

	// ErrInvalidResponse indicates the response payload was malformed.
	ErrInvalidResponse = errors.New("r4dcb08: invalid response")
)

// ConnectionError reports a failure to open the transport.
type ConnectionError struct {
	Port string
	Err  error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("r4dcb08: connect %s: %v", e.Port, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ModbusError reports a failed register transaction: no response, a
// malformed frame or an exception response from the device.
type ModbusError struct {
	Op       string
	Function FunctionCode
	Address  uint16
	Err      error
}

// Error implements the error interface.
func (e *ModbusError) Error() string {
	return fmt.Sprintf("r4dcb08: %s (FC=%02X, register 0x%04X): %v", e.Op, uint8(e.Function), e.Address, e.Err)
}

// Unwrap returns the underlying error.
func (e *ModbusError) Unwrap() error {
	return e.Err
}

// Exception returns the exception code when the device answered with an
// exception response.
func (e *ModbusError) Exception() (ExceptionCode, bool) {
	var mbErr *modbus.ModbusError
	if errors.As(e.Err, &mbErr) {
		return ExceptionCode(mbErr.ExceptionCode), true
	}
	return 0, false
}

// IsException checks if an error is a specific Modbus exception.
func IsException(err error, code ExceptionCode) bool {
	var txErr *ModbusError
	if !errors.As(err, &txErr) {
		return false
	}
	ec, ok := txErr.Exception()
	return ok && ec == code
}

// IsIllegalDataAddress checks if the error is an illegal data address exception.
func IsIllegalDataAddress(err error) bool {
	return IsException(err, ExceptionIllegalDataAddress)
}

// IsConnectionError reports whether err came from opening the transport.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}
