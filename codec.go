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
	"encoding/binary"
	"fmt"
	"math"
)

// DecodeTemperature converts a raw temperature word. The NoSensor word
// decodes to an invalid reading.
func DecodeTemperature(raw uint16) Temperature {
	if raw == NoSensor {
		return Temperature{}
	}
	return Temperature{Celsius: float64(int16(raw)) / 10.0, Valid: true}
}

// DecodeCorrection converts a raw correction word to Celsius.
func DecodeCorrection(raw uint16) float64 {
	return float64(int16(raw)) / 10.0
}

// EncodeCorrection converts a correction in Celsius to its register word,
// rounding to the nearest 0.1 °C.
func EncodeCorrection(celsius float64) (uint16, error) {
	if math.IsNaN(celsius) || celsius < MinCorrection || celsius > MaxCorrection {
		return 0, fmt.Errorf("%w: %v °C outside %.1f to %+.1f", ErrInvalidCorrection, celsius, MinCorrection, MaxCorrection)
	}
	return uint16(int16(math.Round(celsius * 10))), nil
}

// ValidateChannel returns an error wrapping ErrInvalidChannel when ch is not 0-7.
func ValidateChannel(ch int) error {
	if ch < 0 || ch >= Channels {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidChannel, ch, Channels-1)
	}
	return nil
}

// TemperatureRegister returns the temperature register of channel ch.
func TemperatureRegister(ch int) uint16 {
	return TemperatureBase + uint16(ch)
}

// CorrectionRegister returns the correction register of channel ch.
func CorrectionRegister(ch int) uint16 {
	return CorrectionBase + uint16(ch)
}

// decodeRegisters splits a big-endian register payload into qty words.
func decodeRegisters(data []byte, qty uint16) ([]uint16, error) {
	if len(data) != int(qty)*2 {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidResponse, int(qty)*2, len(data))
	}
	regs := make([]uint16, qty)
	for i := range regs {
		regs[i] = binary.BigEndian.Uint16(data[i*2:])
	}
	return regs, nil
}
