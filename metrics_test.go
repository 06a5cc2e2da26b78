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
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	var c Counter

	if c.Value() != 0 {
		t.Errorf("Initial value: expected 0, got %d", c.Value())
	}

	c.Add(5)
	if c.Value() != 5 {
		t.Errorf("After Add(5): expected 5, got %d", c.Value())
	}

	c.Add(-2)
	if c.Value() != 3 {
		t.Errorf("After Add(-2): expected 3, got %d", c.Value())
	}

	c.Reset()
	if c.Value() != 0 {
		t.Errorf("After Reset: expected 0, got %d", c.Value())
	}
}

func TestLatencyHistogram(t *testing.T) {
	h := NewLatencyHistogram()

	h.Observe(3 * time.Millisecond)
	h.Observe(8 * time.Millisecond)
	h.Observe(40 * time.Millisecond)
	h.Observe(900 * time.Millisecond)
	h.Observe(3 * time.Second)

	stats := h.Stats()

	if stats.Count != 5 {
		t.Errorf("Count: expected 5, got %d", stats.Count)
	}
	if stats.Min < 2.9 || stats.Min > 3.1 {
		t.Errorf("Min: expected ~3, got %.2f", stats.Min)
	}
	if stats.Max < 2999 || stats.Max > 3001 {
		t.Errorf("Max: expected ~3000, got %.2f", stats.Max)
	}

	for label, want := range map[string]int64{"5ms": 1, "10ms": 1, "50ms": 1, "1s": 1, "+Inf": 1, "100ms": 0} {
		if stats.Buckets[label] != want {
			t.Errorf("Bucket %s: expected %d, got %d", label, want, stats.Buckets[label])
		}
	}
}

func TestLatencyHistogramReset(t *testing.T) {
	h := NewLatencyHistogram()

	h.Observe(5 * time.Millisecond)
	h.Observe(10 * time.Millisecond)

	h.Reset()

	stats := h.Stats()
	if stats.Count != 0 {
		t.Errorf("Count after reset: expected 0, got %d", stats.Count)
	}
	if stats.Sum != 0 {
		t.Errorf("Sum after reset: expected 0, got %.2f", stats.Sum)
	}
}

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics()

	m.observe(FuncReadHoldingRegisters, 20*time.Millisecond, nil)
	m.observe(FuncReadHoldingRegisters, time.Second, errors.New("timeout"))
	m.observe(FuncWriteSingleRegister, 15*time.Millisecond, nil)

	collected := m.Collect()

	if collected["requests"] != int64(3) {
		t.Errorf("requests: expected 3, got %v", collected["requests"])
	}
	if collected["errors"] != int64(1) {
		t.Errorf("errors: expected 1, got %v", collected["errors"])
	}
	if stats := m.Latency.Stats(); stats.Count != 2 {
		t.Errorf("latency count: expected 2 (errors excluded), got %d", stats.Count)
	}

	funcs, ok := collected["functions"].(map[string]interface{})
	if !ok {
		t.Fatalf("functions: expected map, got %T", collected["functions"])
	}
	read := funcs["ReadHoldingRegisters"].(map[string]int64)
	if read["requests"] != 2 || read["errors"] != 1 {
		t.Errorf("ReadHoldingRegisters: expected 2 requests / 1 error, got %v", read)
	}
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()

	m.observe(FuncWriteSingleRegister, 5*time.Millisecond, nil)
	m.Reset()

	if m.Requests.Value() != 0 {
		t.Errorf("Requests after reset: expected 0, got %d", m.Requests.Value())
	}
	if m.ForFunction(FuncWriteSingleRegister).Requests.Value() != 0 {
		t.Error("per-function requests should reset")
	}
	if stats := m.Latency.Stats(); stats.Count != 0 {
		t.Errorf("Latency.Count after reset: expected 0, got %d", stats.Count)
	}
}

func TestFunctionMetrics(t *testing.T) {
	m := NewMetrics()

	fm := m.ForFunction(FuncReadHoldingRegisters)
	fm.Requests.Add(5)

	if fm2 := m.ForFunction(FuncReadHoldingRegisters); fm2.Requests.Value() != 5 {
		t.Errorf("Requests: expected 5, got %d", fm2.Requests.Value())
	}
	if fm3 := m.ForFunction(FuncWriteSingleRegister); fm3.Requests.Value() != 0 {
		t.Errorf("WriteSingleRegister requests: expected 0, got %d", fm3.Requests.Value())
	}
}

func TestFunctionCodeString(t *testing.T) {
	tests := []struct {
		fc     FunctionCode
		expect string
	}{
		{FuncReadHoldingRegisters, "ReadHoldingRegisters"},
		{FuncWriteSingleRegister, "WriteSingleRegister"},
		{FunctionCode(0xFF), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			if tt.fc.String() != tt.expect {
				t.Errorf("FunctionCode %d: expected %s, got %s", tt.fc, tt.expect, tt.fc.String())
			}
		})
	}
}
