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

// Package transport opens Modbus links to the collector through
// github.com/goburrow/modbus, either on a local serial port (RTU) or through
// an RS485/Ethernet gateway speaking Modbus TCP.
package transport

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/goburrow/modbus"
)

// TCPScheme prefixes ports that name a Modbus TCP gateway.
const TCPScheme = "tcp://"

// Config holds the link parameters.
type Config struct {
	Port     string
	SlaveID  byte
	BaudRate int
	DataBits int
	Parity   string
	StopBits int
	Timeout  time.Duration

	// Logger receives the library's frame trace. Nil disables it.
	Logger *log.Logger
}

// Conn is an open link. It issues requests through the embedded modbus.Client.
type Conn struct {
	modbus.Client

	handler io.Closer
	closed  bool
}

// Open connects to cfg.Port.
func Open(cfg Config) (*Conn, error) {
	if cfg.Port == "" {
		return nil, errors.New("transport: port cannot be empty")
	}

	if addr, ok := GatewayAddress(cfg.Port); ok {
		h := newTCPHandler(addr, cfg)
		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("tcp connect %s: %w", addr, err)
		}
		return &Conn{Client: modbus.NewClient(h), handler: h}, nil
	}

	h := newRTUHandler(cfg)
	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("serial open %s: %w", cfg.Port, err)
	}
	return &Conn{Client: modbus.NewClient(h), handler: h}, nil
}

func newTCPHandler(addr string, cfg Config) *modbus.TCPClientHandler {
	h := modbus.NewTCPClientHandler(addr)
	h.SlaveId = cfg.SlaveID
	h.Timeout = cfg.Timeout
	h.Logger = cfg.Logger
	return h
}

func newRTUHandler(cfg Config) *modbus.RTUClientHandler {
	h := modbus.NewRTUClientHandler(cfg.Port)
	h.BaudRate = cfg.BaudRate
	h.DataBits = cfg.DataBits
	h.Parity = cfg.Parity
	h.StopBits = cfg.StopBits
	h.SlaveId = cfg.SlaveID
	h.Timeout = cfg.Timeout
	h.Logger = cfg.Logger
	return h
}

// Close releases the underlying port. Subsequent calls are no-ops.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.handler.Close()
}

// GatewayAddress returns host:port when port uses the tcp:// scheme.
func GatewayAddress(port string) (string, bool) {
	addr, ok := strings.CutPrefix(port, TCPScheme)
	if !ok || addr == "" {
		return "", false
	}
	return addr, true
}
