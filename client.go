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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edgeo-scada/r4dcb08/internal/transport"
)

// Client talks to one collector. Each operation performs exactly one
// register transaction and failed transactions are never retried.
//
// A Client is not safe for concurrent use.
type Client struct {
	cfg     Config
	dialer  Dialer
	conn    Transport
	metrics *Metrics
	logger  *slog.Logger
}

// NewClient validates cfg and creates a disconnected client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	c := &Client{
		cfg:     cfg,
		dialer:  options.dialer,
		metrics: NewMetrics(),
		logger:  options.logger,
	}
	if c.dialer == nil {
		c.dialer = c.dialTransport
	}
	return c, nil
}

func (c *Client) dialTransport(_ context.Context, cfg Config) (Transport, error) {
	conn, err := transport.Open(c.linkConfig(cfg))
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// linkConfig maps cfg onto the fixed 8N1 serial framing.
func (c *Client) linkConfig(cfg Config) transport.Config {
	return transport.Config{
		Port:     cfg.Port,
		SlaveID:  byte(cfg.Address),
		BaudRate: cfg.BaudRate,
		DataBits: DataBits,
		Parity:   Parity,
		StopBits: StopBits,
		Timeout:  cfg.Timeout,
		Logger:   slog.NewLogLogger(c.logger.Handler(), slog.LevelDebug),
	}
}

// Connect opens the transport. Calling Connect on a connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return &ConnectionError{Port: c.cfg.Port, Err: err}
	}

	c.logger.Debug("connecting",
		slog.String("port", c.cfg.Port),
		slog.Int("address", c.cfg.Address),
		slog.Int("baudrate", c.cfg.BaudRate),
		slog.Duration("timeout", c.cfg.Timeout))

	conn, err := c.dialer(ctx, c.cfg)
	if err != nil {
		return &ConnectionError{Port: c.cfg.Port, Err: err}
	}
	c.conn = conn

	c.logger.Debug("connected", slog.String("port", c.cfg.Port))
	return nil
}

// Disconnect releases the transport. It is safe to call at any time and more
// than once.
func (c *Client) Disconnect() error {
	if c.conn == nil {
		return nil
	}
	conn := c.conn
	c.conn = nil

	c.logger.Debug("closing connection", slog.String("port", c.cfg.Port))
	return conn.Close()
}

// IsConnected returns true if the client is connected.
func (c *Client) IsConnected() bool {
	return c.conn != nil
}

// Config returns the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Metrics returns the client metrics.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// ReadAllTemperatures reads the temperature bank. The result is indexed by
// channel; channels without a sensor are not Valid.
func (c *Client) ReadAllTemperatures(ctx context.Context) ([]Temperature, error) {
	regs, err := c.readRegisters(ctx, "read temperatures", TemperatureBase, Channels)
	if err != nil {
		return nil, err
	}
	temps := make([]Temperature, len(regs))
	for i, raw := range regs {
		temps[i] = DecodeTemperature(raw)
	}
	return temps, nil
}

// ReadSingleTemperature reads the temperature of one channel.
func (c *Client) ReadSingleTemperature(ctx context.Context, channel int) (Temperature, error) {
	if err := ValidateChannel(channel); err != nil {
		return Temperature{}, err
	}
	regs, err := c.readRegisters(ctx, fmt.Sprintf("read temperature channel %d", channel), TemperatureRegister(channel), 1)
	if err != nil {
		return Temperature{}, err
	}
	return DecodeTemperature(regs[0]), nil
}

// ReadAllCorrections reads the correction bank, indexed by channel.
func (c *Client) ReadAllCorrections(ctx context.Context) ([]float64, error) {
	regs, err := c.readRegisters(ctx, "read corrections", CorrectionBase, Channels)
	if err != nil {
		return nil, err
	}
	corrections := make([]float64, len(regs))
	for i, raw := range regs {
		corrections[i] = DecodeCorrection(raw)
	}
	return corrections, nil
}

// SetTemperatureCorrection writes the correction of one channel. The value is
// rounded to the nearest 0.1 °C.
func (c *Client) SetTemperatureCorrection(ctx context.Context, channel int, celsius float64) error {
	if err := ValidateChannel(channel); err != nil {
		return err
	}
	raw, err := EncodeCorrection(celsius)
	if err != nil {
		return err
	}
	return c.writeRegister(ctx, fmt.Sprintf("set correction channel %d", channel), CorrectionRegister(channel), raw)
}

func (c *Client) readRegisters(ctx context.Context, op string, addr, qty uint16) ([]uint16, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.logger.Debug("sending request",
		slog.String("func", FuncReadHoldingRegisters.String()),
		slog.Uint64("register", uint64(addr)),
		slog.Uint64("quantity", uint64(qty)))

	start := time.Now()
	data, err := c.conn.ReadHoldingRegisters(addr, qty)
	if err == nil {
		var regs []uint16
		if regs, err = decodeRegisters(data, qty); err == nil {
			c.metrics.observe(FuncReadHoldingRegisters, time.Since(start), nil)
			c.logger.Debug("received response", slog.Any("registers", regs))
			return regs, nil
		}
	}
	c.metrics.observe(FuncReadHoldingRegisters, time.Since(start), err)
	return nil, &ModbusError{Op: op, Function: FuncReadHoldingRegisters, Address: addr, Err: err}
}

func (c *Client) writeRegister(ctx context.Context, op string, addr, value uint16) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.logger.Debug("sending request",
		slog.String("func", FuncWriteSingleRegister.String()),
		slog.Uint64("register", uint64(addr)),
		slog.Int("value", int(int16(value))))

	start := time.Now()
	_, err := c.conn.WriteSingleRegister(addr, value)
	c.metrics.observe(FuncWriteSingleRegister, time.Since(start), err)
	if err != nil {
		return &ModbusError{Op: op, Function: FuncWriteSingleRegister, Address: addr, Err: err}
	}
	return nil
}
