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

// Package publish sends temperature snapshots to an MQTT broker.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/edgeo-scada/r4dcb08"
)

// Defaults.
const (
	DefaultBroker   = "tcp://localhost:1883"
	DefaultClientID = "r4dcb08"
	DefaultTimeout  = 10 * time.Second
	topicFormat     = "r4dcb08/%d/temperatures"
)

// Config holds the broker connection and topic settings.
type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
	QoS      byte
	Retain   bool
	Timeout  time.Duration
}

// DefaultTopic returns the state topic for a device address.
func DefaultTopic(address int) string {
	return fmt.Sprintf(topicFormat, address)
}

// API is the subset of the paho client used by Publisher.
type API interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Snapshot is one read-all result.
type Snapshot struct {
	Time         time.Time
	Address      int
	Temperatures []r4dcb08.Temperature
}

type channelState struct {
	Channel int      `json:"channel"`
	Celsius *float64 `json:"celsius"`
}

type payload struct {
	Ts       int64          `json:"ts"`
	Address  int            `json:"address"`
	Channels []channelState `json:"channels"`
}

// Marshal encodes s as the published JSON document. Channels without a
// sensor carry a null reading.
func (s Snapshot) Marshal() ([]byte, error) {
	p := payload{
		Ts:       s.Time.Unix(),
		Address:  s.Address,
		Channels: make([]channelState, len(s.Temperatures)),
	}
	for i, t := range s.Temperatures {
		p.Channels[i].Channel = i
		if t.Valid {
			v := t.Celsius
			p.Channels[i].Celsius = &v
		}
	}
	return json.Marshal(p)
}

// Publisher publishes snapshots to a single topic.
type Publisher struct {
	api API
	cfg Config
}

// New connects to the broker.
func New(cfg Config) (*Publisher, error) {
	if cfg.Topic == "" {
		return nil, errors.New("publish: topic cannot be empty")
	}
	if cfg.Broker == "" {
		cfg.Broker = DefaultBroker
	}
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(cfg.Timeout).
		SetAutoReconnect(false)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	t := client.Connect()
	if !t.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("mqtt connect %s: timed out after %v", cfg.Broker, cfg.Timeout)
	}
	if err := t.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}
	return NewWithAPI(client, cfg), nil
}

// NewWithAPI wraps an already connected client.
func NewWithAPI(api API, cfg Config) *Publisher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Publisher{api: api, cfg: cfg}
}

// Publish sends s and waits for the broker acknowledgement.
func (p *Publisher) Publish(s Snapshot) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	t := p.api.Publish(p.cfg.Topic, p.cfg.QoS, p.cfg.Retain, data)
	if !t.WaitTimeout(p.cfg.Timeout) {
		return fmt.Errorf("mqtt publish %s: timed out after %v", p.cfg.Topic, p.cfg.Timeout)
	}
	if err := t.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", p.cfg.Topic, err)
	}
	return nil
}

// Topic returns the state topic.
func (p *Publisher) Topic() string {
	return p.cfg.Topic
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.api.Disconnect(250)
}
