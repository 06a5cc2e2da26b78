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

package publish

import (
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"gotest.tools/v3/assert"

	"github.com/edgeo-scada/r4dcb08"
)

type fakeToken struct {
	err      error
	complete bool
}

func (t *fakeToken) Wait() bool                     { return t.complete }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.complete }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if t.complete {
		close(ch)
	}
	return ch
}

type published struct {
	topic   string
	qos     byte
	retain  bool
	payload []byte
}

type fakeAPI struct {
	token        *fakeToken
	messages     []published
	disconnected uint
}

func (f *fakeAPI) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.messages = append(f.messages, published{topic, qos, retained, payload.([]byte)})
	return f.token
}

func (f *fakeAPI) Disconnect(quiesce uint) {
	f.disconnected = quiesce
}

func snapshot() Snapshot {
	return Snapshot{
		Time:    time.Unix(1760000000, 0),
		Address: 2,
		Temperatures: []r4dcb08.Temperature{
			{Celsius: 22.5, Valid: true},
			{Celsius: -15, Valid: true},
			{},
		},
	}
}

func TestSnapshotMarshal(t *testing.T) {
	data, err := snapshot().Marshal()
	assert.NilError(t, err)
	assert.Equal(t, string(data),
		`{"ts":1760000000,"address":2,"channels":[{"channel":0,"celsius":22.5},{"channel":1,"celsius":-15},{"channel":2,"celsius":null}]}`)
}

func TestDefaultTopic(t *testing.T) {
	assert.Equal(t, DefaultTopic(1), "r4dcb08/1/temperatures")
}

func TestPublish(t *testing.T) {
	api := &fakeAPI{token: &fakeToken{complete: true}}
	p := NewWithAPI(api, Config{Topic: "plant/r4dcb08", QoS: 1, Retain: true})

	assert.NilError(t, p.Publish(snapshot()))
	assert.Equal(t, len(api.messages), 1)

	msg := api.messages[0]
	assert.Equal(t, msg.topic, "plant/r4dcb08")
	assert.Equal(t, msg.qos, byte(1))
	assert.Assert(t, msg.retain)
	assert.Assert(t, len(msg.payload) > 0)

	p.Close()
	assert.Equal(t, api.disconnected, uint(250))
}

func TestPublishError(t *testing.T) {
	brokerErr := errors.New("not authorized")
	api := &fakeAPI{token: &fakeToken{complete: true, err: brokerErr}}
	p := NewWithAPI(api, Config{Topic: "plant/r4dcb08"})

	err := p.Publish(snapshot())
	assert.ErrorIs(t, err, brokerErr)
}

func TestPublishTimeout(t *testing.T) {
	api := &fakeAPI{token: &fakeToken{}}
	p := NewWithAPI(api, Config{Topic: "plant/r4dcb08", Timeout: time.Millisecond})

	err := p.Publish(snapshot())
	assert.ErrorContains(t, err, "timed out")
}

func TestNewRequiresTopic(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorContains(t, err, "topic cannot be empty")
}
