// Package mqttpub publishes attitude reports to an MQTT broker.
package mqttpub

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"imud/internal/wire"
)

const connectTimeout = 5 * time.Second

// client is the slice of mqtt.Client the publisher uses, kept small so
// tests can substitute a fake.
type client interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

var newClient = func(broker, clientID string) client {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)
	return mqtt.NewClient(opts)
}

// Publisher sends each attitude report to a single topic, retained, so a
// dashboard that connects late still sees the current attitude.
type Publisher struct {
	c     client
	topic string
}

func New(broker, clientID, topic string) (*Publisher, error) {
	c := newClient(broker, clientID)
	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return &Publisher{c: c, topic: topic}, nil
}

// Publish sends one encoded report at QoS 0. Delivery is fire-and-forget;
// the next report supersedes a lost one.
func (p *Publisher) Publish(a wire.Attitude) error {
	payload, err := wire.Encode(a)
	if err != nil {
		return fmt.Errorf("encode attitude: %w", err)
	}
	token := p.c.Publish(p.topic, 0, true, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt publish %s: %w", p.topic, token.Error())
	}
	return nil
}

func (p *Publisher) Close() {
	p.c.Disconnect(250)
}
