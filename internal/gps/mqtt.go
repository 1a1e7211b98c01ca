// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"context"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// MQTTLocator waits for the next fix published on a topic, normally the
// retained fix of the GPS producer.
type MQTTLocator struct {
	Broker   string
	ClientID string
	Topic    string
}

func (l *MQTTLocator) Locate(ctx context.Context) (Fix, error) {
	// Requests may overlap; the broker drops a session whose client ID is reused.
	clientID := l.ClientID + "-" + uuid.NewString()[:8]

	opts := mqtt.NewClientOptions().
		AddBroker(l.Broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return Fix{}, fmt.Errorf("connect MQTT broker %s: %w", l.Broker, token.Error())
	}
	defer client.Disconnect(250)

	fixes := make(chan Fix, 1)
	token := client.Subscribe(l.Topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		f, err := DecodeFix(msg.Payload())
		if err != nil {
			log.Printf("gps: %s payload error: %v", l.Topic, err)
			return
		}
		if !f.Valid() {
			return
		}
		select {
		case fixes <- f:
		default:
		}
	})
	token.Wait()
	if token.Error() != nil {
		return Fix{}, fmt.Errorf("subscribe %s: %w", l.Topic, token.Error())
	}

	select {
	case f := <-fixes:
		return f, nil
	case <-ctx.Done():
		return Fix{}, fmt.Errorf("waiting for GPS fix on %s: %w", l.Topic, ctx.Err())
	}
}
