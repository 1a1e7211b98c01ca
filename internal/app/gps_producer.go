// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/minevisit/internal/config"
	"github.com/relabs-tech/minevisit/internal/gps"
)

// publisher is the part of mqtt.Client the producers use.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// connectMQTT connects to the configured broker.
func connectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return client, nil
}

// publishFix publishes one fix as retained JSON so late subscribers get the
// latest position at once.
func publishFix(client publisher, topic string, fix gps.Fix) error {
	payload, err := json.Marshal(fix)
	if err != nil {
		return fmt.Errorf("GPS JSON marshal error: %w", err)
	}

	token := client.Publish(topic, 0, true, payload)
	token.Wait()
	return token.Error()
}

// RunGPSProducer opens the GPS serial port, parses NMEA sentences, and
// publishes every RMC fix as JSON to TOPIC_GPS.
func RunGPSProducer(ctx context.Context, cfg *config.Config) error {
	// ---- 1) Connect to MQTT broker ----
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDGPS)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("GPS producer connected to MQTT broker at %s", cfg.MQTTBroker)

	// ---- 2) Open GPS serial port ----
	port, err := serial.Open(gps.SerialOptions(cfg.GPSSerialPort, cfg.GPSBaudRate))
	if err != nil {
		return err
	}
	log.Printf("GPS serial port opened on %s at %d baud", cfg.GPSSerialPort, cfg.GPSBaudRate)

	go func() {
		<-ctx.Done()
		port.Close()
	}()

	err = relayFixes(port, client, cfg.TopicGPS)
	if ctx.Err() != nil {
		log.Println("GPS producer: shutting down")
		return nil
	}
	return err
}

// relayFixes reads NMEA lines from r until it fails and publishes each RMC.
func relayFixes(r io.Reader, client publisher, topic string) error {
	reader := bufio.NewReader(r)

	for {
		line, err := reader.ReadString('\n')
		if fix, ok := gps.ParseLine(line); ok {
			if perr := publishFix(client, topic, fix); perr != nil {
				log.Printf("GPS publish error: %v", perr)
			} else {
				log.Printf("published GPS fix: %+v", fix)
			}
		}
		if err != nil {
			log.Printf("GPS read error: %v", err)
			return err
		}
	}
}
