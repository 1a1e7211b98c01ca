// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/minevisit/internal/config"
	"github.com/relabs-tech/minevisit/internal/coords"
	"github.com/relabs-tech/minevisit/internal/gps"
)

// RunConsoleMQTT prints every relayed fix with its visit form coordinates
// until ctx is cancelled.
func RunConsoleMQTT(ctx context.Context, cfg *config.Config) error {
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	gpsToken := client.Subscribe(cfg.TopicGPS, 0, func(_ mqtt.Client, msg mqtt.Message) {
		f, err := gps.DecodeFix(msg.Payload())
		if err != nil {
			log.Printf("console: gps unmarshal error: %v", err)
			return
		}
		fmt.Println(formatFixLine(f))
	})
	gpsToken.Wait()
	if gpsToken.Error() != nil {
		return gpsToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicGPS)

	<-ctx.Done()

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func formatFixLine(f gps.Fix) string {
	d := coords.NewDisplay(f.Latitude, f.Longitude)
	return fmt.Sprintf(
		"[GPS ]  time=%s date=%s lat=%.6f lon=%.6f validity=%s  |  %s  |  %s",
		f.Time, f.Date, f.Latitude, f.Longitude, f.Validity, d.DMS, d.Projected,
	)
}
