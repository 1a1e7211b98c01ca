// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log"
	"time"

	"github.com/relabs-tech/minevisit/internal/config"
	"github.com/relabs-tech/minevisit/internal/gps"
)

// fixSource yields successive fixes.
type fixSource interface {
	Next() (gps.Fix, error)
}

// RunMockProducer publishes synthetic fixes around GPS_STATIC_LAT/LON so
// the MQTT geolocation source can be used without a receiver.
func RunMockProducer(ctx context.Context, cfg *config.Config) error {
	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("mock producer connected to MQTT broker at %s", cfg.MQTTBroker)

	src := gps.NewMockSource(cfg.GPSStaticLat, cfg.GPSStaticLon)
	ticker := time.NewTicker(time.Duration(cfg.ProducerInterval) * time.Millisecond)
	defer ticker.Stop()

	return produceFixes(ctx, ticker.C, src, client, cfg.TopicGPS)
}

func produceFixes(ctx context.Context, ticks <-chan time.Time, src fixSource, client publisher, topic string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticks:
			fix, err := src.Next()
			if err != nil {
				log.Printf("error from mock source: %v", err)
				continue
			}

			if err := publishFix(client, topic, fix); err != nil {
				log.Printf("mock producer publish error: %v", err)
				continue
			}
			log.Printf("%s published GPS fix: %.6f,%.6f", t.Format(time.RFC3339), fix.Latitude, fix.Longitude)
		}
	}
}
