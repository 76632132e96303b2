// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/bubble_level/internal/config"
	"github.com/relabs-tech/bubble_level/internal/level"
	"github.com/relabs-tech/bubble_level/internal/orientation"
)

// RunLevelProducer samples the configured motion source, logs the level
// readout and publishes readings to MQTT until ctx is done.
func RunLevelProducer(ctx context.Context) error {
	log.Println("starting bubble-level producer")

	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}

	hub := orientation.NewHub()
	src, err := NewMotionSource(cfg, hub)
	if err != nil {
		return err
	}

	var client mqtt.Client
	if cfg.MQTTBroker != "" {
		client, err = connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
		if err != nil {
			return fmt.Errorf("MQTT connect: %w", err)
		}
		defer client.Disconnect(250)
		log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

		if err := subscribe(client, cfg.TopicOrientation, orientationHandler(hub)); err != nil {
			return fmt.Errorf("MQTT subscribe %s: %w", cfg.TopicOrientation, err)
		}
		log.Printf("subscribed to MQTT topic %s", cfg.TopicOrientation)
	} else {
		log.Println("MQTT_BROKER not set, readings are only logged")
	}

	state := level.NewState()
	detector := level.New(src, state, level.Options{
		Interval:           cfg.SampleEvery(),
		InitialOrientation: cfg.InitialOrientation,
		Notifier:           hub,
	})
	defer detector.Close()
	detector.Start()

	if client != nil {
		topic := cfg.TopicLevel
		go publishReadings(ctx, state, time.Duration(cfg.PublishInterval)*time.Millisecond, func(payload []byte) error {
			token := client.Publish(topic, 0, true, payload)
			token.Wait()
			return token.Error()
		})
	}

	logReadings(ctx, state, time.Duration(cfg.ConsoleLogInterval)*time.Millisecond)
	log.Println("bubble-level producer: shutting down")
	return nil
}

// publishReadings publishes the latest reading every interval, skipping
// intervals without a new sample.
func publishReadings(ctx context.Context, state *level.State, interval time.Duration, publish func([]byte) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastPublished uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		n := state.Updates()
		if n == lastPublished {
			continue
		}
		r, _ := state.Snapshot()
		payload, err := json.Marshal(r)
		if err != nil {
			log.Printf("json marshal error (reading): %v", err)
			continue
		}
		if err := publish(payload); err != nil {
			log.Printf("MQTT publish error (level): %v", err)
			continue
		}
		lastPublished = n
	}
}

// logReadings logs the level readout every interval until ctx is done.
func logReadings(ctx context.Context, state *level.State, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		r, ok := state.Snapshot()
		if !ok {
			continue
		}
		log.Printf("level: %s  z=%s  orientation=%s",
			level.Describe(r), level.FixedLengthString(r.ZAcceleration, 1, 3), r.Orientation)
	}
}
