// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/bubble_level/internal/level"
	"github.com/relabs-tech/bubble_level/internal/orientation"
)

// connectMQTT connects to broker with the given client id.
func connectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return client, nil
}

// orientationHandler turns orientation names published on MQTT (e.g.
// "landscape-right") into hub notifications.
func orientationHandler(hub *orientation.Hub) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		name := strings.TrimSpace(string(msg.Payload()))
		d, err := orientation.ParseDevice(name)
		if err != nil {
			log.Printf("mqtt: orientation payload ignored: %v", err)
			return
		}
		hub.Publish(d)
	}
}

// readingHandler stores level readings received on MQTT into state.
func readingHandler(state *level.State) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		var r level.Reading
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("mqtt: reading unmarshal error: %v", err)
			return
		}
		state.Set(r)
	}
}

// subscribe subscribes and waits for the broker to acknowledge.
func subscribe(client mqtt.Client, topic string, handler mqtt.MessageHandler) error {
	token := client.Subscribe(topic, 0, handler)
	token.Wait()
	return token.Error()
}
