// Package mqtt publishes power readings for home-automation consumers, with
// abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"
)

// TopicReadings is the MQTT topic for power readings.
const TopicReadings = "energy/solar/display/readings"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "energy/solar/display/system"

// Publisher publishes readings and lifecycle events to MQTT.
type Publisher interface {
	// PublishReading sends the latest power reading to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishReading(r Reading) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Reading is the latest instantaneous power per channel, in watts.
// A nil channel had no data in the latest bucket.
type Reading struct {
	Timestamp time.Time
	Solar     *float64
	Usage     *float64
}

// SystemEvent represents a system lifecycle event (startup, shutdown).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g. "STARTUP", "SHUTDOWN"
	Reason    string // e.g. "SIGTERM", "SIGINT" (shutdown only)
	Retained  bool   // whether the broker should retain the message
}

// Payload represents the reading message payload structure.
type Payload struct {
	Power PowerPayload `json:"power"`
}

// PowerPayload contains the reading details.
type PowerPayload struct {
	Timestamp string        `json:"timestamp"`
	Solar     *ChannelWatts `json:"solar"`
	Usage     *ChannelWatts `json:"usage"`
}

// ChannelWatts is a single channel's reading.
type ChannelWatts struct {
	Watts float64 `json:"watts"`
}

// FormatReadingPayload creates the JSON payload for a power reading.
func FormatReadingPayload(r Reading) ([]byte, error) {
	payload := Payload{
		Power: PowerPayload{
			Timestamp: r.Timestamp.UTC().Format(time.RFC3339),
			Solar:     channelPayload(r.Solar),
			Usage:     channelPayload(r.Usage),
		},
	}
	return json.Marshal(payload)
}

func channelPayload(v *float64) *ChannelWatts {
	if v == nil {
		return nil
	}
	return &ChannelWatts{Watts: *v}
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
