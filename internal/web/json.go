package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/solar-monitor/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Reading       ReadingJSON `json:"reading"`
	Stale         bool        `json:"stale"`
	Chart         ChartJSON   `json:"chart"`
	Counts        CountsJSON  `json:"counts"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	MQTT          *MQTTStatus `json:"mqtt,omitempty"`
	Config        ConfigJSON  `json:"config"`
}

// ReadingJSON is the JSON representation of the latest reading.
type ReadingJSON struct {
	Timestamp  string   `json:"timestamp,omitempty"`
	SolarWatts *float64 `json:"solar_watts"`
	UsageWatts *float64 `json:"usage_watts"`
}

// ChartJSON is the JSON representation of the axis state.
type ChartJSON struct {
	OriginTS  int64   `json:"origin_ts"`
	MaxPowerW float64 `json:"max_power_w"`
	WindowLen int     `json:"window_len"`
}

// CountsJSON is the JSON representation of work counters.
type CountsJSON struct {
	Fetches            int `json:"fetches"`
	EmptyFetches       int `json:"empty_fetches"`
	Samples            int `json:"samples"`
	FullRedraws        int `json:"full_redraws"`
	IncrementalRedraws int `json:"incremental_redraws"`
	ReadoutDraws       int `json:"readout_draws"`
	ReadoutSkips       int `json:"readout_skips"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollSeconds   int    `json:"poll_seconds"`
	WindowSeconds int64  `json:"window_seconds"`
	ScrollQuantum int64  `json:"scroll_quantum"`
	InfluxURL     string `json:"influx_url"`
	HTTPAddr      string `json:"http_addr"`
	Display       string `json:"display"`
}

func formatJSON(snap status.Snapshot) []byte {
	inner := StatusInner{
		Reading: ReadingJSON{
			SolarWatts: snap.Reading.Solar,
			UsageWatts: snap.Reading.Usage,
		},
		Stale: snap.Stale,
		Chart: ChartJSON{
			OriginTS:  snap.OriginTS,
			MaxPowerW: snap.MaxPowerW,
			WindowLen: snap.WindowLen,
		},
		Counts: CountsJSON{
			Fetches:            snap.Counts.Fetches,
			EmptyFetches:       snap.Counts.EmptyFetches,
			Samples:            snap.Counts.Samples,
			FullRedraws:        snap.Counts.FullRedraws,
			IncrementalRedraws: snap.Counts.IncrementalRedraws,
			ReadoutDraws:       snap.Counts.ReadoutDraws,
			ReadoutSkips:       snap.Counts.ReadoutSkips,
		},
		UptimeSeconds: int64(snap.Uptime().Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Config: ConfigJSON{
			PollSeconds:   snap.Config.PollSeconds,
			WindowSeconds: snap.Config.WindowSeconds,
			ScrollQuantum: snap.Config.ScrollQuantum,
			InfluxURL:     snap.Config.InfluxURL,
			HTTPAddr:      snap.Config.HTTPAddr,
			Display:       snap.Config.Display,
		},
	}
	if !snap.Reading.Timestamp.IsZero() {
		inner.Reading.Timestamp = snap.Reading.Timestamp.UTC().Format(time.RFC3339)
	}
	if snap.Config.Broker != "" {
		inner.MQTT = &MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker}
	}
	out, err := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	if err != nil {
		return []byte(`{"status":{}}`)
	}
	return out
}
