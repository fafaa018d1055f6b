// Package config loads the daemon configuration: built-in defaults,
// optionally overridden by a YAML file, with a few flags layered on top by
// main.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/solar-monitor/internal/chart"
	"github.com/sweeney/solar-monitor/internal/display"
	"github.com/sweeney/solar-monitor/internal/influx"
)

// Config is the full daemon configuration.
type Config struct {
	PollSeconds       int    `yaml:"poll_seconds"`
	StaleAfterSeconds int64  `yaml:"stale_after_seconds"`
	HTTPAddr          string `yaml:"http_addr"`
	AssetsDir         string `yaml:"assets_dir"`
	SyncClock         bool   `yaml:"sync_clock"`

	Influx  Influx  `yaml:"influx"`
	MQTT    MQTT    `yaml:"mqtt"`
	Chart   Chart   `yaml:"chart"`
	Display Display `yaml:"display"`
}

// Influx describes the time-series source.
type Influx struct {
	URL         string `yaml:"url"`
	Token       string `yaml:"token"`
	Org         string `yaml:"org"`
	Bucket      string `yaml:"bucket"`
	Measurement string `yaml:"measurement"`
	SolarField  string `yaml:"solar_field"`
	UsageField  string `yaml:"usage_field"`
}

// MQTT describes the optional reading publisher. An empty broker disables it.
type MQTT struct {
	Broker string `yaml:"broker"`
}

// Chart carries the render tunables.
type Chart struct {
	WindowSeconds         int64   `yaml:"window_seconds"`
	ScrollQuantum         int64   `yaml:"scroll_quantum"`
	StepWatts             float64 `yaml:"step_watts"`
	ChartRefreshUpdates   int     `yaml:"chart_refresh_updates"`
	ReadoutRefreshUpdates int     `yaml:"readout_refresh_updates"`
	RefreshCycles         int     `yaml:"refresh_cycles"`
	EpsilonWatts          float64 `yaml:"epsilon_watts"`

	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	DividerY int `yaml:"divider_y"`
	AxisX    int `yaml:"axis_x"`
	AxisY    int `yaml:"axis_y"`
}

// Display describes the panel wiring and mode.
type Display struct {
	Mode    string `yaml:"mode"` // "epd" or "sim"
	SPIPort string `yaml:"spi_port"`
	Chip    string `yaml:"gpio_chip"`
	DCPin   int    `yaml:"dc_pin"`
	RSTPin  int    `yaml:"rst_pin"`
	BusyPin int    `yaml:"busy_pin"`
}

// Default returns the built-in configuration.
func Default() Config {
	cc := chart.DefaultConfig()
	return Config{
		PollSeconds:       5,
		StaleAfterSeconds: 30,
		HTTPAddr:          ":8080",
		SyncClock:         false,
		Influx: Influx{
			URL:         "http://192.168.1.200:8086",
			Org:         "home",
			Bucket:      "sensors",
			Measurement: "power",
			SolarField:  "solar",
			UsageField:  "load",
		},
		Chart: Chart{
			WindowSeconds:         cc.WindowSeconds,
			ScrollQuantum:         cc.ScrollQuantum,
			StepWatts:             cc.StepWatts,
			ChartRefreshUpdates:   cc.ChartRefreshUpdates,
			ReadoutRefreshUpdates: cc.ReadoutRefreshUpdates,
			RefreshCycles:         cc.RefreshCycles,
			EpsilonWatts:          cc.EpsilonWatts,
			Width:                 cc.Geom.Width,
			Height:                cc.Geom.Height,
			DividerY:              cc.Geom.DividerY,
			AxisX:                 cc.Geom.AxisX,
			AxisY:                 cc.Geom.AxisY,
		},
		Display: Display{
			Mode:    "epd",
			SPIPort: "",
			Chip:    "gpiochip0",
			DCPin:   25,
			RSTPin:  17,
			BusyPin: 24,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Chart.WindowSeconds <= 0 {
		return fmt.Errorf("window_seconds must be positive, got %d", c.Chart.WindowSeconds)
	}
	if c.Chart.ScrollQuantum <= 0 || c.Chart.ScrollQuantum > c.Chart.WindowSeconds {
		return fmt.Errorf("scroll_quantum must be in (0, window_seconds], got %d", c.Chart.ScrollQuantum)
	}
	if c.Chart.StepWatts <= 0 {
		return fmt.Errorf("step_watts must be positive, got %v", c.Chart.StepWatts)
	}
	if c.PollSeconds <= 0 {
		return fmt.Errorf("poll_seconds must be positive, got %d", c.PollSeconds)
	}
	return nil
}

// ChartConfig converts to the chart core's configuration.
func (c Config) ChartConfig() chart.Config {
	return chart.Config{
		WindowSeconds:         c.Chart.WindowSeconds,
		ScrollQuantum:         c.Chart.ScrollQuantum,
		StepWatts:             c.Chart.StepWatts,
		ChartRefreshUpdates:   c.Chart.ChartRefreshUpdates,
		ReadoutRefreshUpdates: c.Chart.ReadoutRefreshUpdates,
		RefreshCycles:         c.Chart.RefreshCycles,
		EpsilonWatts:          c.Chart.EpsilonWatts,
		Geom: chart.Geometry{
			Width:    c.Chart.Width,
			Height:   c.Chart.Height,
			DividerY: c.Chart.DividerY,
			AxisX:    c.Chart.AxisX,
			AxisY:    c.Chart.AxisY,
		},
	}
}

// InfluxConfig converts to the source configuration. The aggregation bucket
// width is the window duration divided by the plot width, so one bucket maps
// to one pixel column.
func (c Config) InfluxConfig() influx.Config {
	geom := c.ChartConfig().Geom
	bucketSeconds := c.Chart.WindowSeconds / int64(geom.PlotWidth())
	if bucketSeconds < 1 {
		bucketSeconds = 1
	}
	return influx.Config{
		URL:           c.Influx.URL,
		Token:         c.Influx.Token,
		Org:           c.Influx.Org,
		Bucket:        c.Influx.Bucket,
		Measurement:   c.Influx.Measurement,
		SolarField:    c.Influx.SolarField,
		UsageField:    c.Influx.UsageField,
		BucketSeconds: bucketSeconds,
	}
}

// EPDConfig converts to the panel driver configuration.
func (c Config) EPDConfig() display.EPDConfig {
	return display.EPDConfig{
		SPIPort: c.Display.SPIPort,
		Chip:    c.Display.Chip,
		DCPin:   c.Display.DCPin,
		RSTPin:  c.Display.RSTPin,
		BusyPin: c.Display.BusyPin,
		Width:   c.Chart.Width,
		Height:  c.Chart.Height,
	}
}
