// Command solar-monitor polls a time-series store for solar generation and
// household usage and renders a continuously updating strip chart onto a
// small e-paper panel.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sweeney/solar-monitor/internal/chart"
	"github.com/sweeney/solar-monitor/internal/clock"
	"github.com/sweeney/solar-monitor/internal/config"
	"github.com/sweeney/solar-monitor/internal/display"
	"github.com/sweeney/solar-monitor/internal/influx"
	"github.com/sweeney/solar-monitor/internal/metrics"
	"github.com/sweeney/solar-monitor/internal/mqtt"
	"github.com/sweeney/solar-monitor/internal/status"
	"github.com/sweeney/solar-monitor/internal/web"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file")
	influxURL := flag.String("influx-url", "", "InfluxDB URL (overrides config)")
	broker := flag.String("broker", "", `MQTT broker address (overrides config, "off" disables)`)
	poll := flag.Duration("poll", 0, "polling interval (overrides config)")
	httpAddr := flag.String("http", "", `HTTP status address (overrides config, "off" disables)`)
	displayMode := flag.String("display", "", "display driver: epd or sim (overrides config)")
	assets := flag.String("assets", "", "directory with channel icon images (overrides config)")
	once := flag.Bool("once", false, "run a single update cycle and exit")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	applyOverride(&cfg.Influx.URL, *influxURL)
	applyOverride(&cfg.MQTT.Broker, *broker)
	applyOverride(&cfg.HTTPAddr, *httpAddr)
	applyOverride(&cfg.Display.Mode, *displayMode)
	applyOverride(&cfg.AssetsDir, *assets)
	if *poll > 0 {
		cfg.PollSeconds = int(poll.Seconds())
		if cfg.PollSeconds < 1 {
			cfg.PollSeconds = 1
		}
	}

	if err := run(cfg, *once); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// applyOverride replaces dst with the flag value; "off" clears it.
func applyOverride(dst *string, v string) {
	if v == "" {
		return
	}
	if v == "off" {
		*dst = ""
		return
	}
	*dst = v
}

func run(cfg config.Config, once bool) error {
	ctx := context.Background()

	// Display surface
	var surface display.Surface
	switch cfg.Display.Mode {
	case "sim":
		surface = display.NewMemory(cfg.Chart.Width, cfg.Chart.Height)
	case "epd":
		panel, err := display.NewEPD(cfg.EPDConfig())
		if err != nil {
			return fmt.Errorf("init display: %w", err)
		}
		defer panel.Close()
		surface = panel
	default:
		return fmt.Errorf("unknown display mode %q", cfg.Display.Mode)
	}
	framer, _ := surface.(web.Framer)

	// Data source
	source := influx.NewClient(cfg.InfluxConfig())
	defer source.Close()

	// MQTT publisher (optional)
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "" {
		real := mqtt.NewRealPublisher(cfg.MQTT.Broker)
		defer real.Close()
		publisher = real
		mqttStatus = real
	}

	// Clock sync (optional, needs CAP_SYS_TIME)
	var syncer clock.Syncer = clock.Nop{}
	if cfg.SyncClock {
		syncer = clock.System{}
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		PollSeconds:   cfg.PollSeconds,
		WindowSeconds: cfg.Chart.WindowSeconds,
		ScrollQuantum: cfg.Chart.ScrollQuantum,
		InfluxURL:     cfg.Influx.URL,
		Broker:        cfg.MQTT.Broker,
		HTTPAddr:      cfg.HTTPAddr,
		Display:       cfg.Display.Mode,
	})

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, framer)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	if err := drawSplash(surface); err != nil {
		return fmt.Errorf("draw splash: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	poll := time.Duration(cfg.PollSeconds) * time.Second
	log.Printf("started: poll=%v window=%ds influx=%s display=%s",
		poll, cfg.Chart.WindowSeconds, cfg.Influx.URL, cfg.Display.Mode)

	initial, err := awaitFirstBatch(ctx, source, cfg.Chart.WindowSeconds, poll, time.Now, sigCh)
	if err != nil {
		return err
	}
	log.Printf("got %d initial samples", len(initial))

	chartCfg := cfg.ChartConfig()
	graph := chart.NewGraph(chartCfg, surface)
	readout := chart.NewReadout(chartCfg, surface, loadIcons(cfg.AssetsDir))
	if err := readout.Init(); err != nil {
		return fmt.Errorf("init readout: %w", err)
	}

	if publisher != nil {
		event := mqtt.SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true}
		if err := publisher.PublishSystem(event); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		}
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	return runLoop(ctx, runDeps{
		source:     source,
		graph:      graph,
		readout:    readout,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		syncer:     syncer,
		staleAfter: cfg.StaleAfterSeconds,
		once:       once,
	}, initial, time.Now, ticker.C, sigCh)
}

// runDeps bundles the collaborators of the control loop so tests can inject
// fakes for all of them.
type runDeps struct {
	source     influx.Source
	graph      *chart.Graph
	readout    *chart.Readout
	publisher  mqtt.Publisher // may be nil
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	syncer     clock.Syncer
	staleAfter int64
	once       bool
}

// runLoop is the single control thread: it feeds each fetched batch through
// the readout and graph renderers, records status and metrics, then sleeps
// until the next tick. All mutation of the window and render state happens
// here, between fetches.
func runLoop(ctx context.Context, deps runDeps, initial []chart.Sample, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	batch := initial
	var lastTS int64

	for {
		t := now().Unix()

		if len(batch) > 0 {
			latest := batch[len(batch)-1]
			if latest.TS > lastTS {
				action, err := deps.readout.Update(latest)
				if err != nil {
					log.Printf("readout error: %v", err)
				}
				deps.tracker.CountReadout(action != chart.ActionNone)
				if action == chart.ActionNone {
					metrics.ReadoutSuppressed.Inc()
				} else {
					metrics.Redraws.WithLabelValues("readout", action.String()).Inc()
				}
				publishReading(deps.publisher, latest)
			}
		} else if lastTS > 0 && t-lastTS > deps.staleAfter {
			if err := deps.readout.MarkStale(); err != nil {
				log.Printf("readout error: %v", err)
			}
			deps.tracker.SetStale()
		}

		action, stored, err := deps.graph.Update(t, batch)
		if err != nil {
			log.Printf("graph error: %v", err)
		}
		if action != chart.ActionNone {
			log.Printf("graph: %s redraw, %d new samples", action, stored)
			deps.tracker.CountChartRedraw(action == chart.ActionFull)
			metrics.Redraws.WithLabelValues("chart", action.String()).Inc()
		}

		deps.tracker.CountFetch(len(batch))
		metrics.Fetches.WithLabelValues(metrics.FetchResult(len(batch))).Inc()
		if stored > 0 {
			metrics.SamplesStored.Add(float64(stored))
		}
		axis := deps.graph.Axis()
		deps.tracker.SetAxis(axis.OriginTS, axis.MaxPower, deps.graph.Len())

		if len(batch) > 0 {
			latest := batch[len(batch)-1]
			if latest.TS > lastTS {
				lastTS = latest.TS
				reading := status.Reading{Timestamp: time.Unix(latest.TS, 0)}
				reading.Solar = channelMean(latest.Solar)
				reading.Usage = channelMean(latest.Usage)
				deps.tracker.SetReading(reading)
			}
			if deps.syncer != nil {
				if err := deps.syncer.Sync(lastTS); err != nil {
					log.Printf("clock sync error: %v (disabling)", err)
					deps.syncer = nil
				}
			}
		}
		if deps.mqttStatus != nil {
			deps.tracker.SetMQTTConnected(deps.mqttStatus.IsConnected())
		}

		if deps.once {
			return nil
		}

		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if deps.publisher != nil {
				event := mqtt.SystemEvent{
					Timestamp: now(),
					Event:     "SHUTDOWN",
					Reason:    signalName(s),
					Retained:  true,
				}
				if err := deps.publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				}
			}
			return nil

		case <-tick:
		}

		batch = deps.source.Fetch(ctx, lastTS)
	}
}

// awaitFirstBatch polls the source until it returns samples. The splash
// screen stays on the panel until then.
func awaitFirstBatch(ctx context.Context, source influx.Source, windowSeconds int64, poll time.Duration, now func() time.Time, sig <-chan os.Signal) ([]chart.Sample, error) {
	for {
		batch := source.Fetch(ctx, now().Unix()-windowSeconds)
		if len(batch) > 0 {
			return batch, nil
		}
		log.Printf("no samples yet, retrying in %v", poll)
		select {
		case s := <-sig:
			return nil, fmt.Errorf("interrupted by %v while waiting for data", s)
		case <-time.After(poll):
		}
	}
}

func publishReading(publisher mqtt.Publisher, s chart.Sample) {
	if publisher == nil {
		return
	}
	reading := mqtt.Reading{
		Timestamp: time.Unix(s.TS, 0),
		Solar:     channelMean(s.Solar),
		Usage:     channelMean(s.Usage),
	}
	if err := publisher.PublishReading(reading); err != nil {
		log.Printf("publish error: %v", err)
	}
}

func channelMean(r *chart.Range) *float64 {
	if r == nil {
		return nil
	}
	m := r.Mean()
	return &m
}

// drawSplash paints the bring-up screen shown until the first batch arrives.
func drawSplash(s display.Surface) error {
	w, h := s.Size()
	s.FillRect(0, 0, w, h, display.Black)
	if err := s.Flush(); err != nil {
		return err
	}
	s.FillRect(0, 0, w, h, display.White)
	s.DrawText(w/2-50, h/2-11, "Solarising...", display.FontLarge, display.Black)
	return s.Flush()
}

// loadIcons reads the channel glyphs from the assets directory. Missing
// files just leave the label area blank.
func loadIcons(dir string) chart.Icons {
	if dir == "" {
		return chart.Icons{}
	}
	return chart.Icons{
		Solar: loadIcon(filepath.Join(dir, "sun.png")),
		Usage: loadIcon(filepath.Join(dir, "house.png")),
	}
}

func loadIcon(path string) image.Image {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("assets: %v", err)
		return nil
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		log.Printf("assets: decode %s: %v", path, err)
		return nil
	}
	return img
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}
