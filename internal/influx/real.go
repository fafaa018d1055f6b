package influx

import (
	"context"
	"fmt"
	"log"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/sweeney/solar-monitor/internal/chart"
)

// Client queries a real InfluxDB server through the Flux query API.
type Client struct {
	cfg    Config
	client influxdb2.Client
	query  api.QueryAPI
}

// NewClient creates a client for the configured server. No connection is
// made until the first Fetch.
func NewClient(cfg Config) *Client {
	c := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &Client{
		cfg:    cfg,
		client: c,
		query:  c.QueryAPI(cfg.Org),
	}
}

// Fetch returns the samples recorded since the given unix timestamp.
// Any failure is logged and yields an empty batch.
func (c *Client) Fetch(ctx context.Context, since int64) []chart.Sample {
	samples, err := c.fetch(ctx, since)
	if err != nil {
		log.Printf("influx: fetch failed: %v", err)
		return nil
	}
	return samples
}

func (c *Client) fetch(ctx context.Context, since int64) ([]chart.Sample, error) {
	result, err := c.query.Query(ctx, buildQuery(c.cfg, since))
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	var rows []row
	for result.Next() {
		rec := result.Record()
		value, ok := rec.Value().(float64)
		if !ok {
			continue
		}
		agg, _ := rec.ValueByKey("agg").(string)
		rows = append(rows, row{
			ts:    rec.Time().Unix(),
			field: rec.Field(),
			agg:   agg,
			value: value,
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read result: %w", err)
	}
	return assembleSamples(rows, c.cfg), nil
}

// Close shuts down the underlying HTTP client.
func (c *Client) Close() {
	c.client.Close()
}
