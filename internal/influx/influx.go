// Package influx fetches bucketed power samples from InfluxDB.
// Failures of any kind degrade to an empty batch: a dead or slow server must
// never stop the render loop.
package influx

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sweeney/solar-monitor/internal/chart"
)

// Source delivers batches of samples ordered by timestamp, ascending.
type Source interface {
	// Fetch returns the samples recorded since the given unix timestamp.
	// Failures yield an empty batch.
	Fetch(ctx context.Context, since int64) []chart.Sample

	// Close releases the client resources.
	Close()
}

// Config describes the InfluxDB connection and the power series to query.
type Config struct {
	URL         string
	Token       string
	Org         string
	Bucket      string
	Measurement string
	SolarField  string
	UsageField  string

	// BucketSeconds is the aggregation bucket width, normally the window
	// duration divided by the plot width so one bucket maps to one column.
	BucketSeconds int64
}

// row is one flattened record from a query result: the bucket timestamp, the
// series field, which aggregate (min or max) it came from, and the value.
type row struct {
	ts    int64
	field string
	agg   string
	value float64
}

// buildQuery produces the Flux query: min and max of both power fields per
// aggregation bucket since the given timestamp.
func buildQuery(cfg Config, since int64) string {
	start := time.Unix(since, 0).UTC().Format(time.RFC3339)
	return fmt.Sprintf(`
data = from(bucket: %q)
  |> range(start: time(v: %q))
  |> filter(fn: (r) => r._measurement == %q and (r._field == %q or r._field == %q))
mins = data
  |> aggregateWindow(every: %ds, fn: min, createEmpty: false)
  |> set(key: "agg", value: "min")
maxs = data
  |> aggregateWindow(every: %ds, fn: max, createEmpty: false)
  |> set(key: "agg", value: "max")
union(tables: [mins, maxs]) |> sort(columns: ["_time"])`,
		cfg.Bucket, start, cfg.Measurement, cfg.SolarField, cfg.UsageField,
		cfg.BucketSeconds, cfg.BucketSeconds)
}

// assembleSamples groups flattened rows into per-bucket samples.
// The usage series is stored negative (grid import convention), so its
// aggregates are negated and swapped: the largest import is the most negative
// reading.
func assembleSamples(rows []row, cfg Config) []chart.Sample {
	type bucket struct {
		solarMin, solarMax *float64
		usageMin, usageMax *float64
	}
	buckets := make(map[int64]*bucket)
	for _, r := range rows {
		b := buckets[r.ts]
		if b == nil {
			b = &bucket{}
			buckets[r.ts] = b
		}
		v := r.value
		switch {
		case r.field == cfg.SolarField && r.agg == "min":
			b.solarMin = &v
		case r.field == cfg.SolarField && r.agg == "max":
			b.solarMax = &v
		case r.field == cfg.UsageField && r.agg == "max":
			neg := -v
			b.usageMin = &neg
		case r.field == cfg.UsageField && r.agg == "min":
			neg := -v
			b.usageMax = &neg
		}
	}

	timestamps := make([]int64, 0, len(buckets))
	for ts := range buckets {
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	samples := make([]chart.Sample, 0, len(timestamps))
	for _, ts := range timestamps {
		b := buckets[ts]
		s := chart.Sample{
			TS:    ts,
			Solar: makeRange(b.solarMin, b.solarMax),
			Usage: makeRange(b.usageMin, b.usageMax),
		}
		if s.Empty() {
			continue
		}
		samples = append(samples, s)
	}
	return samples
}

// makeRange builds a channel range from whichever aggregates are present.
// A bucket with only one aggregate degenerates to a single-value range.
func makeRange(min, max *float64) *chart.Range {
	if min == nil && max == nil {
		return nil
	}
	if min == nil {
		min = max
	}
	if max == nil {
		max = min
	}
	return &chart.Range{Min: *min, Max: *max}
}
