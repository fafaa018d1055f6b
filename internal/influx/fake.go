package influx

import (
	"context"

	"github.com/sweeney/solar-monitor/internal/chart"
)

// FakeSource is a test double returning scripted batches.
// Each call to Fetch consumes the next batch; once exhausted it returns
// empty batches, mimicking a feed that has gone quiet.
type FakeSource struct {
	Batches [][]chart.Sample

	// Since records the since argument of every Fetch call.
	Since []int64

	// Closed tracks whether Close was called.
	Closed bool

	index int
}

// Fetch returns the next scripted batch.
func (f *FakeSource) Fetch(ctx context.Context, since int64) []chart.Sample {
	f.Since = append(f.Since, since)
	if f.index >= len(f.Batches) {
		return nil
	}
	batch := f.Batches[f.index]
	f.index++
	return batch
}

// Close marks the source as closed.
func (f *FakeSource) Close() {
	f.Closed = true
}
