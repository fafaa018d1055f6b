package mqtt

import "sync"

// FakePublisher is a test double that records published messages.
type FakePublisher struct {
	mu sync.Mutex

	// Readings contains all published readings in order.
	Readings []Reading

	// SystemEvents contains all published system events in order.
	SystemEvents []SystemEvent

	// PublishErr, if set, is returned by both publish methods.
	PublishErr error

	// Connected is returned by IsConnected.
	Connected bool

	// Closed tracks whether Close was called.
	Closed bool
}

// PublishReading records the reading.
func (f *FakePublisher) PublishReading(r Reading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishErr != nil {
		return f.PublishErr
	}
	f.Readings = append(f.Readings, r)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishErr != nil {
		return f.PublishErr
	}
	f.SystemEvents = append(f.SystemEvents, event)
	return nil
}

// IsConnected returns the scripted connection state.
func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// ReadingCount returns the number of recorded readings.
func (f *FakePublisher) ReadingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Readings)
}
