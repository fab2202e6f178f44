package analytics

import (
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event names emitted by the screens
const (
	EventHomeSuccess    = "home_retrieve_success"
	EventHomeError      = "home_retrieve_error"
	EventMembersSuccess = "members_retrieve_success"
	EventMembersError   = "members_retrieve_error"

	ParamMessage = "message"
)

const topic = "analytics:event"

// Tracker records named analytics events
type Tracker interface {
	LogEvent(name string, params map[string]string)
}

// Event is one tracked occurrence
type Event struct {
	ID     string
	Name   string
	Params map[string]string
	Time   time.Time
}

// Sink receives published events
type Sink func(Event)

// Nop discards every event
type Nop struct{}

func (Nop) LogEvent(string, map[string]string) {}

// Bus fans events out to registered sinks over an in-process event bus.
// Publishing is synchronous; a sink must not log events itself.
type Bus struct {
	bus evbus.Bus
	log *logrus.Entry

	mu     sync.RWMutex
	nextID int
	sinks  map[int]Sink
	closed bool
}

// NewBus creates a bus with no sinks
func NewBus(log *logrus.Entry) *Bus {
	b := &Bus{
		bus:   evbus.New(),
		log:   log.WithField("component", "analytics"),
		sinks: make(map[int]Sink),
	}
	// One dispatcher per bus; sinks are tracked here so they can be removed individually
	if err := b.bus.Subscribe(topic, b.dispatch); err != nil {
		b.log.Errorf("Failed to subscribe analytics dispatcher: %v", err)
	}
	return b
}

// Subscribe registers sink and returns a func that removes it
func (b *Bus) Subscribe(sink Sink) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.sinks[id] = sink

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.sinks, id)
			b.mu.Unlock()
		})
	}
}

// LogEvent stamps and publishes an event
func (b *Bus) LogEvent(name string, params map[string]string) {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		b.log.WithField("event", name).Debug("Event dropped, bus closed")
		return
	}

	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	b.bus.Publish(topic, Event{
		ID:     uuid.NewString(),
		Name:   name,
		Params: copied,
		Time:   time.Now(),
	})
}

// Close detaches the dispatcher; later events are dropped
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	if err := b.bus.Unsubscribe(topic, b.dispatch); err != nil {
		b.log.Debugf("Unsubscribe dispatcher: %v", err)
	}
}

func (b *Bus) dispatch(e Event) {
	b.mu.RLock()
	sinks := make([]Sink, 0, len(b.sinks))
	for id := 1; id <= b.nextID; id++ {
		if s, ok := b.sinks[id]; ok {
			sinks = append(sinks, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range sinks {
		s(e)
	}
}

// MessageEvent logs name with the single message param the screens use
func MessageEvent(t Tracker, name, message string) {
	if t == nil {
		return
	}
	t.LogEvent(name, map[string]string{ParamMessage: message})
}
