// Package detection simulates live driver detection: while active, it
// periodically raises a random alert and clears it after a display period.
package detection

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
	"go.uber.org/zap"
)

const (
	DefaultInterval = 10 * time.Second
	DefaultDisplay  = 3 * time.Second

	subscriberBuffer = 16
)

// ErrClosed is returned when starting a closed simulator.
var ErrClosed = apperrors.New(apperrors.CodeSessionDisposed, "detection simulator is closed")

// State is the simulator state.
type State string

const (
	Idle   State = "idle"
	Active State = "active"
)

// Alert is the alert currently on display.
type Alert struct {
	Type dataset.AlertType `json:"type"`
	At   time.Time         `json:"at"`
}

// EventKind names a simulator state change.
type EventKind string

const (
	EventStarted EventKind = "started"
	EventStopped EventKind = "stopped"
	EventAlert   EventKind = "alert"
	EventCleared EventKind = "cleared"
)

// Event is published to subscribers on every state change.
type Event struct {
	Kind  EventKind `json:"kind"`
	State State     `json:"state"`
	Alert *Alert    `json:"alert,omitempty"`
}

// Status is a point-in-time view of the simulator.
type Status struct {
	State State  `json:"state"`
	Alert *Alert `json:"alert,omitempty"`
}

// Options configures a Simulator.
type Options struct {
	Interval time.Duration
	Display  time.Duration
	Source   Source
	Clock    Clock
	Logger   *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Display <= 0 {
		o.Display = DefaultDisplay
	}
	if o.Source == nil {
		o.Source = NewRandomSource(uint64(time.Now().UnixNano()))
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Simulator is the live detection state machine of one browser scope.
//
// Every Start begins a new generation. Ticks and clear timers carry the
// generation they were scheduled in and are dropped once it has ended, so
// no callback scheduled before Stop can change state after it.
type Simulator struct {
	opts Options

	mu       sync.Mutex
	state    State
	gen      uint64
	seq      uint64 // alerts raised in the current generation
	current  *Alert
	cancel   context.CancelFunc
	ticker   Ticker
	clear    Timer
	closed   bool
	subs     map[int]chan Event
	nextSubs int
}

// NewSimulator returns an idle simulator.
func NewSimulator(opts Options) *Simulator {
	return &Simulator{
		opts:  opts.withDefaults(),
		state: Idle,
		subs:  make(map[int]chan Event),
	}
}

// Start enters Active. Starting an active simulator is a no-op.
func (s *Simulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.state == Active {
		return nil
	}

	s.gen++
	s.seq = 0
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.ticker = s.opts.Clock.NewTicker(s.opts.Interval)
	s.state = Active
	activeSimulators.Inc()
	s.publishLocked(Event{Kind: EventStarted, State: Active})

	go s.run(ctx, s.gen, s.ticker.C())
	return nil
}

func (s *Simulator) run(ctx context.Context, gen uint64, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			s.fire(ctx, gen)
		}
	}
}

// fire raises one alert for generation gen.
func (s *Simulator) fire(ctx context.Context, gen uint64) {
	alertType, err := s.opts.Source.Next(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.opts.Logger.Warn("detection source failed", zap.Error(err))
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.state != Active {
		return
	}
	if s.clear != nil {
		s.clear.Stop()
	}
	s.seq++
	seq := s.seq
	alert := Alert{Type: alertType, At: s.opts.Clock.Now()}
	s.current = &alert
	s.clear = s.opts.Clock.AfterFunc(s.opts.Display, func() { s.expire(gen, seq) })
	alertsGeneratedTotal.WithLabelValues(string(alertType)).Inc()
	s.publishLocked(Event{Kind: EventAlert, State: Active, Alert: &alert})
}

// expire clears alert seq of generation gen if it is still on display.
func (s *Simulator) expire(gen, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.seq != seq || s.current == nil {
		return
	}
	s.current = nil
	s.clear = nil
	s.publishLocked(Event{Kind: EventCleared, State: s.state})
}

// Stop returns to Idle, cancels both timers and clears the displayed
// alert immediately.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Simulator) stopLocked() {
	if s.state != Active {
		return
	}
	s.gen++
	s.cancel()
	s.cancel = nil
	s.ticker.Stop()
	s.ticker = nil
	if s.clear != nil {
		s.clear.Stop()
		s.clear = nil
	}
	s.current = nil
	s.state = Idle
	activeSimulators.Dec()
	s.publishLocked(Event{Kind: EventStopped, State: Idle})
}

// Close stops the simulator for good and closes every subscription.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopLocked()
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

// Current returns the alert on display.
func (s *Simulator) Current() (Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Alert{}, false
	}
	return *s.current, true
}

// Status returns the state and displayed alert.
func (s *Simulator) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Simulator) statusLocked() Status {
	status := Status{State: s.state}
	if s.current != nil {
		alert := *s.current
		status.Alert = &alert
	}
	return status
}

// Subscribers returns the number of open subscriptions.
func (s *Simulator) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Subscribe returns a channel of events and a function ending the
// subscription. Events are dropped for subscribers that fall behind. The
// channel is closed by cancel or Close.
func (s *Simulator) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribeLocked()
}

// Watch returns the current status together with a subscription that
// receives every event after it.
func (s *Simulator) Watch() (Status, <-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events, cancel := s.subscribeLocked()
	return s.statusLocked(), events, cancel
}

func (s *Simulator) subscribeLocked() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSubs
	s.nextSubs++
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			close(sub)
			delete(s.subs, id)
		}
	}
}

func (s *Simulator) publishLocked(event Event) {
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
