// Package daemon provides the long-running local ledger service: an HTTP API
// over the calorie ledger, a calorie-sync endpoint, and a change feed
// delivered over SSE and websockets.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/foogie-app/foogie/internal/budget"
	"github.com/foogie-app/foogie/internal/model"
)

// Event types.
const (
	EventSnapshot    = "snapshot"
	EventLedgerDelta = "ledger_delta"
	EventCalorieSync = "calorie_sync"
)

// Ledger is the subset of the ledger service the daemon serves.
type Ledger interface {
	Summary(ctx context.Context) (budget.Summary, error)
	AppendMeal(ctx context.Context, name string, calories float64, n model.Nutrients) (model.Meal, error)
	RemoveMeal(ctx context.Context, index int) (bool, error)
	ReloadSettings(ctx context.Context) (model.Settings, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	Ledger       Ledger
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       *log.Logger
	// Now is used for event timestamps; defaults to time.Now.
	Now func() time.Time
}

// Snapshot is a compact ledger state for status/event payloads.
type Snapshot struct {
	At              time.Time `json:"at"`
	Goal            int       `json:"goal"`
	Consumed        float64   `json:"consumed"`
	Remaining       float64   `json:"remaining"`
	Meals           int       `json:"meals"`
	MealsLeft       int       `json:"meals_left"`
	CaloriesPerMeal int       `json:"calories_per_meal"`
	PercentConsumed int       `json:"percent_consumed"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Calories float64 `json:"calories"`
	Meals    int     `json:"meals"`
	Goal     int     `json:"goal"`
}

func (d Delta) isZero() bool {
	return d.Calories == 0 && d.Meals == 0 && d.Goal == 0
}

// SyncPayload is the body accepted by the calorie-sync endpoint.
type SyncPayload struct {
	Calories   float64 `json:"calories"`
	RecipeName string  `json:"recipe_name"`
}

// Event is emitted whenever the ledger changes or a sync arrives.
type Event struct {
	ID        int64        `json:"id"`
	Type      string       `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Snapshot  Snapshot     `json:"snapshot"`
	Delta     Delta        `json:"delta"`
	Sync      *SyncPayload `json:"sync,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time       `json:"started_at"`
	LastPollAt      time.Time       `json:"last_poll_at"`
	PollIntervalSec int             `json:"poll_interval_sec"`
	PollCount       int64           `json:"poll_count"`
	Summary         Snapshot        `json:"summary"`
	Budget          *budget.Summary `json:"budget,omitempty"`
	LastError       string          `json:"last_error,omitempty"`
	EventCount      int             `json:"event_count"`
	SubscriberCount int             `json:"subscriber_count"`
	SocketCount     int             `json:"socket_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	logger *log.Logger
	hub    *Hub

	// pollMu orders polls so snapshots and their events are published in
	// the order the ledger was read.
	pollMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	lastBudget  *budget.Summary
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Service{
		cfg:       cfg,
		logger:    cfg.Logger,
		hub:       NewHub(),
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.hub.CloseAll()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// pollOnce re-reads the goals and the ledger and publishes a delta when
// either changed. This picks up day rollover and writes made by other
// processes.
func (s *Service) pollOnce(ctx context.Context) {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	if _, err := s.cfg.Ledger.ReloadSettings(ctx); err != nil {
		s.logger.Printf("foogie daemon settings reload: %v", err)
	}
	sum, err := s.cfg.Ledger.Summary(ctx)
	now := s.cfg.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.logger.Printf("foogie daemon poll error: %v", err)
		return
	}

	snap := snapshotFromSummary(sum, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastBudget = &sum
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		ev = Event{Type: EventSnapshot, Timestamp: now, Snapshot: snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		ev = Event{Type: EventLedgerDelta, Timestamp: now, Snapshot: snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func snapshotFromSummary(sum budget.Summary, at time.Time) Snapshot {
	return Snapshot{
		At:              at,
		Goal:            sum.Goal,
		Consumed:        sum.Consumed,
		Remaining:       sum.Remaining,
		Meals:           len(sum.Meals),
		MealsLeft:       sum.MealsLeft,
		CaloriesPerMeal: sum.CaloriesPerMeal,
		PercentConsumed: sum.PercentConsumed,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Calories: curr.Consumed - prev.Consumed,
		Meals:    curr.Meals - prev.Meals,
		Goal:     curr.Goal - prev.Goal,
	}
}

// publishEvent assigns the next event ID, appends to the ring buffer and
// fans out to SSE subscribers and websocket clients.
func (s *Service) publishEvent(ev Event) Event {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()

	s.hub.Broadcast(ev)
	return ev
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Summary:         s.snapshot,
		Budget:          s.lastBudget,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
		SocketCount:     s.hub.Len(),
	}
}

func (s *Service) recentEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
