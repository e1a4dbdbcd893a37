// Package persistence loads graph and progress data at session start and
// writes progress in the background with retry.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/physiq/internal/events"
	"github.com/abhisek/physiq/internal/metrics"
	"github.com/abhisek/physiq/internal/progression"
	"github.com/abhisek/physiq/internal/skillgraph"
)

// GraphSource fetches the skill graph.
type GraphSource interface {
	FetchGraph(ctx context.Context) (skillgraph.Data, error)
}

// ProgressStore reads and writes progress documents. FetchProgress returns
// ErrNotFound when the character has never been saved.
type ProgressStore interface {
	FetchProgress(ctx context.Context, characterID string) (Document, error)
	SaveProgress(ctx context.Context, characterID string, doc Document) error
}

// Config configures a Gateway.
type Config struct {
	CharacterID string
	Defaults    progression.Defaults
	Retry       RetryConfig
}

// DefaultConfig returns the standard gateway configuration.
func DefaultConfig() Config {
	return Config{
		Defaults: progression.DefaultDefaults(),
		Retry:    DefaultRetryConfig(),
	}
}

// LoadReport describes which fallbacks a Load used.
type LoadReport struct {
	GraphFallback    bool
	ProgressFallback bool
	NewPlayer        bool
	Errors           []error
}

// Gateway is the engine's only path to storage.
type Gateway struct {
	graphs GraphSource
	store  ProgressStore
	cfg    Config
	bus    *events.Bus
	log    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending int
}

// New returns a gateway. bus and log may be nil.
func New(graphs GraphSource, store ProgressStore, cfg Config, bus *events.Bus, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Gateway{
		graphs: graphs,
		store:  store,
		cfg:    cfg,
		bus:    bus,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// CharacterID returns the character this gateway reads and writes.
func (g *Gateway) CharacterID() string { return g.cfg.CharacterID }

// Load fetches graph and progress concurrently and waits for both. Either
// failure is recovered with built-in defaults and announced as a
// loading_error notification; Load itself never fails.
func (g *Gateway) Load(ctx context.Context) (skillgraph.Data, Document, LoadReport) {
	var (
		wg       sync.WaitGroup
		data     skillgraph.Data
		doc      Document
		graphErr error
		progErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		data, graphErr = g.fetchGraph(ctx)
	}()
	go func() {
		defer wg.Done()
		doc, progErr = g.store.FetchProgress(ctx, g.cfg.CharacterID)
	}()
	wg.Wait()

	var report LoadReport
	if graphErr != nil {
		report.GraphFallback = true
		g.loadFailed(&report, &LoadError{Source: "graph", Err: graphErr})
		data = skillgraph.Default()
	}

	switch {
	case progErr == nil:
	case errors.Is(progErr, ErrNotFound):
		report.NewPlayer = true
		g.log.Info("no saved progress, starting fresh", "character", g.cfg.CharacterID)
		doc = g.defaultDocument(data)
	default:
		report.ProgressFallback = true
		g.loadFailed(&report, &LoadError{Source: "progress", Err: progErr})
		doc = g.defaultDocument(data)
	}
	return data, doc, report
}

func (g *Gateway) fetchGraph(ctx context.Context) (skillgraph.Data, error) {
	if g.graphs == nil {
		return skillgraph.Data{}, errors.New("no graph source configured")
	}
	data, err := g.graphs.FetchGraph(ctx)
	if err != nil {
		return skillgraph.Data{}, err
	}
	if len(data.Nodes) == 0 {
		return skillgraph.Data{}, errors.New("graph has no nodes")
	}
	return data, nil
}

func (g *Gateway) defaultDocument(data skillgraph.Data) Document {
	return DefaultDocument(g.cfg.CharacterID, skillgraph.New(data).CoreIDs(), g.cfg.Defaults)
}

func (g *Gateway) loadFailed(report *LoadReport, err *LoadError) {
	report.Errors = append(report.Errors, err)
	metrics.LoadFallbacks.WithLabelValues(err.Source).Inc()
	g.log.Warn("falling back to defaults", "source", err.Source, "error", err.Err)
	g.publish(events.Event{Type: events.LoadingError, Source: err.Source, Error: err.Err.Error()})
}

// Save schedules a background write of doc and returns its save id
// immediately. The document is copied, so later mutations by the caller do
// not affect what is written. A failed write is retried according to the
// retry policy until it succeeds, the attempts run out or Close is called.
func (g *Gateway) Save(doc Document) string {
	doc = g.stamp(doc)
	g.track(1)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.track(-1)
		_ = g.writeLoop(g.ctx, doc)
	}()
	return doc.SaveID
}

// SaveSync writes doc and waits for the result, retrying like Save until
// ctx is done.
func (g *Gateway) SaveSync(ctx context.Context, doc Document) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(g.ctx, cancel)
	defer stop()
	return g.writeLoop(ctx, g.stamp(doc))
}

// Pending returns the number of background saves not yet written.
func (g *Gateway) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Wait blocks until every background save has finished.
func (g *Gateway) Wait() { g.wg.Wait() }

// Close abandons pending retries and waits for in-flight writes to stop.
func (g *Gateway) Close() {
	g.cancel()
	g.wg.Wait()
}

func (g *Gateway) stamp(doc Document) Document {
	doc = doc.Clone()
	doc.SaveID = uuid.NewString()
	doc.SavedAt = time.Now().UTC()
	doc.FormatVersion = FormatVersion
	if doc.CharacterID == "" {
		doc.CharacterID = g.cfg.CharacterID
	}
	return doc
}

func (g *Gateway) track(delta int) {
	g.mu.Lock()
	g.pending += delta
	g.mu.Unlock()
	metrics.PendingSaves.Add(float64(delta))
}

func (g *Gateway) writeLoop(ctx context.Context, doc Document) error {
	rc := g.cfg.Retry
	for attempt := 1; ; attempt++ {
		err := g.writeOnce(ctx, doc)
		if err == nil {
			metrics.SaveAttempts.WithLabelValues("success").Inc()
			g.log.Debug("progress saved", "save_id", doc.SaveID, "attempt", attempt)
			g.publish(events.Event{Type: events.SaveSucceeded, Source: doc.SaveID, Attempt: attempt})
			return nil
		}

		serr := &SaveError{SaveID: doc.SaveID, Attempt: attempt, Err: err}
		metrics.SaveAttempts.WithLabelValues("failure").Inc()
		g.log.Warn("progress save failed", "save_id", doc.SaveID, "attempt", attempt, "error", err)
		g.publish(events.Event{Type: events.SaveError, Source: doc.SaveID, Attempt: attempt, Error: err.Error()})

		if rc.exhausted(attempt) {
			metrics.SaveAttempts.WithLabelValues("abandoned").Inc()
			g.log.Error("giving up on save", "save_id", doc.SaveID, "attempts", attempt)
			return serr
		}

		wait := rc.backoff(attempt - 1)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", serr, ctx.Err())
		case <-time.After(wait):
		}
	}
}

func (g *Gateway) writeOnce(ctx context.Context, doc Document) error {
	if g.cfg.Retry.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Retry.AttemptTimeout)
		defer cancel()
	}
	start := time.Now()
	defer func() { metrics.SaveDuration.Observe(time.Since(start).Seconds()) }()
	return g.store.SaveProgress(ctx, doc.CharacterID, doc)
}

func (g *Gateway) publish(e events.Event) {
	if g.bus != nil {
		g.bus.Publish(e)
	}
}
