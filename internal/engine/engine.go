// Package engine owns one instance of every progression component and
// serializes access to them. HTTP handlers, MCP tools, the TUI and the CLI
// all go through an Engine.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/abhisek/physiq/internal/config"
	"github.com/abhisek/physiq/internal/effects"
	"github.com/abhisek/physiq/internal/events"
	"github.com/abhisek/physiq/internal/metrics"
	"github.com/abhisek/physiq/internal/migrate"
	"github.com/abhisek/physiq/internal/persistence"
	"github.com/abhisek/physiq/internal/progression"
	"github.com/abhisek/physiq/internal/skillgraph"
)

// ErrNotInitialized is returned by LoadData before Initialize.
var ErrNotInitialized = errors.New("engine not initialized")

// Journal records every published notification.
type Journal interface {
	Append(ctx context.Context, characterID string, e events.Event) error
}

// Deps are the engine's collaborators. Graphs and Store are required.
type Deps struct {
	Graphs  persistence.GraphSource
	Store   persistence.ProgressStore
	Bus     *events.Bus
	Catalog *effects.Catalog
	Journal Journal
	Logger  *slog.Logger
}

// Engine is the progression facade. Bus handlers run synchronously while
// the engine lock is held and must not call back into the Engine.
type Engine struct {
	mu sync.Mutex

	deps    Deps
	bus     *events.Bus
	log     *slog.Logger
	cfg     config.Config
	gateway *persistence.Gateway
	charID  atomic.Value // string, read by journal handlers off the lock

	initialized bool
	ready       bool
	graph       *skillgraph.Graph
	mgr         *progression.Manager
	report      persistence.LoadReport
}

// New returns an engine that is not yet initialized.
func New(deps Deps) *Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Bus == nil {
		deps.Bus = events.NewBus(deps.Logger)
	}
	if deps.Catalog == nil {
		deps.Catalog = effects.DefaultCatalog()
	}
	e := &Engine{
		deps: deps,
		bus:  deps.Bus,
		log:  deps.Logger,
	}
	e.bus.SubscribeAll(func(ev events.Event) {
		metrics.Events.WithLabelValues(string(ev.Type)).Inc()
	})
	if deps.Journal != nil {
		e.bus.SubscribeAll(e.journal)
	}
	return e
}

// Initialize stores cfg and loads graph and progress.
func (e *Engine) Initialize(ctx context.Context, cfg config.Config) (persistence.LoadReport, error) {
	e.mu.Lock()
	if e.gateway != nil {
		e.gateway.Close()
	}
	e.cfg = cfg
	e.charID.Store(cfg.CharacterID)
	e.gateway = persistence.New(e.deps.Graphs, e.deps.Store, cfg.Persistence(), e.bus, e.log)
	e.initialized = true
	e.mu.Unlock()

	return e.LoadData(ctx)
}

// LoadData (re)loads graph and progress through the persistence gateway,
// reconciles legacy data and publishes engine_ready. Fetch failures are
// recovered with defaults and listed in the report.
func (e *Engine) LoadData(ctx context.Context) (persistence.LoadReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return persistence.LoadReport{}, ErrNotInitialized
	}
	e.ready = false

	data, doc, report := e.gateway.Load(ctx)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	policy := e.cfg.Migration()
	data, rewired := migrate.Graph(data, policy)
	if rewired {
		e.log.Info("replaced legacy core node in graph", "legacy_id", policy.LegacyCoreID)
	}
	if err := skillgraph.Validate(data); err != nil {
		e.log.Warn("graph failed validation, using it anyway", "error", err)
	}
	graph := skillgraph.New(data)

	mrep := migrate.Progress(&doc, graph, policy)
	migrated := mrep.Changed() && !report.NewPlayer
	if migrated {
		e.log.Info("migrated saved progress", "report", mrep.String())
	}
	if len(mrep.UnknownIDs) > 0 {
		e.log.Warn("saved progress has unlocked skills unknown to the graph",
			"nodes", mrep.UnknownIDs, "graph_fallback", report.GraphFallback)
	}
	// A fallback graph is not the player's graph; never rewrite the save
	// against it.
	writeBack := migrated && !report.GraphFallback

	e.graph = graph
	e.mgr = progression.New(graph, doc.Record(e.cfg.Engine.DefaultSkillPoints), e.cfg.Progression(), progression.Options{
		Bus:     e.bus,
		Catalog: e.deps.Catalog,
		Logger:  e.log,
		Save:    func() { e.saveLocked() },
	})
	e.report = report
	e.ready = true

	e.log.Debug("engine ready",
		"nodes", graph.Len(),
		"unlocked", len(doc.UnlockedSkills),
		"graph_fallback", report.GraphFallback,
		"progress_fallback", report.ProgressFallback)
	e.bus.Publish(events.Event{Type: events.EngineReady, Source: graph.Version()})

	if writeBack {
		e.saveLocked()
	}
	return report, nil
}

// Ready reports whether LoadData has completed.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Bus returns the notification bus.
func (e *Engine) Bus() *events.Bus { return e.bus }

// Catalog returns the effect catalog.
func (e *Engine) Catalog() *effects.Catalog { return e.deps.Catalog }

// Config returns the configuration passed to Initialize.
func (e *Engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// CharacterID returns the save slot in use.
func (e *Engine) CharacterID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.CharacterID
}

// LoadReport returns the fallbacks used by the last load.
func (e *Engine) LoadReport() persistence.LoadReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.report
}

// SaveProgress schedules a background save of the current state and
// returns its save id, or "" before the engine is ready.
func (e *Engine) SaveProgress() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return ""
	}
	return e.saveLocked()
}

// SaveProgressSync writes the current state and waits for the store.
func (e *Engine) SaveProgressSync(ctx context.Context) error {
	e.mu.Lock()
	if !e.ready {
		e.mu.Unlock()
		return ErrNotInitialized
	}
	doc := e.documentLocked()
	gw := e.gateway
	e.mu.Unlock()
	return gw.SaveSync(ctx, doc)
}

// Flush waits for every background save to finish.
func (e *Engine) Flush() {
	e.mu.Lock()
	gw := e.gateway
	e.mu.Unlock()
	if gw != nil {
		gw.Wait()
	}
}

// Close abandons pending save retries.
func (e *Engine) Close() {
	e.mu.Lock()
	gw := e.gateway
	e.mu.Unlock()
	if gw != nil {
		gw.Close()
	}
}

func (e *Engine) documentLocked() persistence.Document {
	return persistence.FromRecord(e.cfg.CharacterID, e.mgr.Record())
}

func (e *Engine) saveLocked() string {
	return e.gateway.Save(e.documentLocked())
}

func (e *Engine) journal(ev events.Event) {
	characterID, _ := e.charID.Load().(string)
	if err := e.deps.Journal.Append(context.Background(), characterID, ev); err != nil {
		e.log.Warn("failed to journal event", "type", ev.Type, "error", err)
	}
}
