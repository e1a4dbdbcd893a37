// Package enginetest builds ready engines for tests of packages that sit
// on top of the engine.
package enginetest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/physiq/internal/config"
	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/events"
	"github.com/abhisek/physiq/internal/graphfile"
	"github.com/abhisek/physiq/internal/logging"
	"github.com/abhisek/physiq/internal/store"
)

// New returns an initialized engine over the built-in graph and a private
// in-memory store. The player starts with reputation.
func New(t testing.TB, reputation int) *engine.Engine {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	eng := engine.New(engine.Deps{
		Graphs: graphfile.Builtin{},
		Store:  st.ProgressRepo(),
		Bus:    events.NewBus(logging.Discard()),
		Logger: logging.Discard(),
	})
	t.Cleanup(eng.Close)

	cfg := config.DefaultConfig()
	cfg.Engine.StartingReputation = reputation
	cfg.Save.InitialWait = 10 * time.Millisecond
	if _, err := eng.Initialize(context.Background(), cfg); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return eng
}
