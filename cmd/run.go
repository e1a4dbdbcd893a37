package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/physiq/internal/app"
	"github.com/abhisek/physiq/internal/engine"
	"github.com/abhisek/physiq/internal/graphfile"
	"github.com/abhisek/physiq/internal/store"
)

// session is an open store with an engine loaded over it.
type session struct {
	store  *store.Store
	engine *engine.Engine
}

// Close flushes pending saves and releases the store.
func (s *session) Close() {
	s.engine.Flush()
	s.engine.Close()
	s.store.Close()
}

// openSession opens the store, builds the engine and loads the graph and
// the character's progress.
func openSession(ctx context.Context) (*session, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	eng := engine.New(engine.Deps{
		Graphs:  graphfile.SourceFor(cfg.GraphPath),
		Store:   st.ProgressRepo(),
		Journal: st.EventRepo(),
		Logger:  logger,
	})
	report, err := eng.Initialize(ctx, cfg)
	if err != nil {
		eng.Close()
		st.Close()
		return nil, fmt.Errorf("load progress: %w", err)
	}
	logger.Debug("engine ready", "db", dbPath, "character", cfg.CharacterID,
		"graph_fallback", report.GraphFallback, "new_player", report.NewPlayer)
	return &session{store: st, engine: eng}, nil
}

// runApp opens a session and launches the TUI.
func runApp(cmd *cobra.Command) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()
	return app.Run(s.engine)
}
