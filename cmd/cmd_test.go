package cmd

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/abhisek/physiq/internal/store"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "physiq.db")
}

func TestGraphValidate(t *testing.T) {
	db := tempDB(t)
	good := filepath.Join("..", "internal", "graphfile", "testdata", "graph.hcl")
	if err := execute(t, "graph", "validate", good, "--db", db); err != nil {
		t.Fatalf("validate %s: %v", good, err)
	}

	bad := filepath.Join("..", "internal", "graphfile", "testdata", "bad_schema.json")
	err := execute(t, "graph", "validate", bad, "--db", db)
	if err == nil || !strings.Contains(err.Error(), "schema") {
		t.Errorf("validate %s: err = %v, want schema error", bad, err)
	}
}

func TestNodeUnlockPersists(t *testing.T) {
	db := tempDB(t)
	if err := execute(t, "grant", "reputation", "50", "--db", db); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := execute(t, "node", "unlock", "quantum_comprehension", "--db", db); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	st, err := store.Open(db)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	doc, err := st.ProgressRepo().FetchProgress(context.Background(), "default")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !slices.Contains(doc.UnlockedSkills, "quantum_comprehension") {
		t.Errorf("unlocked = %v, want quantum_comprehension", doc.UnlockedSkills)
	}
	if doc.Reputation != 50 {
		t.Errorf("reputation = %d, want 50", doc.Reputation)
	}
}

func TestNodeUnlockRejected(t *testing.T) {
	err := execute(t, "node", "unlock", "dosimetry_theory", "--db", tempDB(t))
	if err == nil || !strings.Contains(err.Error(), "insufficient_reputation") {
		t.Errorf("err = %v, want insufficient_reputation", err)
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	err := execute(t, "reset", "--yes=false", "--db", tempDB(t))
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Errorf("err = %v, want confirmation error", err)
	}
}

func TestCharacterFlag(t *testing.T) {
	db := tempDB(t)
	if err := execute(t, "grant", "reputation", "5", "--character", "alice", "--db", db); err != nil {
		t.Fatalf("grant: %v", err)
	}
	st, err := store.Open(db)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()
	ids, err := st.ProgressRepo().Characters(context.Background())
	if err != nil {
		t.Fatalf("characters: %v", err)
	}
	if !slices.Contains(ids, "alice") {
		t.Errorf("characters = %v, want alice", ids)
	}
}
