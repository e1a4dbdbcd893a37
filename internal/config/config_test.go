package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/physiq/internal/persistence"
	"github.com/abhisek/physiq/internal/skillgraph"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "physiq.hcl")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultCharacterID, cfg.CharacterID)
	assert.Equal(t, 10, cfg.Engine.StartingReputation)
	assert.Equal(t, 3, cfg.Engine.DefaultSkillPoints)
	assert.Equal(t, 3, cfg.Engine.BaseSkillPoints)
	assert.Equal(t, "core_physics", cfg.Engine.LegacyCoreID)
	assert.Equal(t, skillgraph.CoreClusterIDs, cfg.Engine.CoreIDs)
	assert.Equal(t, persistence.RetryFixed, cfg.Save.Policy)
	assert.Equal(t, 30*time.Second, cfg.Save.InitialWait)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	t.Setenv("PHYSIQ_DB", "")
	t.Setenv("PHYSIQ_GRAPH", "")
	t.Setenv("PHYSIQ_CHARACTER", "")

	p := writeConfig(t, `
character = "ada"

engine {
  starting_reputation = 25
  base_skill_points   = 4
}

save {
  policy       = "backoff"
  retry_delay  = "2s"
  max_delay    = "1m"
  max_attempts = 5
}

store {
  path = "/tmp/physiq.db"
}

graph {
  path = "tree.hcl"
}

server {
  addr = "127.0.0.1:9090"
}

log {
  level = "debug"
}
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "ada", cfg.CharacterID)
	assert.Equal(t, 25, cfg.Engine.StartingReputation)
	assert.Equal(t, 3, cfg.Engine.DefaultSkillPoints, "unset fields keep defaults")
	assert.Equal(t, 4, cfg.Engine.BaseSkillPoints)
	assert.Equal(t, persistence.RetryBackoff, cfg.Save.Policy)
	assert.Equal(t, 2*time.Second, cfg.Save.InitialWait)
	assert.Equal(t, time.Minute, cfg.Save.MaxWait)
	assert.Equal(t, 5, cfg.Save.MaxAttempts)
	assert.Equal(t, "/tmp/physiq.db", cfg.StorePath)
	assert.Equal(t, "tree.hcl", cfg.GraphPath)
	assert.Equal(t, "127.0.0.1:9090", cfg.ServerAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	pc := cfg.Progression()
	assert.Equal(t, 4, pc.BaseSkillPoints)
	assert.Equal(t, 25, pc.Defaults.StartingReputation)
	assert.Equal(t, "ada", cfg.Persistence().CharacterID)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("PHYSIQ_DB", "env.db")
	t.Setenv("PHYSIQ_GRAPH", "")
	t.Setenv("PHYSIQ_CHARACTER", "grace")

	p := writeConfig(t, `
character = "ada"
store {
  path = "file.db"
}
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.StorePath)
	assert.Equal(t, "grace", cfg.CharacterID)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `engine {`},
		{"unknown policy", `save { policy = "sometimes" }`},
		{"bad duration", `save { retry_delay = "soon" }`},
		{"negative reputation", `engine { starting_reputation = -1 }`},
		{"unknown attribute", `colour = "red"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadNoFile(t *testing.T) {
	t.Setenv("PHYSIQ_DB", "")
	t.Setenv("PHYSIQ_GRAPH", "")
	t.Setenv("PHYSIQ_CHARACTER", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestResolvePath(t *testing.T) {
	t.Setenv("PHYSIQ_CONFIG", "from-env.hcl")
	assert.Equal(t, "explicit.hcl", ResolvePath("explicit.hcl"))
	assert.Equal(t, "from-env.hcl", ResolvePath(""))
}
