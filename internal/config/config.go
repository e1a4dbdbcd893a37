// Package config loads physiq settings: built-in defaults, overlaid by an
// optional HCL file, overlaid by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/abhisek/physiq/internal/migrate"
	"github.com/abhisek/physiq/internal/persistence"
	"github.com/abhisek/physiq/internal/progression"
)

// DefaultFile is looked up in the working directory when no config path
// is given.
const DefaultFile = "physiq.hcl"

// DefaultCharacterID names the save slot used when none is configured.
const DefaultCharacterID = "default"

// Config is the resolved configuration.
type Config struct {
	CharacterID string
	Engine      EngineConfig
	Save        persistence.RetryConfig
	StorePath   string
	GraphPath   string
	ServerAddr  string
	LogLevel    string
	LogFormat   string
}

// EngineConfig holds the progression rules.
type EngineConfig struct {
	StartingReputation int
	DefaultSkillPoints int
	BaseSkillPoints    int
	LegacyCoreID       string
	CoreIDs            []string
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	pc := progression.DefaultConfig()
	mp := migrate.DefaultPolicy()
	return Config{
		CharacterID: DefaultCharacterID,
		Engine: EngineConfig{
			StartingReputation: pc.Defaults.StartingReputation,
			DefaultSkillPoints: pc.Defaults.SkillPoints,
			BaseSkillPoints:    pc.BaseSkillPoints,
			LegacyCoreID:       mp.LegacyCoreID,
			CoreIDs:            mp.CoreIDs,
		},
		Save:       persistence.DefaultRetryConfig(),
		ServerAddr: ":8080",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Progression returns the rules for progression.New.
func (c Config) Progression() progression.Config {
	return progression.Config{
		BaseSkillPoints: c.Engine.BaseSkillPoints,
		Defaults:        c.defaults(),
	}
}

// Persistence returns the gateway configuration.
func (c Config) Persistence() persistence.Config {
	return persistence.Config{
		CharacterID: c.CharacterID,
		Defaults:    c.defaults(),
		Retry:       c.Save,
	}
}

// Migration returns the legacy id policy.
func (c Config) Migration() migrate.Policy {
	return migrate.Policy{
		LegacyCoreID: c.Engine.LegacyCoreID,
		CoreIDs:      slices.Clone(c.Engine.CoreIDs),
	}
}

func (c Config) defaults() progression.Defaults {
	return progression.Defaults{
		StartingReputation: c.Engine.StartingReputation,
		SkillPoints:        c.Engine.DefaultSkillPoints,
	}
}

// Validate checks ranges that the decoders cannot.
func (c Config) Validate() error {
	var errs []error
	if c.CharacterID == "" {
		errs = append(errs, errors.New("character id is empty"))
	}
	if c.Engine.StartingReputation < 0 {
		errs = append(errs, fmt.Errorf("engine.starting_reputation %d is negative", c.Engine.StartingReputation))
	}
	if c.Engine.DefaultSkillPoints < 0 {
		errs = append(errs, fmt.Errorf("engine.default_skill_points %d is negative", c.Engine.DefaultSkillPoints))
	}
	if c.Engine.BaseSkillPoints < 0 {
		errs = append(errs, fmt.Errorf("engine.base_skill_points %d is negative", c.Engine.BaseSkillPoints))
	}
	if c.Save.InitialWait <= 0 {
		errs = append(errs, fmt.Errorf("save.retry_delay %s must be positive", c.Save.InitialWait))
	}
	if c.Save.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("save.max_attempts %d is negative", c.Save.MaxAttempts))
	}
	return errors.Join(errs...)
}

// ResolvePath returns the config file to read: explicit wins, then
// PHYSIQ_CONFIG, then DefaultFile if it exists. An empty result means
// defaults only.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("PHYSIQ_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// Load returns the defaults overlaid by the file at path (if any) and the
// environment.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays PHYSIQ_DB, PHYSIQ_GRAPH and PHYSIQ_CHARACTER.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("PHYSIQ_DB"); v != "" {
		c.StorePath = v
	}
	if v := getenv("PHYSIQ_GRAPH"); v != "" {
		c.GraphPath = v
	}
	if v := getenv("PHYSIQ_CHARACTER"); v != "" {
		c.CharacterID = v
	}
}

// fileConfig is the HCL layout. Every field is optional and only set
// fields override the defaults.
type fileConfig struct {
	Character *string     `hcl:"character,optional"`
	Engine    *fileEngine `hcl:"engine,block"`
	Save      *fileSave   `hcl:"save,block"`
	Store     *filePath   `hcl:"store,block"`
	Graph     *filePath   `hcl:"graph,block"`
	Server    *fileServer `hcl:"server,block"`
	Log       *fileLog    `hcl:"log,block"`
}

type fileEngine struct {
	StartingReputation *int     `hcl:"starting_reputation,optional"`
	DefaultSkillPoints *int     `hcl:"default_skill_points,optional"`
	BaseSkillPoints    *int     `hcl:"base_skill_points,optional"`
	LegacyCoreID       *string  `hcl:"legacy_core_id,optional"`
	CoreIDs            []string `hcl:"core_ids,optional"`
}

type fileSave struct {
	Policy         *string  `hcl:"policy,optional"`
	RetryDelay     *string  `hcl:"retry_delay,optional"`
	MaxDelay       *string  `hcl:"max_delay,optional"`
	Multiplier     *float64 `hcl:"multiplier,optional"`
	MaxAttempts    *int     `hcl:"max_attempts,optional"`
	AttemptTimeout *string  `hcl:"attempt_timeout,optional"`
}

type filePath struct {
	Path string `hcl:"path"`
}

type fileServer struct {
	Addr string `hcl:"addr"`
}

type fileLog struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

func (c *Config) applyFile(path string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse config file %s: %s", path, diags.Error())
	}
	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode config file %s: %s", path, diags.Error())
	}
	return c.overlay(fc)
}

func (c *Config) overlay(fc fileConfig) error {
	setString(&c.CharacterID, fc.Character)

	if e := fc.Engine; e != nil {
		setInt(&c.Engine.StartingReputation, e.StartingReputation)
		setInt(&c.Engine.DefaultSkillPoints, e.DefaultSkillPoints)
		setInt(&c.Engine.BaseSkillPoints, e.BaseSkillPoints)
		setString(&c.Engine.LegacyCoreID, e.LegacyCoreID)
		if e.CoreIDs != nil {
			c.Engine.CoreIDs = slices.Clone(e.CoreIDs)
		}
	}

	if s := fc.Save; s != nil {
		if s.Policy != nil {
			p, err := persistence.ParseRetryPolicy(*s.Policy)
			if err != nil {
				return fmt.Errorf("save.policy: %w", err)
			}
			c.Save.Policy = p
		}
		if err := setDuration(&c.Save.InitialWait, s.RetryDelay, "save.retry_delay"); err != nil {
			return err
		}
		if err := setDuration(&c.Save.MaxWait, s.MaxDelay, "save.max_delay"); err != nil {
			return err
		}
		if err := setDuration(&c.Save.AttemptTimeout, s.AttemptTimeout, "save.attempt_timeout"); err != nil {
			return err
		}
		if s.Multiplier != nil {
			c.Save.Multiplier = *s.Multiplier
		}
		setInt(&c.Save.MaxAttempts, s.MaxAttempts)
	}

	if fc.Store != nil {
		c.StorePath = fc.Store.Path
	}
	if fc.Graph != nil {
		c.GraphPath = fc.Graph.Path
	}
	if fc.Server != nil {
		c.ServerAddr = fc.Server.Addr
	}
	if l := fc.Log; l != nil {
		setString(&c.LogLevel, l.Level)
		setString(&c.LogFormat, l.Format)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, field string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}
