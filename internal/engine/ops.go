package engine

import (
	"github.com/google/uuid"

	"github.com/abhisek/physiq/internal/events"
	"github.com/abhisek/physiq/internal/metrics"
	"github.com/abhisek/physiq/internal/progression"
)

var notReady = progression.Result{Reason: progression.ReasonNotReady}

// Unlock permanently unlocks a node, paying its reputation cost.
func (e *Engine) Unlock(id string) progression.Result {
	return e.mutate("unlock", func(m *progression.Manager) progression.Result { return m.Unlock(id) })
}

// Activate activates an unlocked node for the current run.
func (e *Engine) Activate(id string) progression.Result {
	return e.mutate("activate", func(m *progression.Manager) progression.Result { return m.Activate(id) })
}

// Deactivate deactivates a node, refunding its skill points.
func (e *Engine) Deactivate(id string) progression.Result {
	return e.mutate("deactivate", func(m *progression.Manager) progression.Result { return m.Deactivate(id) })
}

// AddReputation credits reputation from source.
func (e *Engine) AddReputation(amount int, source string) progression.Result {
	return e.mutate("add_reputation", func(m *progression.Manager) progression.Result { return m.AddReputation(amount, source) })
}

// AddSkillPoints credits skill points for the current run.
func (e *Engine) AddSkillPoints(amount int, source string) progression.Result {
	return e.mutate("add_skill_points", func(m *progression.Manager) progression.Result { return m.AddSkillPoints(amount, source) })
}

// Run describes a freshly started run.
type Run struct {
	ID             string `json:"run_id"`
	CharacterLevel int    `json:"character_level"`
	SkillPoints    int    `json:"skill_points"`
}

// ResetActiveSkills starts a new run for a character of the given level.
// The returned Run is zero when the engine is not ready.
func (e *Engine) ResetActiveSkills(characterLevel int) (Run, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		metrics.Operations.WithLabelValues("reset_active_skills", metrics.Result(false, false)).Inc()
		return Run{}, false
	}
	run := Run{ID: uuid.NewString(), CharacterLevel: characterLevel}
	e.log.Info("starting run", "run_id", run.ID, "level", characterLevel)
	e.mgr.ResetActiveSkills(characterLevel)
	run.SkillPoints = e.mgr.SkillPoints()
	metrics.Operations.WithLabelValues("reset_active_skills", metrics.Result(true, true)).Inc()
	return run, true
}

// ResetAll discards all progression for the character and saves.
func (e *Engine) ResetAll() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return false
	}
	e.mgr.ResetAll()
	metrics.Operations.WithLabelValues("reset_all", metrics.Result(true, true)).Inc()
	return true
}

func (e *Engine) mutate(op string, fn func(*progression.Manager) progression.Result) progression.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	var r progression.Result
	if e.ready {
		r = fn(e.mgr)
	} else {
		r = notReady
		if t := failureEvent(op); t != "" {
			e.bus.Publish(events.Event{Type: t, Reason: string(r.Reason)})
		}
	}
	metrics.Operations.WithLabelValues(op, metrics.Result(r.OK, r.Changed())).Inc()
	e.log.Debug("progression operation", "op", op, "ok", r.OK, "reason", r.Reason)
	return r
}

func failureEvent(op string) events.Type {
	switch op {
	case "unlock":
		return events.UnlockFailed
	case "activate":
		return events.ActivateFailed
	case "deactivate":
		return events.DeactivateFailed
	}
	return ""
}
