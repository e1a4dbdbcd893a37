package progression

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/physiq/internal/events"
)

// CanUnlock reports whether Unlock would change state now.
func (m *Manager) CanUnlock(id string) bool { return m.CheckUnlock(id) == ReasonNone }

// CheckUnlock returns why id cannot be unlocked, or ReasonNone.
func (m *Manager) CheckUnlock(id string) Reason {
	n, found := m.graph.Node(id)
	switch {
	case !found:
		return ReasonUnknownNode
	case m.unlocked.contains(id):
		return ReasonAlreadyUnlocked
	case m.rep < n.Cost.Reputation:
		return ReasonInsufficientReputation
	case !m.graph.PrerequisitesMet(id, m.unlocked.contains):
		return ReasonPrerequisitesNotMet
	}
	return ReasonNone
}

// Unlock permanently acquires a node, paying its reputation cost.
// Unlocking an unlocked node is a successful no-op.
func (m *Manager) Unlock(id string) Result {
	reason := m.CheckUnlock(id)
	if reason == ReasonAlreadyUnlocked {
		return noop(reason)
	}
	if reason != ReasonNone {
		m.publish(events.Event{Type: events.UnlockFailed, NodeID: id, Reason: string(reason)})
		return fail(reason)
	}

	n := m.graph.MustNode(id)
	old := m.rep
	m.rep -= n.Cost.Reputation
	m.unlocked.add(id)
	m.tracker.NodeUnlocked(id, m.unlocked.contains)

	m.log.Debug("node unlocked", "node", id, "reputation", m.rep)
	m.publish(events.Event{Type: events.NodeUnlocked, NodeID: id, Specialization: n.SpecializationID()})
	m.publish(events.Event{
		Type:   events.ReputationChanged,
		NodeID: id,
		Source: "unlock",
		Delta:  &events.Delta{Old: old, New: m.rep, Change: m.rep - old},
	})
	m.scheduleSave()
	return ok()
}

// CanActivate reports whether Activate would change state now.
func (m *Manager) CanActivate(id string) bool { return m.CheckActivate(id) == ReasonNone }

// CheckActivate returns why id cannot be activated, or ReasonNone.
func (m *Manager) CheckActivate(id string) Reason {
	n, found := m.graph.Node(id)
	switch {
	case !found:
		return ReasonUnknownNode
	case m.active.contains(id):
		return ReasonAlreadyActive
	case !m.unlocked.contains(id):
		return ReasonNotUnlocked
	case m.sp < n.Cost.SkillPoints:
		return ReasonInsufficientSkillPoints
	case !m.graph.PrerequisitesMet(id, m.active.contains):
		return ReasonPrerequisitesNotActive
	}
	return ReasonNone
}

// Activate enables an unlocked node for the current run, paying its skill
// point cost and applying its effects.
func (m *Manager) Activate(id string) Result {
	reason := m.CheckActivate(id)
	if reason == ReasonAlreadyActive {
		return noop(reason)
	}
	if reason != ReasonNone {
		m.publish(events.Event{Type: events.ActivateFailed, NodeID: id, Reason: string(reason)})
		return fail(reason)
	}

	n := m.graph.MustNode(id)
	old := m.sp
	m.sp -= n.Cost.SkillPoints
	m.active.add(id)
	m.applyEffects(id)

	m.log.Debug("node activated", "node", id, "skill_points", m.sp)
	m.publish(events.Event{Type: events.NodeActivated, NodeID: id})
	m.publish(events.Event{
		Type:   events.SkillPointsChanged,
		NodeID: id,
		Source: "activate",
		Delta:  &events.Delta{Old: old, New: m.sp, Change: m.sp - old},
	})
	return ok()
}

// CanDeactivate reports whether Deactivate would change state now.
func (m *Manager) CanDeactivate(id string) bool { return m.CheckDeactivate(id) == ReasonNone }

// CheckDeactivate returns why id cannot be deactivated, or ReasonNone.
func (m *Manager) CheckDeactivate(id string) Reason {
	n, found := m.graph.Node(id)
	switch {
	case !found:
		return ReasonUnknownNode
	case n.IsCore():
		return ReasonCoreNode
	case !m.active.contains(id):
		return ReasonNotActive
	case len(m.StrandedBy(id)) > 0:
		return ReasonStrandsDependent
	}
	return ReasonNone
}

// StrandedBy returns the active dependents of id whose only active
// prerequisite is id.
func (m *Manager) StrandedBy(id string) []string {
	var stranded []string
	for _, dep := range m.graph.Dependents(id) {
		if !m.active.contains(dep) {
			continue
		}
		other := false
		for _, p := range m.graph.Prerequisites(dep) {
			if p != id && m.active.contains(p) {
				other = true
				break
			}
		}
		if !other {
			stranded = append(stranded, dep)
		}
	}
	return stranded
}

// Deactivate disables an active node, refunding its skill point cost and
// removing exactly its effect contribution. Deactivating an inactive node
// is a successful no-op.
func (m *Manager) Deactivate(id string) Result {
	reason := m.CheckDeactivate(id)
	if reason == ReasonNotActive {
		return noop(reason)
	}
	if reason != ReasonNone {
		m.publish(events.Event{Type: events.DeactivateFailed, NodeID: id, Reason: string(reason)})
		return fail(reason)
	}

	n := m.graph.MustNode(id)
	old := m.sp
	m.sp += n.Cost.SkillPoints
	m.active.remove(id)
	m.agg.Remove(id)

	m.log.Debug("node deactivated", "node", id, "skill_points", m.sp)
	m.publish(events.Event{Type: events.NodeDeactivated, NodeID: id})
	m.publish(events.Event{
		Type:   events.SkillPointsChanged,
		NodeID: id,
		Source: "deactivate",
		Delta:  &events.Delta{Old: old, New: m.sp, Change: m.sp - old},
	})
	return ok()
}

// StartingSkillPoints computes the per-run allowance: the base, one point
// per two character levels and one per achieved specialization.
func (m *Manager) StartingSkillPoints(characterLevel int) int {
	return m.cfg.BaseSkillPoints + max(characterLevel, 0)/2 + len(m.tracker.Achieved())
}

// ResetActiveSkills starts a new run: only core nodes stay active, skill
// points are recomputed and the effect table is rebuilt from the core
// nodes alone.
func (m *Manager) ResetActiveSkills(characterLevel int) {
	oldSP := m.sp
	m.active = newIDSet(nil)
	for _, id := range m.unlocked.list() {
		if m.graph.MustNode(id).IsCore() {
			m.active.add(id)
		}
	}
	m.sp = m.StartingSkillPoints(characterLevel)

	m.agg.Reset()
	for _, id := range m.active.list() {
		m.applyEffects(id)
	}

	m.log.Debug("active skills reset", "skill_points", m.sp, "level", characterLevel)
	m.publish(events.Event{Type: events.SkillsReset, Delta: &events.Delta{Old: oldSP, New: m.sp, Change: m.sp - oldSP}})
	m.publish(events.Event{
		Type:   events.SkillPointsChanged,
		Source: "run_start",
		Delta:  &events.Delta{Old: oldSP, New: m.sp, Change: m.sp - oldSP},
	})
}

// AddReputation credits reputation. Non-positive amounts are rejected
// without mutation.
func (m *Manager) AddReputation(amount int, source string) Result {
	if amount <= 0 {
		return fail(ReasonNonPositiveAmount)
	}
	old := m.rep
	m.rep += amount
	m.publish(events.Event{
		Type:   events.ReputationChanged,
		Source: source,
		Delta:  &events.Delta{Old: old, New: m.rep, Change: amount},
	})
	m.scheduleSave()
	return ok()
}

// AddSkillPoints credits skill points for the current run. Non-positive
// amounts are rejected without mutation.
func (m *Manager) AddSkillPoints(amount int, source string) Result {
	if amount <= 0 {
		return fail(ReasonNonPositiveAmount)
	}
	old := m.sp
	m.sp += amount
	m.publish(events.Event{
		Type:   events.SkillPointsChanged,
		Source: source,
		Delta:  &events.Delta{Old: old, New: m.sp, Change: amount},
	})
	return ok()
}

// ResetAll discards all progression and returns to a fresh player. It is
// an administrative operation and is never offered to players.
func (m *Manager) ResetAll() {
	m.load(NewRecord(m.graph.CoreIDs(), m.cfg.Defaults))
	m.log.Info("progression reset to defaults")
	m.publish(events.Event{Type: events.SkillsReset, Source: "reset_all"})
	m.scheduleSave()
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("progression: marshal %T: %v", v, err))
	}
	return b
}
