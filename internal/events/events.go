// Package events is the engine's typed publish/subscribe bus.
package events

import (
	"encoding/json"
	"time"
)

// Type is an enumerated event name.
type Type string

const (
	EngineReady                   Type = "engine_ready"
	NodeUnlocked                  Type = "node_unlocked"
	NodeActivated                 Type = "node_activated"
	NodeDeactivated               Type = "node_deactivated"
	UnlockFailed                  Type = "unlock_failed"
	ActivateFailed                Type = "activate_failed"
	DeactivateFailed              Type = "deactivate_failed"
	SpecializationUpdated         Type = "specialization_updated"
	SpecializationAchieved        Type = "specialization_achieved"
	SpecializationMasteryAchieved Type = "specialization_mastery_achieved"
	ReputationChanged             Type = "reputation_changed"
	SkillPointsChanged            Type = "skill_points_changed"
	SkillsReset                   Type = "skills_reset"
	EffectPayload                 Type = "effect_payload"
	LoadingError                  Type = "loading_error"
	SaveError                     Type = "save_error"
	SaveSucceeded                 Type = "save_succeeded"
)

// AllTypes returns every event type in declaration order.
func AllTypes() []Type {
	return []Type{
		EngineReady,
		NodeUnlocked,
		NodeActivated,
		NodeDeactivated,
		UnlockFailed,
		ActivateFailed,
		DeactivateFailed,
		SpecializationUpdated,
		SpecializationAchieved,
		SpecializationMasteryAchieved,
		ReputationChanged,
		SkillPointsChanged,
		SkillsReset,
		EffectPayload,
		LoadingError,
		SaveError,
		SaveSucceeded,
	}
}

// Known reports whether t is one of the enumerated types.
func Known(t Type) bool {
	for _, k := range AllTypes() {
		if k == t {
			return true
		}
	}
	return false
}

// Delta describes a currency or counter change.
type Delta struct {
	Old    int `json:"old_value"`
	New    int `json:"new_value"`
	Change int `json:"change"`
}

// Event is a single notification. Only the fields relevant to Type are set.
type Event struct {
	Seq            uint64          `json:"seq"`
	Type           Type            `json:"type"`
	Time           time.Time       `json:"time"`
	NodeID         string          `json:"node_id,omitempty"`
	Specialization string          `json:"specialization,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	Source         string          `json:"source,omitempty"`
	Delta          *Delta          `json:"delta,omitempty"`
	EffectType     string          `json:"effect_type,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Attempt        int             `json:"attempt,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// Handler receives published events.
type Handler func(Event)
