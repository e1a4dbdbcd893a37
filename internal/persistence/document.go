package persistence

import (
	"maps"
	"slices"
	"time"

	"github.com/abhisek/physiq/internal/progression"
)

// FormatVersion is the save format written by this build.
const FormatVersion = "v2.0.0"

// Document is the persisted form of a player's progression.
type Document struct {
	FormatVersion          string         `json:"format_version,omitempty"`
	CharacterID            string         `json:"character_id,omitempty"`
	Reputation             int            `json:"reputation"`
	UnlockedSkills         []string       `json:"unlocked_skills"`
	ActiveSkills           []string       `json:"active_skills"`
	SkillPointsAvailable   *int           `json:"skill_points_available,omitempty"`
	SpecializationProgress map[string]int `json:"specialization_progress,omitempty"`
	SaveID                 string         `json:"save_id,omitempty"`
	SavedAt                time.Time      `json:"saved_at,omitzero"`
}

// FromRecord builds a document for characterID from the in-memory record.
func FromRecord(characterID string, rec progression.Record) Document {
	sp := rec.SkillPointsAvailable
	return Document{
		FormatVersion:          FormatVersion,
		CharacterID:            characterID,
		Reputation:             rec.Reputation,
		UnlockedSkills:         slices.Clone(rec.UnlockedSkills),
		ActiveSkills:           slices.Clone(rec.ActiveSkills),
		SkillPointsAvailable:   &sp,
		SpecializationProgress: maps.Clone(rec.SpecializationProgress),
	}
}

// Record converts the document back to a record. A missing skill point
// field takes defaultSkillPoints.
func (d Document) Record(defaultSkillPoints int) progression.Record {
	sp := defaultSkillPoints
	if d.SkillPointsAvailable != nil {
		sp = *d.SkillPointsAvailable
	}
	return progression.Record{
		Reputation:             d.Reputation,
		SkillPointsAvailable:   sp,
		UnlockedSkills:         slices.Clone(d.UnlockedSkills),
		ActiveSkills:           slices.Clone(d.ActiveSkills),
		SpecializationProgress: maps.Clone(d.SpecializationProgress),
	}
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	d.UnlockedSkills = slices.Clone(d.UnlockedSkills)
	d.ActiveSkills = slices.Clone(d.ActiveSkills)
	d.SpecializationProgress = maps.Clone(d.SpecializationProgress)
	if d.SkillPointsAvailable != nil {
		sp := *d.SkillPointsAvailable
		d.SkillPointsAvailable = &sp
	}
	return d
}

// DefaultDocument is the progress of a player with no save: the core
// nodes unlocked and active plus the starting grants.
func DefaultDocument(characterID string, coreIDs []string, d progression.Defaults) Document {
	return FromRecord(characterID, progression.NewRecord(coreIDs, d))
}
