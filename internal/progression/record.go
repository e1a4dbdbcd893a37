package progression

import (
	"maps"
	"slices"
)

// Record is the authoritative mutable player state.
type Record struct {
	Reputation             int            `json:"reputation"`
	SkillPointsAvailable   int            `json:"skill_points_available"`
	UnlockedSkills         []string       `json:"unlocked_skills"`
	ActiveSkills           []string       `json:"active_skills"`
	SpecializationProgress map[string]int `json:"specialization_progress"`
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	r.UnlockedSkills = slices.Clone(r.UnlockedSkills)
	r.ActiveSkills = slices.Clone(r.ActiveSkills)
	r.SpecializationProgress = maps.Clone(r.SpecializationProgress)
	return r
}

// Defaults are the values a fresh player starts with.
type Defaults struct {
	StartingReputation int
	SkillPoints        int
}

// DefaultDefaults returns reputation 10 and 3 skill points.
func DefaultDefaults() Defaults {
	return Defaults{StartingReputation: 10, SkillPoints: 3}
}

// NewRecord returns the record of a fresh player: the given core ids
// unlocked and active.
func NewRecord(coreIDs []string, d Defaults) Record {
	return Record{
		Reputation:             d.StartingReputation,
		SkillPointsAvailable:   d.SkillPoints,
		UnlockedSkills:         slices.Clone(coreIDs),
		ActiveSkills:           slices.Clone(coreIDs),
		SpecializationProgress: map[string]int{},
	}
}

// idSet is an insertion-ordered set of node ids.
type idSet struct {
	order []string
	has   map[string]bool
}

func newIDSet(ids []string) *idSet {
	s := &idSet{has: make(map[string]bool, len(ids))}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *idSet) add(id string) bool {
	if s.has[id] {
		return false
	}
	s.has[id] = true
	s.order = append(s.order, id)
	return true
}

func (s *idSet) remove(id string) bool {
	if !s.has[id] {
		return false
	}
	delete(s.has, id)
	s.order = slices.DeleteFunc(s.order, func(x string) bool { return x == id })
	return true
}

func (s *idSet) contains(id string) bool { return s.has[id] }

func (s *idSet) list() []string { return slices.Clone(s.order) }

func (s *idSet) len() int { return len(s.order) }
