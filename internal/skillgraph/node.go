package skillgraph

import "github.com/abhisek/physiq/internal/effects"

// CoreSpecialization is the reserved specialization of tier-0 nodes. It
// always exists even when graph data omits it.
const CoreSpecialization = "core"

// Cost is what a node charges: reputation to unlock, skill points to activate.
type Cost struct {
	Reputation  int `json:"reputation"`
	SkillPoints int `json:"skill_points"`
}

// Position is the renderer's layout hint for a node.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Visual carries renderer-only styling.
type Visual struct {
	Size string `json:"size,omitempty"`
	Icon string `json:"icon,omitempty"`
}

// Node is a single skill in the progression graph.
type Node struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Specialization string           `json:"specialization,omitempty"`
	Tier           int              `json:"tier"`
	Description    string           `json:"description,omitempty"`
	Effects        []effects.Effect `json:"effects,omitempty"`
	Cost           Cost             `json:"cost"`
	Position       *Position        `json:"position,omitempty"`
	Visual         *Visual          `json:"visual,omitempty"`
}

// IsCore reports whether the node belongs to the always-active core cluster.
func (n Node) IsCore() bool { return n.Tier == 0 }

// SpecializationID returns the node's specialization, defaulting to core.
func (n Node) SpecializationID() string {
	if n.Specialization == "" {
		return CoreSpecialization
	}
	return n.Specialization
}

// Connection is a directed edge: unlocking Source satisfies a prerequisite
// of Target.
type Connection struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Specialization groups nodes and defines its unlock-count milestones.
type Specialization struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Color            string `json:"color,omitempty"`
	Threshold        int    `json:"threshold"`
	MasteryThreshold int    `json:"mastery_threshold"`
}

// Data is the full graph document as fetched from a graph source.
type Data struct {
	Version         string           `json:"tree_version,omitempty"`
	Nodes           []Node           `json:"nodes"`
	Connections     []Connection     `json:"connections"`
	Specializations []Specialization `json:"specializations"`
}

// NodeState is a node's state relative to the player. It is derived on
// every query and never stored.
type NodeState int

const (
	StateLocked     NodeState = iota // Not unlocked and not currently unlockable
	StateUnlockable                  // Not unlocked; an unlock would succeed now
	StateUnlocked                    // Permanently owned, not active this run
	StateActive                      // Owned and active this run
)

// String returns the wire name of the state.
func (s NodeState) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateUnlockable:
		return "unlockable"
	case StateUnlocked:
		return "unlocked"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Icon returns the display icon for a node state.
func (s NodeState) Icon() string {
	switch s {
	case StateLocked:
		return "🔒"
	case StateUnlockable:
		return "🔓"
	case StateUnlocked:
		return "⭐"
	case StateActive:
		return "⚡"
	default:
		return "?"
	}
}

// Label returns the display label for a node state.
func (s NodeState) Label() string {
	switch s {
	case StateLocked:
		return "Locked"
	case StateUnlockable:
		return "Unlockable"
	case StateUnlocked:
		return "Unlocked"
	case StateActive:
		return "Active"
	default:
		return "Unknown"
	}
}

func (s NodeState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
