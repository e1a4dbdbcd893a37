package progression

// Reason explains the outcome of a progression operation.
type Reason string

const (
	ReasonNone                    Reason = ""
	ReasonUnknownNode             Reason = "unknown_node"
	ReasonAlreadyUnlocked         Reason = "already_unlocked"
	ReasonAlreadyActive           Reason = "already_active"
	ReasonNotUnlocked             Reason = "not_unlocked"
	ReasonNotActive               Reason = "not_active"
	ReasonInsufficientReputation  Reason = "insufficient_reputation"
	ReasonInsufficientSkillPoints Reason = "insufficient_skill_points"
	ReasonPrerequisitesNotMet     Reason = "prerequisites_not_met"
	ReasonPrerequisitesNotActive  Reason = "prerequisites_not_active"
	ReasonCoreNode                Reason = "core_node"
	ReasonStrandsDependent        Reason = "strands_dependent"
	ReasonNonPositiveAmount       Reason = "non_positive_amount"
	ReasonNotReady                Reason = "not_ready"
)

// Result is returned by every mutator. OK with a non-empty Reason marks an
// idempotent no-op, e.g. unlocking an already unlocked node.
type Result struct {
	OK     bool   `json:"ok"`
	Reason Reason `json:"reason,omitempty"`
}

// Changed reports whether the operation mutated state.
func (r Result) Changed() bool { return r.OK && r.Reason == ReasonNone }

func ok() Result { return Result{OK: true} }

func noop(r Reason) Result { return Result{OK: true, Reason: r} }

func fail(r Reason) Result { return Result{Reason: r} }
