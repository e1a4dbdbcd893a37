package app

import (
	"fmt"
	"strings"

	"github.com/abhisek/physiq/internal/events"
)

// Notice summarizes an event for the footer. Events not worth showing
// return "".
func Notice(e events.Event) string {
	switch e.Type {
	case events.SpecializationAchieved:
		return fmt.Sprintf("✦ Specialist: %s", e.Specialization)
	case events.SpecializationMasteryAchieved:
		return fmt.Sprintf("★ Master: %s", e.Specialization)
	case events.ReputationChanged:
		if e.Delta != nil && e.Delta.Change > 0 {
			return fmt.Sprintf("+%d reputation", e.Delta.Change)
		}
	case events.SkillsReset:
		return "New run started"
	case events.SaveSucceeded:
		return "Progress saved"
	case events.SaveError:
		return fmt.Sprintf("Save failed (attempt %d)", e.Attempt)
	case events.LoadingError:
		return "Loading error: " + e.Error
	case events.EffectPayload:
		return "Effect ready: " + strings.ReplaceAll(e.EffectType, "_", " ")
	}
	return ""
}
