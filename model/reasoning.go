package model

import "github.com/hupe1980/modelturn/config"

// Reasoning is the optional reasoning block of a request. A nil Summary omits
// the summary field.
type Reasoning struct {
	Effort  config.ReasoningEffort   `json:"effort"`
	Summary *config.ReasoningSummary `json:"summary,omitempty"`
}

// SelectReasoning decides the reasoning block for a turn. It returns nil when
// the family does not support reasoning summaries or the effort is "none".
// Empty values fall back to medium effort and an auto summary.
func SelectReasoning(family ModelFamily, effort config.ReasoningEffort, summary config.ReasoningSummary) *Reasoning {
	if !family.SupportsReasoningSummaries {
		return nil
	}

	switch effort {
	case config.ReasoningEffortNone:
		return nil
	case "":
		effort = config.ReasoningEffortMedium
	}

	r := &Reasoning{Effort: effort}
	switch summary {
	case config.ReasoningSummaryNone:
	case "":
		s := config.ReasoningSummaryAuto
		r.Summary = &s
	default:
		r.Summary = &summary
	}
	return r
}
