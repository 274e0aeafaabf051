package model

import "strings"

// ModelFamily groups model slugs that share request-shaping capabilities.
type ModelFamily struct {
	// Slug is the full model name, e.g. "gpt-4.1-2025-04-14".
	Slug string
	// Family is the catalog entry the slug matched, e.g. "gpt-4.1".
	Family string

	// NeedsSpecialApplyPatchInstructions appends the apply-patch block to the
	// instructions.
	NeedsSpecialApplyPatchInstructions bool
	// SupportsReasoningSummaries allows the reasoning block on requests.
	SupportsReasoningSummaries bool
	// UsesLocalShellTool means the family calls the built-in local_shell tool
	// rather than a function named "shell".
	UsesLocalShellTool bool
}

type familyEntry struct {
	name   string
	prefix bool
	apply  func(f *ModelFamily)
}

// Exact matches come first; prefixes are tried in order.
var families = []familyEntry{
	{name: "o3", apply: reasoningSummaries},
	{name: "o4-mini", apply: reasoningSummaries},
	{name: "codex-mini-latest", apply: func(f *ModelFamily) {
		f.SupportsReasoningSummaries = true
		f.UsesLocalShellTool = true
	}},
	{name: "codex-", prefix: true, apply: reasoningSummaries},
	{name: "gpt-5", prefix: true, apply: reasoningSummaries},
	{name: "gpt-4.1", prefix: true, apply: applyPatch},
	{name: "gpt-4o", prefix: true, apply: applyPatch},
	{name: "gpt-3.5", prefix: true, apply: applyPatch},
}

func reasoningSummaries(f *ModelFamily) { f.SupportsReasoningSummaries = true }

func applyPatch(f *ModelFamily) { f.NeedsSpecialApplyPatchInstructions = true }

// FindFamilyForModel returns the catalog family for slug, or false when the
// slug is unknown.
func FindFamilyForModel(slug string) (ModelFamily, bool) {
	for _, e := range families {
		if (e.prefix && strings.HasPrefix(slug, e.name)) || (!e.prefix && slug == e.name) {
			f := ModelFamily{Slug: slug, Family: e.name}
			e.apply(&f)
			return f, true
		}
	}
	return ModelFamily{}, false
}

// FamilyForModel is FindFamilyForModel with a capability-free fallback for
// unknown slugs.
func FamilyForModel(slug string) ModelFamily {
	if f, ok := FindFamilyForModel(slug); ok {
		return f
	}
	return ModelFamily{Slug: slug, Family: slug}
}
