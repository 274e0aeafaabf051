package model

import (
	_ "embed"
	"strings"
)

//go:embed prompt.md
var baseInstructions string

//go:embed apply_patch_instructions.md
var applyPatchInstructions string

// BaseInstructions returns the built-in instructions used when a Prompt has no
// override.
func BaseInstructions() string { return baseInstructions }

// ApplyPatchInstructions returns the block appended for families that need
// explicit apply-patch guidance.
func ApplyPatchInstructions() string { return applyPatchInstructions }

// FullInstructions returns the instruction text for family. The override
// replaces the base text entirely; the apply-patch block is appended after a
// single newline when the family needs it.
func (p Prompt) FullInstructions(family ModelFamily) string {
	base := baseInstructions
	if p.BaseInstructionsOverride != nil {
		base = *p.BaseInstructionsOverride
	}
	if !family.NeedsSpecialApplyPatchInstructions {
		return base
	}
	var b strings.Builder
	b.Grow(len(base) + 1 + len(applyPatchInstructions))
	b.WriteString(base)
	b.WriteByte('\n')
	b.WriteString(applyPatchInstructions)
	return b.String()
}
