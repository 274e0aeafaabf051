// Package model assembles a single model turn and carries the reply back to
// the caller.
//
// A turn starts from a Prompt (conversation history, optional user
// instructions, an EnvironmentContext snapshot and the tool catalog).
// BuildRequest turns it into the provider-neutral Request envelope:
//   - instructions: the base text or an override, plus the apply-patch block
//     for families that need it
//   - input: environment context, user instructions, then history verbatim
//   - reasoning: present only for families that support it and when the
//     configured effort is not "none"
//
// Providers (model/openai, model/anthropic) implement the Model interface.
// They start one producer goroutine per turn that pushes ResponseEvent values
// into a bounded ResponseStream which the caller drains with Recv, Next or
// All. Collect drains a stream into a TurnResult for non-interactive callers.
package model
