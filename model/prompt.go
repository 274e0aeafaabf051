package model

import (
	"github.com/hupe1980/modelturn/core"
	"github.com/hupe1980/modelturn/logging"
	"github.com/hupe1980/modelturn/tool"
)

const (
	userInstructionsStart = "<user_instructions>\n\n"
	userInstructionsEnd   = "\n\n</user_instructions>"
)

// Prompt is everything a single turn sends to the model. Its methods are pure
// projections and never modify the Prompt.
type Prompt struct {
	// Input is the conversation history, sent verbatim and in order.
	Input []core.ResponseItem
	// UserInstructions are project or user supplied instructions. Nil and
	// empty both mean none.
	UserInstructions *string
	// Store allows the provider to retain the response server side.
	Store bool
	// EnvironmentContext is the snapshot reported to the model, if any.
	EnvironmentContext *EnvironmentContext
	// Tools is the catalog offered on this turn.
	Tools []tool.Spec
	// BaseInstructionsOverride replaces the built-in instructions.
	BaseInstructionsOverride *string
}

// FormatOptions configure FormattedInput.
type FormatOptions struct {
	// Logger receives environment context serialization failures.
	Logger logging.Logger
	// Serialize renders the environment context. Defaults to
	// (*EnvironmentContext).Serialize.
	Serialize func(*EnvironmentContext) (string, error)
}

// FormattedInput returns the input list sent to the model: the environment
// context message, the user instructions message, then the history. Each
// prefix message is present only when its source is. A serialization failure
// is logged and drops only the environment context message.
//
// The returned slice is freshly allocated.
func (p Prompt) FormattedInput(optFns ...func(o *FormatOptions)) []core.ResponseItem {
	opts := FormatOptions{
		Logger:    logging.NoOpLogger{},
		Serialize: (*EnvironmentContext).Serialize,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	out := make([]core.ResponseItem, 0, len(p.Input)+2)

	if p.EnvironmentContext != nil {
		text, err := opts.Serialize(p.EnvironmentContext)
		if err != nil {
			opts.Logger.Error("Error serializing environment context", "error", err)
		} else {
			out = append(out, core.NewUserMessage(text))
		}
	}

	if ui := p.UserInstructions; ui != nil && *ui != "" {
		out = append(out, core.NewUserMessage(userInstructionsStart+*ui+userInstructionsEnd))
	}

	return append(out, p.Input...)
}
