package core

// Skill is a named behavior profile that expands or mutates the execution
// context for a specialized class of task: a prompt expansion, a set of
// tools the skill requires, an optional model override and an ordered list
// of further context modifications.
type Skill struct {
	Name          string
	Description   string
	Prompt        string
	RequiredTools []string
	Model         string
	Modifications []Modification
}

// Modification represents one declarative context mutation carried by a
// skill. Concrete kinds implement the unexported marker, forming a closed
// set; persistence layers map unknown kinds to nothing rather than failing.
type Modification interface{ isModification() }

// AddInstruction appends text to the context's instruction sequence.
type AddInstruction struct {
	Text string
}

func (AddInstruction) isModification() {}

// SetParameter upserts a key/value pair in the context's parameter map.
type SetParameter struct {
	Key   string
	Value any
}

func (SetParameter) isModification() {}

// EnableFeature sets a boolean feature flag in the context.
type EnableFeature struct {
	Feature string
	Enabled bool
}

func (EnableFeature) isModification() {}

// Apply produces a new execution context with the skill layered on top of
// base. The base context is never mutated. Mutations apply in a fixed order:
//
//  1. the skill's prompt expansion is appended to the base prompt
//  2. required tool names are unioned into the available set (deduped)
//  3. the model identifier is overridden only when the skill sets one
//  4. each declared modification applies in order; unrecognized kinds are
//     ignored, not an error
func (s Skill) Apply(base *ExecutionContext) *ExecutionContext {
	out := base.Clone()

	if s.Prompt != "" {
		if out.BasePrompt != "" {
			out.BasePrompt += "\n\n" + s.Prompt
		} else {
			out.BasePrompt = s.Prompt
		}
	}

	out.AddTools(s.RequiredTools...)

	if s.Model != "" {
		out.Model = s.Model
	}

	for _, mod := range s.Modifications {
		switch m := mod.(type) {
		case AddInstruction:
			out.Instructions = append(out.Instructions, m.Text)
		case SetParameter:
			if out.Parameters == nil {
				out.Parameters = map[string]any{}
			}
			out.Parameters[m.Key] = m.Value
		case EnableFeature:
			if out.Features == nil {
				out.Features = map[string]bool{}
			}
			out.Features[m.Feature] = m.Enabled
		}
	}

	return out
}
