package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkill_Apply(t *testing.T) {
	base := NewExecutionContext("You are an assistant.", "read_file")
	base.Model = "default-model"

	s := Skill{
		Name:          "document-authoring",
		Prompt:        "You write documents.",
		RequiredTools: []string{"write_file", "read_file"},
		Model:         "bigger-model",
		Modifications: []Modification{
			AddInstruction{Text: "Use headings."},
			SetParameter{Key: "audience", Value: "business"},
			EnableFeature{Feature: "spellcheck", Enabled: true},
		},
	}

	out := s.Apply(base)

	// Prompt expansion appended after the base prompt
	assert.Equal(t, "You are an assistant.\n\nYou write documents.", out.BasePrompt)
	// Tool union dedupes and keeps base order first
	assert.Equal(t, []string{"read_file", "write_file"}, out.Tools)
	assert.Equal(t, "bigger-model", out.Model)
	assert.Equal(t, []string{"Use headings."}, out.Instructions)
	assert.Equal(t, "business", out.Parameters["audience"])
	assert.True(t, out.Features["spellcheck"])
}

func TestSkill_ApplyNeverMutatesBase(t *testing.T) {
	base := NewExecutionContext("base", "read_file")
	base.Model = "default-model"

	s := Skill{
		Name:          "x",
		Prompt:        "extra",
		RequiredTools: []string{"write_file"},
		Model:         "other-model",
		Modifications: []Modification{
			AddInstruction{Text: "hi"},
			SetParameter{Key: "k", Value: 1},
		},
	}

	out := s.Apply(base)
	assert.NotSame(t, base, out)

	assert.Equal(t, "base", base.BasePrompt)
	assert.Equal(t, []string{"read_file"}, base.Tools)
	assert.Equal(t, "default-model", base.Model)
	assert.Empty(t, base.Instructions)
	assert.Empty(t, base.Parameters)
}

func TestSkill_ApplyWithoutModelOverride(t *testing.T) {
	base := NewExecutionContext("base")
	base.Model = "default-model"

	out := Skill{Name: "x", Prompt: "extra"}.Apply(base)
	assert.Equal(t, "default-model", out.Model)
}

func TestSkill_ApplyModificationOrder(t *testing.T) {
	base := NewExecutionContext("")

	s := Skill{
		Name: "x",
		Modifications: []Modification{
			SetParameter{Key: "k", Value: "first"},
			SetParameter{Key: "k", Value: "second"},
			AddInstruction{Text: "a"},
			AddInstruction{Text: "b"},
		},
	}

	out := s.Apply(base)
	// Later modifications win over earlier ones
	assert.Equal(t, "second", out.Parameters["k"])
	assert.Equal(t, []string{"a", "b"}, out.Instructions)
}

func TestSkill_ApplyEmptyBasePrompt(t *testing.T) {
	out := Skill{Name: "x", Prompt: "only skill prompt"}.Apply(NewExecutionContext(""))
	assert.Equal(t, "only skill prompt", out.BasePrompt)
}
