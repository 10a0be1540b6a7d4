package skill

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/taskmesh/core"
)

func TestCatalog_LoadsBuiltins(t *testing.T) {
	c, err := NewCatalog(context.Background())
	assert.NoError(t, err)

	s, ok := c.Get("document-authoring")
	assert.True(t, ok)
	assert.NotEmpty(t, s.Prompt)

	refs := c.Refs()
	assert.Len(t, refs, len(Builtins()))
}

func TestCatalog_StoreOverridesBuiltin(t *testing.T) {
	store := NewInMemoryStore()
	custom := core.Skill{Name: "document-authoring", Description: "custom override", Prompt: "custom"}
	assert.NoError(t, store.Save(context.Background(), custom))

	c, err := NewCatalog(context.Background(), func(o *Options) {
		o.Store = store
	})
	assert.NoError(t, err)

	s, ok := c.Get("document-authoring")
	assert.True(t, ok)
	assert.Equal(t, "custom override", s.Description)
	// The catalog size is unchanged: override, not duplicate
	assert.Len(t, c.Refs(), len(Builtins()))
}

func TestCatalog_ResolveExplicitName(t *testing.T) {
	c, err := NewCatalog(context.Background())
	assert.NoError(t, err)

	s, err := c.Resolve(context.Background(), Task{Name: "spreadsheet-analysis"})
	assert.NoError(t, err)
	assert.NotNil(t, s)
	assert.Equal(t, "spreadsheet-analysis", s.Name)
}

func TestCatalog_ResolveUnknownNameYieldsNoSkill(t *testing.T) {
	c, err := NewCatalog(context.Background())
	assert.NoError(t, err)

	s, err := c.Resolve(context.Background(), Task{Name: "does-not-exist"})
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestCatalog_ResolveMatcherOnlyForSpecialized(t *testing.T) {
	matcherCalls := 0
	matcher := MatcherFunc(func(_ context.Context, _ string, _ []Ref) (string, error) {
		matcherCalls++
		return "presentation-design", nil
	})

	c, err := NewCatalog(context.Background(), func(o *Options) {
		o.Matcher = matcher
	})
	assert.NoError(t, err)

	// Plain task: no matcher consult, no skill
	s, err := c.Resolve(context.Background(), Task{Description: "simple chore"})
	assert.NoError(t, err)
	assert.Nil(t, s)
	assert.Equal(t, 0, matcherCalls)

	// Specialized task routes through the matcher
	s, err = c.Resolve(context.Background(), Task{Description: "build a deck", Specialized: true})
	assert.NoError(t, err)
	assert.NotNil(t, s)
	assert.Equal(t, "presentation-design", s.Name)
	assert.Equal(t, 1, matcherCalls)
}

func TestCatalog_ResolveMatcherAnswers(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string // empty means no skill
	}{
		{"none sentinel", "none", ""},
		{"empty answer", "", ""},
		{"non-catalog answer", "quantum-baking", ""},
		{"catalog answer with padding", "  Document-Authoring  ", "document-authoring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog(context.Background(), func(o *Options) {
				o.Matcher = MatcherFunc(func(context.Context, string, []Ref) (string, error) {
					return tt.answer, nil
				})
			})
			assert.NoError(t, err)

			s, err := c.Resolve(context.Background(), Task{Description: "x", Specialized: true})
			assert.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, s)
			} else {
				assert.NotNil(t, s)
				assert.Equal(t, tt.want, s.Name)
			}
		})
	}
}

func TestCatalog_ResolveMatcherError(t *testing.T) {
	c, err := NewCatalog(context.Background(), func(o *Options) {
		o.Matcher = MatcherFunc(func(context.Context, string, []Ref) (string, error) {
			return "", errors.New("api down")
		})
	})
	assert.NoError(t, err)

	_, err = c.Resolve(context.Background(), Task{Description: "x", Specialized: true})
	assert.Error(t, err)
}

func TestCatalog_Register(t *testing.T) {
	store := NewInMemoryStore()
	c, err := NewCatalog(context.Background(), func(o *Options) {
		o.Store = store
	})
	assert.NoError(t, err)

	s := core.Skill{Name: "meeting-notes", Description: "condense transcripts"}
	assert.NoError(t, c.Register(context.Background(), s))

	got, ok := c.Get("meeting-notes")
	assert.True(t, ok)
	assert.Equal(t, "condense transcripts", got.Description)

	persisted, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.Len(t, persisted, 1)
}

func TestCatalog_RegisterInvalidName(t *testing.T) {
	c, err := NewCatalog(context.Background())
	assert.NoError(t, err)

	assert.Error(t, c.Register(context.Background(), core.Skill{Name: ""}))
	assert.Error(t, c.Register(context.Background(), core.Skill{Name: "Has Spaces"}))
	assert.Error(t, c.Register(context.Background(), core.Skill{Name: "-leading"}))
	assert.Error(t, c.Register(context.Background(), core.Skill{Name: "double--hyphen"}))
	assert.NoError(t, c.Register(context.Background(), core.Skill{Name: "valid-name-9"}))
}

type failingStore struct{}

func (failingStore) Load(context.Context) ([]core.Skill, error) { return nil, nil }
func (failingStore) Save(context.Context, core.Skill) error     { return errors.New("disk full") }

func TestCatalog_RegisterPersistFailureIsNonFatal(t *testing.T) {
	c, err := NewCatalog(context.Background(), func(o *Options) {
		o.Store = failingStore{}
	})
	assert.NoError(t, err)

	err = c.Register(context.Background(), core.Skill{Name: "meeting-notes"})
	assert.ErrorIs(t, err, ErrSkillPersist)

	// The skill is still usable for the rest of the session
	_, ok := c.Get("meeting-notes")
	assert.True(t, ok)
}
