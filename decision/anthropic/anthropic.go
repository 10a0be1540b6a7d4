// Package anthropic provides a skill matcher backed by the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/taskmesh/skill"
)

const systemPrompt = `You match a task onto a skill catalog.
You are given a task description and a list of skills as "name: description" lines.
Answer with exactly one skill name from the list, or the word none if no skill fits.
Output only the name, nothing else.`

// Options configures the Anthropic matcher (model id, max tokens, API key).
// Extend via functional options to preserve stability.
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
}

// Matcher answers skill-matching questions via the Anthropic Messages API.
// It implements skill.Matcher.
type Matcher struct {
	client *anthropic.Client
	opts   Options
}

// NewMatcher creates a new Anthropic matcher using the official client
func NewMatcher(optFns ...func(o *Options)) *Matcher {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 64,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Matcher{
		client: &client,
		opts:   opts,
	}
}

// NewMatcherFromClient creates a new Anthropic matcher from an existing client
func NewMatcherFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Matcher {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 64,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Matcher{
		client: client,
		opts:   opts,
	}
}

// Match implements skill.Matcher. Any answer outside the catalog is treated
// as the none sentinel by the caller.
func (m *Matcher) Match(ctx context.Context, taskDescription string, refs []skill.Ref) (string, error) {
	resp, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     m.opts.Model,
		MaxTokens: m.opts.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildQuestion(taskDescription, refs))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return firstToken(block.AsText().Text), nil
		}
	}

	return skill.NoneSentinel, nil
}

// buildQuestion renders the task and the catalog into the user message.
func buildQuestion(taskDescription string, refs []skill.Ref) string {
	var sb strings.Builder

	sb.WriteString("Task: ")
	sb.WriteString(taskDescription)
	sb.WriteString("\n\nSkills:\n")

	for _, r := range refs {
		sb.WriteString(r.Name)
		sb.WriteString(": ")
		sb.WriteString(r.Description)
		sb.WriteString("\n")
	}

	return sb.String()
}

// firstToken reduces a model answer to its first whitespace-delimited token.
func firstToken(s string) string {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return skill.NoneSentinel
	}
	return strings.ToLower(fields[0])
}
