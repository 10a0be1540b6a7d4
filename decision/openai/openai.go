// Package openai provides a skill matcher backed by the OpenAI Chat
// Completions API.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	"github.com/hupe1980/taskmesh/skill"
)

const systemPrompt = `You match a task onto a skill catalog.
You are given a task description and a list of skills as "name: description" lines.
Answer with exactly one skill name from the list, or the word none if no skill fits.
Output only the name, nothing else.`

// Options configure the OpenAI matcher.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Matcher answers skill-matching questions via the OpenAI Chat Completions
// API. It implements skill.Matcher.
type Matcher struct {
	client *openai.Client
	opts   Options
}

// NewMatcher creates a new OpenAI matcher using the official client
func NewMatcher(optFns ...func(o *Options)) *Matcher {
	client := openai.NewClient()
	return NewMatcherFromClient(&client, optFns...)
}

// NewMatcherFromClient creates a new OpenAI matcher from an existing client
func NewMatcherFromClient(client *openai.Client, optFns ...func(o *Options)) *Matcher {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0,
		MaxCompletionTokens: 64,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Matcher{client: client, opts: opts}
}

// Match implements skill.Matcher. Any answer outside the catalog is treated
// as the none sentinel by the caller.
func (m *Matcher) Match(ctx context.Context, taskDescription string, refs []skill.Ref) (string, error) {
	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: m.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildQuestion(taskDescription, refs)),
		},
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return skill.NoneSentinel, nil
	}

	return firstToken(resp.Choices[0].Message.Content), nil
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
