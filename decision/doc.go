// Package decision hosts LLM-backed implementations of external decision
// points: subpackages anthropic and openai provide skill matchers over the
// respective provider SDKs.
package decision
