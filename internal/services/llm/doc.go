// Package llm wraps an OpenRouter-style chat completions endpoint with
// JSON-only requests, bounded retries, and tolerant response decoding.
//
// Ideation features build typed wrappers on top of CompleteJSON; this package
// stays prompt-agnostic and owns only transport concerns.
package llm
