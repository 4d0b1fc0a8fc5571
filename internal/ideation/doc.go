// Package ideation generates ad concepts, scripts, and production
// requirements from product and audience data using the LLM client.
package ideation
