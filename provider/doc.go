// Package provider defines the external capability interfaces the echo engine
// consumes — batched text embedding, single-shot completion and streaming
// completion — together with an in-memory Mock for tests and examples.
//
// Concrete adapters live in subpackages:
//
//   - provider/openai: OpenAI-compatible endpoints (embeddings, chat, streaming)
//   - provider/anthropic: Anthropic Messages API (completion, streaming)
//
// The interfaces are intentionally minimal so any request/response service can
// back them. Failure semantics: transport-level problems (unreachable host,
// timeout, malformed embedding payload) surface as errors wrapping
// core.ErrTransport; the content of a completion is never validated here —
// callers parse defensively.
package provider
