// Package llm provides a client for OpenAI-compatible chat completion APIs.
//
// It backs the "compatible" translation provider: any endpoint that accepts
// POST {base_url}/chat/completions with bearer authentication and honours
// response_format {"type":"json_object"}.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteJSON: send system/user prompts, receive the raw JSON content.
// Client.HealthCheck: verify API key and model availability.
// DecodeContent / StripCodeFence: tolerate code fences and prose around JSON.
//
// # Retry Behaviour
//
// The client performs exactly one HTTP round trip per call. Failures are
// tagged with services markers (configuration, transport, response format) so
// the translate retry policy can decide whether another attempt is worthwhile.
package llm
