// Package services defines shared utilities consumed by the translation
// providers, the batch translator, and the run driver.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, chunk numbers, provider names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     configuration, transport, or response-format problems so the retry
//     policy and run history treat them consistently.
//
// Provider clients live in subpackages (llm for OpenAI-compatible endpoints,
// gemini for the managed Gemini API).
package services
