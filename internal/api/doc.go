// Package api exposes the segmentation and translation pipeline over HTTP.
//
// Routes live under /api and exchange camelCase JSON:
//
//	POST /api/detect     classify text as subtitle, lyrics, or plain-text
//	POST /api/parse      split text into segments
//	POST /api/serialize  render segments in a content type and output mode
//	POST /api/translate  parse, translate, and serialize in one call
//	GET  /api/runs       recent runs from the history ledger
//	GET  /api/runs/{id}  one run, with live progress while it is active
//	GET  /api/health     liveness and provider readiness
//
// A failed translation answers 502 with the provider error verbatim and the
// partially translated output, matching what the CLI prints. When api.token
// is set every route except /api/health requires a bearer token.
package api
