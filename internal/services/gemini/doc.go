// Package gemini is the managed translation backend: a thin client for the
// Generative Language generateContent REST endpoint.
//
// Models are restricted to the closed set returned by Models. Requests carry a
// system instruction, a single user turn, temperature 0.3 and
// responseMimeType application/json. Like the llm package, the client makes one
// HTTP attempt per call and tags failures with services markers.
package gemini
