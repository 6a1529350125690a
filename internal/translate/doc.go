// Package translate turns a chunk of source texts into the same number of
// translations through a pluggable Provider.
//
// # Entry Points
//
// Batch.Translate: prompt, call the provider once per attempt, validate, retry.
// NewManagedProvider / NewCompatibleProvider: the two backend variants.
// DecodeTranslations: code-fence stripping, over-split merge, length checks.
// Policy: attempt count, exponential backoff, per-attempt deadline.
//
// # Failure Model
//
// Missing credentials surface immediately as configuration errors. Transport
// and response format failures are retried; when the last attempt fails the
// caller receives an *ExhaustedRetriesError wrapping that attempt's error.
package translate
