// Package analytics derives read-only dashboard summaries from independently
// fetched record collections.
//
// Everything here is a pure function: no caching, no side effects, recomputed
// on every call. Division by zero is guarded everywhere; an empty collection
// always yields a zero summary, never an error.
package analytics
