// Package intelligence synthesizes competitor intelligence reports and
// ingests live RSS/Atom feeds. All randomness is isolated behind the Provider
// interface so refresh behavior is reproducible in tests.
package intelligence
