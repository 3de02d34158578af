// Package diag defines the diagnostic model shared by the semantic pass, the
// code generator and the drivers.
//
// A Diagnostic carries a Severity, a compact Code (see codes.go) with a stable
// ID such as SEM3002, a short Message, the Primary span of the offending node
// and optional Notes.
//
// Passes emit through a Reporter. BagReporter collects into a Bag, which
// supports sorting and deduplication; DedupReporter suppresses repeats before
// they reach the next reporter. Rendering lives in internal/diagfmt.
package diag
