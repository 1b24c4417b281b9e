// Package typename maps Go types to canonical runtime name strings.
//
// Names are the cross-host currency of the reflection model: every call
// record carries parameter and return types as strings produced here, and
// every embedding generator reads them back. The mapping is a pure function
// of the type:
//
//   - primitives have fixed names (bool, int32, float64, string, ...)
//   - a pointer to a resolvable type resolves to "<base>*"
//   - a slice of a resolvable element resolves to "vector<<elem>>"
//   - a registered override wins over every built-in rule
//   - anything else falls back to the package-qualified Go type string,
//     which is stable within a process but not across runtimes
//
// The override table is append-only and idempotent per type: the first
// registered name for a type wins, and a conflicting re-registration is
// ignored and logged. Reads are lock-free.
package typename
