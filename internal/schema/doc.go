// Package schema declares the fixed field table of the games database format.
// Invariants:
//   - Tag spellings are matched case-sensitively ("Game", not "game").
//   - Fields() returns entries in canonical order; JSON output follows it.
//   - The tag/value separator is a single tab (Sep); it is never autodetected.
//   - List tags carry their own item separator: Store splits on spaces,
//     Genre and Tags split on commas.
//   - The table is immutable at runtime. New tags require a new release.
package schema
