// Package engine implements the punch sequencing and validation engine.
//
// ARCHITECTURE:
//
// Single-Commit Pipeline:
// All ledger mutations happen inside Committer.Commit, which is serialized
// by a mutex: no two commits are ever in flight. This ensures:
// - The ledger has exactly one writer
// - Rule evaluation always sees a settled ledger
// - The append is an unambiguous, irrevocable commit point
//
// Commit flow:
//  1. Capture the civil wall-clock timestamp from the injected Clock
//  2. Resolve the punch type (caller-forced, or the sequencer's next type)
//  3. Evaluate the rule table in declaration order, short-circuiting on
//     the first violation (deterministic rejection reason)
//  4. Gate on the geofence service when online (denial blocks; an
//     unreachable service degrades to optimistic acceptance with an
//     audit flag)
//  5. Append to the day ledger (durable write first, then in-memory)
//  6. Submit directly when online, or enqueue for later flush
//
// A rejected candidate never changes state. Once step 5 has run the punch
// is committed and cannot be rolled back; only steps 1-4 observe context
// cancellation.
//
// The engine never reads the system clock or UTC directly: the Clock is
// injected and returns time in the terminal's fixed civil timezone, so the
// validator, sequencer, and ledger manager are all testable with a manual
// clock.
package engine
