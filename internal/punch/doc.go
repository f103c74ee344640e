// Package punch provides the core vocabulary for the time-clock terminal.
//
// This package contains type definitions only. All other internal packages
// import punch; punch imports nothing internal. This keeps the vocabulary
// layer free of circular dependencies.
//
// Key design constraints:
//   - PunchType, Source, and SyncStatus are closed enumerations. Every
//     lookup over them is an exhaustive switch, never a string-keyed map,
//     so adding a variant is a compile-time-checked change.
//   - Timestamps are civil wall-clock times ("HH:MM:SS") anchored to the
//     terminal's configured timezone. Rule evaluation never sees UTC.
//   - Ledgers are append-only within a single calendar day.
package punch
