// Package store provides durable SQLite storage for the terminal: the
// current day's punch rows and the offline submission queue.
//
// Durability model:
//   - Every committed punch is written before the in-memory ledger append,
//     so a restarted terminal reloads the day and resumes mid-sequence.
//   - Queue rows survive restart; a punch enqueued offline is flushed by
//     whichever process observes connectivity next.
//   - All identity-keyed writes use ON CONFLICT(id) DO NOTHING, making
//     replays after a crash or a lost acknowledgment idempotent.
//
// The database runs in WAL mode with a single writer connection, which is
// all the commit pipeline's one-at-a-time discipline needs.
package store
