// Package queue implements the offline-first submission queue.
//
// Accepted punches that cannot be delivered immediately (device offline,
// or the direct network call failed) are persisted as queued submissions
// and replayed later, strictly in FIFO enqueue order.
//
// GUARANTEES:
//   - Single-flight: only one flush pass runs at a time. A concurrent
//     Flush call returns ErrFlushInFlight instead of interleaving.
//   - FIFO: a failed submission stops the pass, so later punches never
//     reach the server before an earlier one.
//   - Idempotent: the submission identity is the punch record ID, and the
//     durable writes use conflict-ignoring inserts, so a replay after a
//     lost acknowledgment cannot create duplicates on either side.
//   - Non-blocking: flushing runs off the commit path; sync failures are
//     reflected only in the pending count, never in a rejected punch.
package queue
