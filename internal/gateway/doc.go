// Package gateway defines the boundary contracts between the terminal core
// and its external collaborators: the geofence decision service, the
// biometric matcher, the punch submission endpoint, and the audit/alert
// side-channel.
//
// The core only ever sees these interfaces. The HTTP implementations here
// are thin JSON clients; their servers' internals (zone math, face models,
// alert routing) are entirely outside the core.
//
// Failure policy at this boundary:
//   - Geofence unreachable → the caller falls back to optimistic
//     acceptance, flagging the punch for later audit. Deliberate policy,
//     not a silent failure.
//   - Biometric results only SUGGEST a punch type; a suggested punch still
//     runs through the full rule table like any manual punch.
package gateway
