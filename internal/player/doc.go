// Package player mediates between user intent and the audio playback pipeline.
//
// A [Controller] owns the single authoritative "now playing" reference, the live
// [models.Handle] bound to it, the volume, and the favorites and queue lists. Every
// command is a point-in-time operation: commands whose preconditions are missing (no
// track loaded, empty queue) are no-ops, and backend or storage failures are logged
// rather than returned.
//
// # Handle lifecycle
//
// [Controller.Load], [Controller.Next] and [Controller.Previous] close the previous
// handle before opening a new one, so at most one handle is live at any time. The
// backend open runs outside the state lock; a handle whose open finishes after a
// later switch is closed instead of installed.
//
// # Queue semantics
//
// [Controller.Next] consumes the queue from the head. [Controller.Previous] loads the
// queue tail without removing it; it does not walk a playback history.
//
// # Persistence
//
// After every state change the controller hands a copy of its [models.State] to the
// injected [models.Persister].
package player
