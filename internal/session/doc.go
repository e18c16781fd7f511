// Package session mirrors the player state to durable key-value storage.
//
// Four entries are kept, each as a string:
//
//	audioSrc   current track reference ("" when nothing is loaded)
//	volume     decimal string in [0,1]
//	favorites  JSON array of track references
//	queue      JSON array of track references
//
// [Session.Save] writes every entry unconditionally. [Session.Load] reads each entry
// independently: a missing or corrupt entry falls back to its default (no track, 0.5,
// empty list) without affecting the others.
//
// Two [Store] implementations are provided: [MemoryStore] for tests and one-off runs,
// and [SQLiteStore] backed by the session_entries table.
package session
