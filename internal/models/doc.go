// Package models defines the domain types shared by the player, the session store and the UI.
//
// The package contains two categories of types:
//
// 1. Values
//   - [Track] : opaque locator of a playable audio resource (local path, file:// or http(s):// URL)
//   - [State] : the persisted session (current track, volume, favorites, queue)
//
// 2. Collaborator interfaces
//   - [Handle] : a live playback object bound to the audio output pipeline
//   - [Backend] : opens a [Handle] for a [Track]
//   - [Persister] : saves a [State] after every change
//
// Interfaces live here rather than next to their consumers so that test doubles in
// internal/testing can satisfy them without importing the player package.
package models
