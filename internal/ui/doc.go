// Package ui implements the interactive terminal player using bubbletea's Elm architecture.
//
// The [Model] owns a [player.Controller] and is the only place user commands originate:
//   - space : toggle play/pause
//   - +/- : volume up/down by the controller's step
//   - f/a : add the current track to favorites/queue
//   - n/p : next from the queue head, previous from the queue tail
//   - o : open a path or URL through a text prompt
//   - tab : switch focus between the favorites and queue lists
//   - enter : load the selected list item
//
// Controller calls run as [tea.Cmd]s since opening a track may fetch or decode it.
// Each call answers with a fresh [player.Snapshot], and a periodic tick picks up tracks
// that finish on their own.
package ui
