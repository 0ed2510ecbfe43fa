// Package ui contains the Bubble Tea program that browses a Kafka cluster.
//
// Key handling is an explicit state machine. Model.mode is one of Normal,
// Edit or Help; orthogonal to it, Model.focus names the focused pane, drawn
// from the focus ring of the active top-level mode (Consumer or Producer).
// A key is first resolved to an action for the current mode
// (resolveAction), then looked up in the transition table
// (registerTransitions). A missing entry means the key does nothing in that
// mode, which is how Help suspends everything except its toggle and quit,
// and how Edit keeps 'q' as literal text.
//
// Message flow:
//   - Keyboard, resize and tick messages arrive through Model.Update and are
//     routed by type to a handler.
//   - Intents (select partition, seek, navigate, refresh) leave through the
//     command bus. The session controller never blocks the caller.
//   - Metadata refreshes arrive as backend events and are applied to the
//     metadata store by the dispatcher. A failed refresh keeps every pane
//     as it was and only changes the status line.
//   - Cursor snapshots arrive from the session's update channel. A snapshot
//     older than the one already applied is ignored.
//
// View is a pure projection of the model: it renders the snapshot, the pane
// lists, the cursor, the edit buffer and the mode without side effects.
package ui
