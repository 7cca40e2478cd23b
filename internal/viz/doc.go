// Package viz renders a running control loop in the terminal.
//
// [Model] is a Bubble Tea program that steps a session a few ticks per frame
// and draws either a 1-D axis track or an attitude indicator on a Braille
// [Canvas], next to plots of the recent state and command history.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from the initial state
//	←/→   - Nudge the command (manual laws only)
//	↑/↓   - Nudge pitch (manual vehicle laws only)
//	?     - Show help overlay
//	Q     - Quit
package viz
