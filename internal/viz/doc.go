// Package viz renders creatures in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas (2x4 dots per cell)
//   - [DrawCreature]: plots a creature's display layout onto a canvas
//   - [Model]: Bubble Tea program that replays a creature's settling run
//
// # Key Bindings
//
//	Space - Pause/Resume replay
//	R     - Reset to the baseline
//	D     - Toggle deleted styling
//	Q     - Quit
package viz
