// Package viz plays generated animations in the terminal.
//
// Frames are drawn with half blocks in true colour, two pixels per cell,
// scaled to fit the window. The player ticks at 60 Hz and asks the
// animation which frame is due.
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	+/-   - Step one frame forward or back
//	R     - Reverse playback direction
//	B     - Blend frames
//	S     - Save frames
//	G     - Write a GIF of the frames
//	`     - Open or close the console
//	Q     - Quit
//
// The console accepts the commands of package console. Loads run in the
// background; the old animation keeps playing until the new one is ready.
package viz
