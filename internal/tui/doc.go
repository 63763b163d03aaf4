// Package tui implements the live watch screen of the gpiostatus CLI.
//
// The screen is a Bubble Tea model wrapped around a refresh.Controller. The
// controller writes into a refresh.Board and the model draws that board with
// ui.Page on every change, so the terminal shows the same regions the web
// page does: the GPIO table, services, hardware facts, and alternate
// functions.
//
// # Key Bindings
//
//   - r: refresh
//   - c, s, o, p, n, i: toggle compact view, hide special pins, order by
//     name, hide physical, show notes, hide images
//   - e: edit a pin note ("<pin> <text>"), only while notes are shown
//   - f: show or hide the alternate functions section
//   - ↑/↓, pgup/pgdown: scroll
//   - ?: full help, q: quit
//
// Refresh and the option toggles stay disabled while a refresh is running
// and for the controls delay after it, in the same way the web page greys
// out its controls.
//
// # Threading
//
// Controller calls run inside tea.Cmd goroutines and never from Update. The
// controls timer updates the board from its own goroutine, so the model
// polls the board version to notice those changes.
package tui
