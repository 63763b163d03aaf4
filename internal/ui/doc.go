// Package ui renders gpiostatus output for a terminal.
//
// The components follow a "run once and exit" pattern: they turn the
// regions of a status page into styled text and are shared by the one-shot
// CLI commands and the live watch screen.
//
//   - Header: command banner showing the title and where data came from
//   - Page: the GPIO table, services, hardware facts, and alternate
//     functions of a refresh.Board
//   - RenderTable: one layout.Table drawn as a lipgloss grid
//   - Result: success, failure, and warning boxes
//   - Confirm: a typed confirmation before destructive commands
//
// Colors degrade to plain text when stdout is not a terminal, so output can
// be piped. Logging is controlled separately through GPIOSTATUS_LOG_LEVEL
// and stays silent by default, leaving stdout to these components.
package ui
