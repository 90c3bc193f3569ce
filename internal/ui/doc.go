// Package ui provides the visual components of the sheetchat TUI.
//
// # Layout
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────┬───────────────────────────────────┤
//	│ Upload sidebar  │ Chat history (viewport)           │
//	│ (1/3 width)     │                                   │
//	│  drop zone      ├─────────────────────────┬─────────┤
//	│  attached file  │ Input (textarea)        │  Send   │
//	├─────────────────┴─────────────────────────┴─────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext is a singleton holding layout math derived from the terminal size.
//
// Chat renders chat.Message snapshots. It never reads session state itself:
// the app pushes messages with SetMessages and scrolls with ScrollToLatest,
// so a render always happens before the scroll that follows it.
//
// Sidebar shows the drop zone (idle or dragging), the attached workbook with
// its size and a remove control, and a notice for rejected files.
//
// Modal hosts the states in the modals subpackage: open file, settings and help.
//
// ClassifyInputKey decides whether a key press submits, inserts a newline,
// or goes to the textarea.
package ui
