// Package session ties the pieces of a chat together.
//
// # Overview
//
// A Session owns the message history (chat.Store), the attached workbook
// (upload.Selection) and the Provider that answers questions. The UI talks
// to the Session only; it never mutates the store directly.
//
// # Turn Lifecycle
//
// 1. Submit: the raw input is trimmed. Blank input, input while a reply is
// pending, and input after Close are ignored. Otherwise the user message
// is appended and the pending flag set, as a single change.
//
// 2. Reply: the Provider runs on its own goroutine with a snapshot of the
// history and the current file. Its context is cancelled by Cancel, Close,
// or the optional reply timeout.
//
// 3. Finish: the reply, or an assistant-authored failure notice, is appended
// and the pending flag cleared, again as a single change. Every exit path
// clears the flag, including provider panics.
//
// # Observing
//
// Subscribe and OnAppend forward to the store. Subscribe observers run on
// every change; OnAppend observers run afterwards for each new message,
// which is where a UI scrolls to the latest entry.
package session
