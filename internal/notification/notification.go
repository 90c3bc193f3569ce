// Package notification sends desktop notifications through beeep, which
// covers macOS, Linux (D-Bus / notify-send) and Windows.
package notification

import (
	"strings"

	"github.com/gen2brain/beeep"

	"github.com/zhubert/sheetchat/internal/logger"
)

// AppName is the notification title.
const AppName = "sheetchat"

// previewLen bounds how much of a reply is shown in the notification body.
const previewLen = 80

type notifyFunc func(title, message string, icon any) error

var notifier notifyFunc = beeep.Notify

// SetNotifier replaces the notification backend. Used by tests.
func SetNotifier(fn func(title, message string, icon any) error) {
	notifier = fn
}

// ResetNotifier restores beeep.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send shows a desktop notification.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title)

	// An empty icon lets beeep use the platform default.
	err := notifier(title, message, "")
	if err != nil {
		log.Warn("notification failed", "error", err)
	}
	return err
}

// ReplyReady announces that an assistant reply has arrived, with a short
// single-line preview of it.
func ReplyReady(reply string) error {
	return Send(AppName, "Reply ready: "+Preview(reply))
}

// Preview collapses whitespace and truncates s to a notification-sized line.
func Preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen-1]) + "…"
}
