// Package clipboard reads and writes text on the system clipboard. It is
// used to copy replies out of the chat and to paste workbook paths in.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/upload"
)

var (
	initOnce sync.Once
	initErr  error
)

// Init initializes the clipboard. It is safe to call more than once; the
// result of the first call is cached. On Linux it fails without an X11 or
// Wayland display.
func Init() error {
	initOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			initErr = fmt.Errorf("failed to initialize clipboard: %w", err)
			logger.WithComponent("clipboard").Warn("clipboard unavailable", "error", err)
		}
	})
	return initErr
}

// ReadText reads text from the clipboard. An empty clipboard is not an error.
func ReadText() (string, error) {
	if err := Init(); err != nil {
		return "", err
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}

// WriteText replaces the clipboard contents with text.
func WriteText(text string) error {
	if err := Init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// ReadPaths returns the file paths in the clipboard text, in the formats a
// file manager or terminal uses when a file is copied.
func ReadPaths() ([]string, error) {
	text, err := ReadText()
	if err != nil {
		return nil, err
	}
	return upload.ParseDroppedPaths(text), nil
}
