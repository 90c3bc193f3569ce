package demo

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// clearScreen homes the cursor and clears the terminal before each frame.
const clearScreen = "\x1b[2J\x1b[H"

// castHeader is the first line of an asciicast v2 file.
type castHeader struct {
	Version   int               `json:"version"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Timestamp int64             `json:"timestamp,omitempty"`
	Title     string            `json:"title,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

// GenerateASCIICast writes frames as an asciicast v2 recording. Each frame
// becomes an output event at the sum of the preceding delays; annotations
// become markers.
func GenerateASCIICast(w io.Writer, frames []Frame, width, height int) error {
	return writeCast(w, frames, castHeader{
		Version:   2,
		Width:     width,
		Height:    height,
		Timestamp: time.Now().Unix(),
		Title:     "sheetchat demo",
		Env:       map[string]string{"TERM": "xterm-256color", "SHELL": "/bin/bash"},
	})
}

func writeCast(w io.Writer, frames []Frame, header castHeader) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("failed to write cast header: %w", err)
	}

	var elapsed time.Duration
	for i, f := range frames {
		elapsed += f.Delay
		at := elapsed.Seconds()

		if f.Annotation != "" {
			if err := enc.Encode([]any{at, "m", f.Annotation}); err != nil {
				return fmt.Errorf("failed to write marker for frame %d: %w", i, err)
			}
		}

		out := clearScreen + strings.ReplaceAll(f.Content, "\n", "\r\n")
		if err := enc.Encode([]any{at, "o", out}); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", i, err)
		}
	}
	return nil
}
