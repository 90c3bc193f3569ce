// Package demo drives the real app model through scripted scenarios and
// captures the rendered frames. Replies come from a scripted provider, so
// recordings are deterministic and need no API key.
package demo

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/zhubert/sheetchat/internal/upload"
)

// StepType represents the type of action in a demo step.
type StepType int

const (
	// StepWait pauses for a duration (for timing/pacing).
	StepWait StepType = iota
	// StepKey sends a single key press.
	StepKey
	// StepTypeText types a string character by character.
	StepTypeText
	// StepReply answers the pending question with Text.
	StepReply
	// StepFail makes the pending reply fail with Text as the error.
	StepFail
	// StepAttach attaches File as if it had been picked.
	StepAttach
	// StepDrop drags File over the drop zone and releases it.
	StepDrop
	// StepCapture captures the current frame (for selective capture).
	StepCapture
	// StepAnnotate adds an annotation/caption to the next frame.
	StepAnnotate
)

var stepTypeNames = map[StepType]string{
	StepWait:     "wait",
	StepKey:      "key",
	StepTypeText: "type",
	StepReply:    "reply",
	StepFail:     "fail",
	StepAttach:   "attach",
	StepDrop:     "drop",
	StepCapture:  "capture",
	StepAnnotate: "annotate",
}

func (t StepType) String() string {
	if name, ok := stepTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// FileSpec describes a workbook the demo pretends to attach. No file is
// read; the candidate is built from these fields.
type FileSpec struct {
	Name      string `yaml:"name"`
	SizeBytes int64  `yaml:"size"`
	MIMEType  string `yaml:"mime"`
}

// Candidate returns the upload candidate for f under a fake demo directory.
func (f FileSpec) Candidate() upload.Candidate {
	return upload.Candidate{
		Name:      f.Name,
		Path:      "/demo/" + f.Name,
		SizeBytes: f.SizeBytes,
		MIMEType:  f.MIMEType,
	}
}

// Step represents a single action in a demo scenario.
type Step struct {
	Type        StepType
	Description string // Human-readable description of what this step does

	// For StepKey
	Key string

	// For StepTypeText, StepReply and StepFail
	Text string

	// For StepWait
	Duration time.Duration

	// For StepAttach and StepDrop
	File FileSpec

	// For StepAnnotate
	Annotation string
}

// Scenario defines a complete demo scenario.
type Scenario struct {
	Name        string
	Description string
	Width       int // Terminal width (default 120)
	Height      int // Terminal height (default 40)
	Setup       *ScenarioSetup
	Steps       []Step
}

// ScenarioSetup defines the initial state for a demo.
type ScenarioSetup struct {
	// Greeting replaces the default first assistant message.
	Greeting string

	// File is attached before the first frame.
	File *FileSpec

	// Initial focus (sidebar or chat)
	Focus string
}

// DefaultSetup returns a minimal setup for demos.
func DefaultSetup() *ScenarioSetup {
	return &ScenarioSetup{Focus: "chat"}
}

// Validate checks that the scenario is valid and fills in defaults.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "Name", Message: "scenario name is required"}
	}
	if s.Width <= 0 {
		s.Width = 120
	}
	if s.Height <= 0 {
		s.Height = 40
	}
	if s.Setup == nil {
		s.Setup = DefaultSetup()
	}
	switch s.Setup.Focus {
	case "":
		s.Setup.Focus = "chat"
	case "chat", "sidebar":
	default:
		return &ValidationError{Field: "Setup.Focus", Message: "focus must be chat or sidebar"}
	}
	for _, step := range s.Steps {
		switch step.Type {
		case StepAttach, StepDrop:
			if step.File.Name == "" {
				return &ValidationError{Field: "Steps", Message: step.Type.String() + " needs a file name"}
			}
		case StepKey:
			if step.Key == "" {
				return &ValidationError{Field: "Steps", Message: "key step needs a key"}
			}
		}
	}
	return nil
}

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + ": " + e.Message
}

// Step builder functions for fluent scenario construction

// Wait creates a wait step.
func Wait(d time.Duration) Step {
	return Step{Type: StepWait, Duration: d}
}

// Key creates a key press step.
func Key(key string) Step {
	return Step{Type: StepKey, Key: key}
}

// KeyWithDesc creates a key press step with a description.
func KeyWithDesc(key, description string) Step {
	return Step{Type: StepKey, Key: key, Description: description}
}

// Type creates a text typing step.
func Type(text string) Step {
	return Step{Type: StepTypeText, Text: text}
}

// TypeWithDesc creates a text typing step with a description.
func TypeWithDesc(text, description string) Step {
	return Step{Type: StepTypeText, Text: text, Description: description}
}

// Reply answers the question that is waiting.
func Reply(text string) Step {
	return Step{Type: StepReply, Text: text}
}

// Fail makes the waiting reply fail with message.
func Fail(message string) Step {
	return Step{Type: StepFail, Text: message}
}

// Attach attaches a workbook as if it had been picked.
func Attach(f FileSpec) Step {
	return Step{Type: StepAttach, File: f}
}

// Drop drags a file onto the drop zone and releases it.
func Drop(f FileSpec) Step {
	return Step{Type: StepDrop, File: f}
}

// Annotate creates an annotation step.
func Annotate(text string) Step {
	return Step{Type: StepAnnotate, Annotation: text}
}

// Capture creates a frame capture step.
func Capture() Step {
	return Step{Type: StepCapture}
}

// Workbook returns a FileSpec for an .xlsx of the given size.
func Workbook(name string, sizeBytes int64) FileSpec {
	return FileSpec{Name: name, SizeBytes: sizeBytes, MIMEType: upload.MIMEXLSX}
}

// mimeForName returns the MIME type of an Excel file name, or "".
func mimeForName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return upload.MIMEXLSX
	case ".xls":
		return upload.MIMEXLS
	}
	return ""
}
