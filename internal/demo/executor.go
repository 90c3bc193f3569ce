package demo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/sheetchat/internal/app"
	"github.com/zhubert/sheetchat/internal/config"
	"github.com/zhubert/sheetchat/internal/keys"
	"github.com/zhubert/sheetchat/internal/logger"
	"github.com/zhubert/sheetchat/internal/provider"
	"github.com/zhubert/sheetchat/internal/session"
	"github.com/zhubert/sheetchat/internal/ui"
)

// replyTimeout bounds how long a reply step waits for the provider to ask.
const replyTimeout = 5 * time.Second

// Frame represents a captured frame from the demo.
type Frame struct {
	Content    string        // ANSI-encoded terminal content
	Delay      time.Duration // Delay before this frame
	Annotation string        // Optional annotation/caption
	StepIndex  int           // Index of the step that produced this frame
}

// ExecutorConfig configures the demo executor.
type ExecutorConfig struct {
	// CaptureEveryStep captures a frame after every key and character (default: false)
	CaptureEveryStep bool

	// TypeDelay is the delay between characters when typing (default: 50ms)
	TypeDelay time.Duration

	// KeyDelay is the delay after key presses (default: 100ms)
	KeyDelay time.Duration

	// ReplyDelay is how long the frame after a reply is shown (default: 200ms)
	ReplyDelay time.Duration
}

// DefaultExecutorConfig returns the default executor configuration.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		CaptureEveryStep: false, // Don't capture every step by default for cleaner demos
		TypeDelay:        50 * time.Millisecond,
		KeyDelay:         100 * time.Millisecond,
		ReplyDelay:       200 * time.Millisecond,
	}
}

// answer is one scripted provider result.
type answer struct {
	text string
	err  error
}

// scriptedProvider blocks each reply until a reply or fail step answers it.
type scriptedProvider struct {
	answers chan answer
}

func (p *scriptedProvider) Name() string { return "demo" }

func (p *scriptedProvider) Reply(ctx context.Context, _ provider.Request) (string, error) {
	select {
	case a := <-p.answers:
		return a.text, a.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// demoClock hands out timestamps a fixed interval apart, starting at 2:05 PM.
type demoClock struct {
	mu   sync.Mutex
	next time.Time
}

func newDemoClock() *demoClock {
	return &demoClock{next: time.Date(2026, 1, 15, 14, 5, 0, 0, time.Local)}
}

func (c *demoClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(20 * time.Second)
	return t
}

// Executor runs demo scenarios and captures frames.
type Executor struct {
	config   ExecutorConfig
	model    *app.Model
	session  *session.Session
	provider *scriptedProvider
	frames   []Frame

	currentAnnotation string
}

// NewExecutor creates a new demo executor.
func NewExecutor(cfg ExecutorConfig) *Executor {
	return &Executor{
		config: cfg,
		frames: []Frame{},
	}
}

// Cleanup releases the session and model created by Run.
func (e *Executor) Cleanup() {
	if e.model != nil {
		e.model.Close()
	}
	if e.session != nil {
		e.session.Close()
	}
}

// Run executes a scenario and returns the captured frames.
func (e *Executor) Run(scenario *Scenario) ([]Frame, error) {
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	e.setup(scenario)
	defer e.Cleanup()

	log := logger.WithComponent("demo")
	log.Info("running scenario", "name", scenario.Name, "steps", len(scenario.Steps))

	// Capture initial frame
	e.captureFrame(0, 500*time.Millisecond)

	for i, step := range scenario.Steps {
		if err := e.executeStep(i, step); err != nil {
			return nil, fmt.Errorf("step %d (%s) failed: %w", i, step.Type, err)
		}
	}

	log.Info("scenario finished", "name", scenario.Name, "frames", len(e.frames))
	return e.frames, nil
}

// setup builds a session answered by the scripted provider and the app
// model around it.
func (e *Executor) setup(scenario *Scenario) {
	e.provider = &scriptedProvider{answers: make(chan answer)}

	clock := newDemoClock()
	ids := 0
	opts := []session.Option{
		session.WithID("demo-" + scenario.Name),
		session.WithClock(clock.now),
		session.WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("msg-%d", ids)
		}),
	}
	if scenario.Setup.Greeting != "" {
		opts = append(opts, session.WithGreeting(scenario.Setup.Greeting))
	}
	e.session = session.New(e.provider, opts...)

	// An unsaved config: nothing a demo does is persisted
	cfg := &config.Config{}
	e.model = app.New(cfg, e.session,
		app.WithVersion("demo"),
		app.WithClipboard(func(string) error { return nil }),
		app.WithNotifier(nil),
	)

	e.update(tea.WindowSizeMsg{Width: scenario.Width, Height: scenario.Height})

	if scenario.Setup.File != nil {
		e.model.Drop(scenario.Setup.File.Candidate())
	}
	if scenario.Setup.Focus == "sidebar" {
		e.sendKey(keys.Tab)
	}
}

// executeStep executes a single demo step.
func (e *Executor) executeStep(index int, step Step) error {
	switch step.Type {
	case StepWait:
		// While a reply is outstanding, animate the thinking indicator
		if e.session.Pending() && step.Duration >= 300*time.Millisecond {
			e.captureAnimatedFrames(index, step.Duration, 300*time.Millisecond)
		} else {
			e.captureFrame(index, step.Duration)
		}

	case StepKey:
		e.sendKey(step.Key)
		if e.config.CaptureEveryStep {
			e.captureFrame(index, e.config.KeyDelay)
		}

	case StepTypeText:
		for _, ch := range step.Text {
			e.sendKey(string(ch))
			if e.config.CaptureEveryStep {
				e.captureFrame(index, e.config.TypeDelay)
			}
		}

	case StepReply, StepFail:
		a := answer{text: step.Text}
		if step.Type == StepFail {
			a = answer{err: errors.New(step.Text)}
		}
		if err := e.answer(a); err != nil {
			return err
		}
		e.captureFrame(index, e.config.ReplyDelay)

	case StepAttach:
		e.model.Drop(step.File.Candidate())
		e.captureFrame(index, 300*time.Millisecond)

	case StepDrop:
		e.update(tea.PasteStartMsg{})
		e.captureFrame(index, 400*time.Millisecond)
		e.model.Drop(step.File.Candidate())
		e.update(tea.PasteEndMsg{})
		e.captureFrame(index, 300*time.Millisecond)

	case StepAnnotate:
		e.currentAnnotation = step.Annotation
		// Don't capture, annotation applies to next frame

	case StepCapture:
		if e.session.Pending() {
			e.sendTick()
		}
		e.captureFrame(index, 0)
	}

	return nil
}

// answer hands a to the waiting provider call and applies the result.
func (e *Executor) answer(a answer) error {
	if !e.session.Pending() {
		return fmt.Errorf("no reply is pending")
	}
	select {
	case e.provider.answers <- a:
	case <-time.After(replyTimeout):
		return fmt.Errorf("provider never asked for a reply")
	}
	e.session.Wait()
	e.sync()
	return nil
}

// sync applies any session change waiting for the model.
func (e *Executor) sync() {
	if msg, ok := e.model.PollSession(); ok {
		e.update(msg)
	}
}

func (e *Executor) update(msg tea.Msg) {
	result, _ := e.model.Update(msg)
	e.model = result.(*app.Model)
}

// captureFrame captures the current view as a frame.
func (e *Executor) captureFrame(stepIndex int, delay time.Duration) {
	e.frames = append(e.frames, Frame{
		Content:    e.model.RenderToString(),
		Delay:      delay,
		Annotation: e.currentAnnotation,
		StepIndex:  stepIndex,
	})

	// Clear annotation after use
	e.currentAnnotation = ""
}

// captureAnimatedFrames captures several frames, advancing the thinking
// indicator before each one.
func (e *Executor) captureAnimatedFrames(stepIndex int, totalDuration, frameInterval time.Duration) {
	if frameInterval <= 0 {
		frameInterval = ui.StopwatchInterval
	}

	numFrames := max(1, int(totalDuration/frameInterval))
	delayPerFrame := totalDuration / time.Duration(numFrames)

	for range numFrames {
		e.sendTick()
		e.captureFrame(stepIndex, delayPerFrame)
	}
}

// sendTick advances the thinking indicator.
func (e *Executor) sendTick() {
	e.update(ui.StopwatchTickMsg(time.Now()))
}

// sendKey sends a key press to the model and applies any session change
// it caused.
func (e *Executor) sendKey(key string) {
	msg := keyPress(key)
	cancels := msg.String() == keys.Escape && e.session.Pending() && !e.model.ModalVisible()
	e.update(msg)
	if cancels {
		// The notice is stored once the provider call unwinds
		e.session.Wait()
	}
	e.sync()
}

// keyPress converts a key string to a tea.KeyPressMsg.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.ShiftEnter:
		return tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModShift}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape, "escape":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.PgDown:
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case "space", " ":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case keys.CtrlO:
		return tea.KeyPressMsg{Code: 'o', Mod: tea.ModCtrl}
	case keys.CtrlX:
		return tea.KeyPressMsg{Code: 'x', Mod: tea.ModCtrl}
	case keys.CtrlY:
		return tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl}
	default:
		if r := []rune(key); len(r) == 1 {
			return tea.KeyPressMsg{Code: r[0], Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}
