package ui

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// StopwatchTickMsg is sent to update the animated waiting display
type StopwatchTickMsg time.Time

// ThinkingText is shown in place of the reply while one is pending.
const ThinkingText = "Thinking..."

// spinnerFrames are the characters used for the shimmering spinner animation
var spinnerFrames = []string{"·", "✺", "✹", "✸", "✷", "✶", "✵", "✴", "✳", "✲", "✱", "✧", "✦", "·"}

// StopwatchInterval is how often the waiting display refreshes.
const StopwatchInterval = 200 * time.Millisecond

// StopwatchTick returns a command that sends a tick message after a delay
func StopwatchTick() tea.Cmd {
	return tea.Tick(StopwatchInterval, func(t time.Time) tea.Msg {
		return StopwatchTickMsg(t)
	})
}

// renderThinking renders the spinner, the thinking text and the stopwatch.
func renderThinking(frameIdx int, elapsed time.Duration) string {
	frame := spinnerFrames[frameIdx%len(spinnerFrames)]
	spinner := lipgloss.NewStyle().Foreground(ColorUser).Bold(true).Render(frame)
	stopwatch := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(formatElapsed(elapsed))
	hint := lipgloss.NewStyle().Foreground(ColorTextMuted).Render("(esc to cancel)")
	return spinner + " " + StatusLoadingStyle.Render(ThinkingText) + " " + stopwatch + " " + hint
}

// formatElapsed renders d as "4.2s" under a minute and "1m 05s" above.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %02ds", int(d.Minutes()), int(d.Seconds())%60)
}

// SetPending switches the waiting display on or off. It returns the tick
// command that drives the animation when waiting starts.
func (c *Chat) SetPending(pending bool) tea.Cmd {
	if pending == c.pending {
		return nil
	}
	c.pending = pending
	if pending {
		c.waitStart = c.now()
		c.spinnerIdx = 0
	}
	c.updateContent()
	if pending {
		return StopwatchTick()
	}
	return nil
}

// IsPending returns whether a reply is being waited on.
func (c *Chat) IsPending() bool {
	return c.pending
}

func (c *Chat) handleStopwatchTick() tea.Cmd {
	if !c.pending {
		return nil
	}
	c.spinnerIdx = (c.spinnerIdx + 1) % len(spinnerFrames)
	c.updateContent()
	return StopwatchTick()
}
