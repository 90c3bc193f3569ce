package ui

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/sheetchat/internal/chat"
	"github.com/zhubert/sheetchat/internal/keys"
	"github.com/zhubert/sheetchat/internal/logger"
)

// Chat is the right-hand panel: message history above, input and Send below.
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool
	messages []chat.Message

	pending    bool
	waitStart  time.Time
	spinnerIdx int

	now func() time.Time
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	ti := textarea.New()
	ti.Placeholder = InputPlaceholder
	ti.CharLimit = 0
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport: vp,
		input:    ti,
		now:      time.Now,
	}
	c.updateContent()
	return c
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	ctx := GetViewContext()
	historyHeight := height - InputTotalHeight

	c.viewport.SetWidth(ctx.InnerWidth(width))
	c.viewport.SetHeight(max(1, ctx.InnerHeight(historyHeight)))

	// The input shares its row with the Send button
	c.input.SetWidth(max(1, ctx.InnerWidth(width-SendButtonWidth)-InputPaddingWidth))

	c.updateContent()
	logger.WithComponent("ui").Debug("chat resized",
		"width", width, "height", height,
		"viewport", c.viewport.Width(), "viewportHeight", c.viewport.Height())
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	if focused {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// SetMessages replaces the rendered history. It does not scroll; callers
// follow up with ScrollToLatest when something was appended.
func (c *Chat) SetMessages(messages []chat.Message) {
	c.messages = append(c.messages[:0], messages...)
	c.updateContent()
}

// Messages returns the messages currently rendered.
func (c *Chat) Messages() []chat.Message {
	return c.messages
}

// ScrollToLatest moves the viewport to the newest message.
func (c *Chat) ScrollToLatest() {
	c.viewport.GotoBottom()
}

// AtBottom reports whether the newest message is in view.
func (c *Chat) AtBottom() bool {
	return c.viewport.AtBottom()
}

// GetInput returns the current input text.
func (c *Chat) GetInput() string {
	return c.input.Value()
}

// ClearInput empties the input.
func (c *Chat) ClearInput() {
	c.input.Reset()
}

// SetInput replaces the input text.
func (c *Chat) SetInput(value string) {
	c.input.SetValue(value)
}

// InsertText inserts text at the cursor.
func (c *Chat) InsertText(text string) {
	c.input.InsertString(text)
}

// CanSend reports whether Send is enabled: there is text and no reply pending.
func (c *Chat) CanSend() bool {
	return !c.pending && strings.TrimSpace(c.input.Value()) != ""
}

// SendButtonHit reports whether a click at (x, y), relative to the chat
// panel's top-left corner, lands on the Send button.
func (c *Chat) SendButtonHit(x, y int) bool {
	return x >= c.width-SendButtonWidth && x < c.width &&
		y >= c.height-InputTotalHeight && y < c.height
}

// LastReply returns the newest assistant message that is not a failure notice.
func (c *Chat) LastReply() (chat.Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		m := c.messages[i]
		if m.Author == chat.AuthorAssistant && !m.Failed {
			return m, true
		}
	}
	return chat.Message{}, false
}

func (c *Chat) renderMessage(msg chat.Message, wrapWidth int) string {
	label, labelStyle := AssistantLabel, ChatAssistantStyle
	if msg.Author == chat.AuthorUser {
		label, labelStyle = UserLabel, ChatUserStyle
	}

	header := labelStyle.Render(label)
	if !msg.Timestamp.IsZero() {
		header += " " + ChatTimestampStyle.Render(msg.Timestamp.Local().Format(TimestampFormat))
	}

	body := strings.TrimSpace(msg.Content)
	switch {
	case msg.Failed:
		body = ChatFailedStyle.Render(wrapText(body, wrapWidth))
	case msg.Author == chat.AuthorUser:
		// User text is shown as typed
		body = wrapText(body, wrapWidth)
	default:
		body = renderMarkdown(body, wrapWidth)
	}
	return header + "\n" + body
}

func (c *Chat) updateContent() {
	wrapWidth := c.viewport.Width()
	if wrapWidth <= 0 {
		wrapWidth = DefaultWrapWidth
	}

	var sb strings.Builder
	for i, msg := range c.messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(c.renderMessage(msg, wrapWidth))
	}

	if c.pending {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(ChatAssistantStyle.Render(AssistantLabel))
		sb.WriteString("\n")
		sb.WriteString(renderThinking(c.spinnerIdx, c.now().Sub(c.waitStart)))
	}

	c.viewport.SetContent(sb.String())
}

// Update handles messages
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	if _, ok := msg.(StopwatchTickMsg); ok {
		return c, c.handleStopwatchTick()
	}

	if keyMsg, isKey := msg.(tea.KeyPressMsg); isKey {
		switch keyMsg.String() {
		case keys.PgUp, keys.PgDown, keys.Home, keys.End, "ctrl+up", "ctrl+down", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}
		if !c.focused {
			return c, nil
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
	}

	historyHeight := c.height - InputTotalHeight
	history := panelStyle.Width(c.width).Height(historyHeight).Render(c.viewport.View())

	inputStyle := ChatInputStyle
	if c.focused {
		inputStyle = ChatInputFocusedStyle
	}
	input := inputStyle.Width(c.width - SendButtonWidth).Render(c.input.View())

	buttonStyle := SendButtonStyle
	if !c.CanSend() {
		buttonStyle = SendButtonDisabledStyle
	}
	button := buttonStyle.
		Width(SendButtonWidth).
		Height(InputTotalHeight).
		Render("\nSend")

	return lipgloss.JoinVertical(lipgloss.Left,
		history,
		lipgloss.JoinHorizontal(lipgloss.Top, input, button),
	)
}
