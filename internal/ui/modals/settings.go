package modals

import (
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// =============================================================================
// SettingsState - State for the Settings modal
// =============================================================================

const (
	optionNotifications = "notifications"
	optionTranscripts   = "transcripts"
)

// SettingsValues is what the settings modal edits.
type SettingsValues struct {
	Provider             string
	Model                string
	NotificationsEnabled bool
	TranscriptsEnabled   bool
}

type SettingsState struct {
	provider string
	model    string
	options  []string

	original SettingsValues
	form     *huh.Form

	availableWidth int
}

func (*SettingsState) modalState() {}

func (s *SettingsState) PreferredWidth() int { return ModalWidthWide }

// SetSize updates the available width for rendering content.
func (s *SettingsState) SetSize(width, height int) {
	s.availableWidth = width
	s.form.WithWidth(s.contentWidth())
}

func (s *SettingsState) contentWidth() int {
	if s.availableWidth > 0 {
		return s.availableWidth - 10
	}
	return ModalWidthWide - 10
}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Tab: next field  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	note := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true).
		Render("Provider changes apply to the next conversation.")
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), note, help)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Values returns the edited settings.
func (s *SettingsState) Values() SettingsValues {
	return SettingsValues{
		Provider:             s.provider,
		Model:                strings.TrimSpace(s.model),
		NotificationsEnabled: slices.Contains(s.options, optionNotifications),
		TranscriptsEnabled:   slices.Contains(s.options, optionTranscripts),
	}
}

// Changed reports whether anything differs from the values the modal opened with.
func (s *SettingsState) Changed() bool {
	return s.Values() != s.original
}

// NewSettingsState builds the settings form. providers lists the
// selectable provider names.
func NewSettingsState(current SettingsValues, providers []string) *SettingsState {
	s := &SettingsState{
		provider:       current.Provider,
		model:          current.Model,
		original:       current,
		availableWidth: ModalWidthWide,
	}
	s.original.Model = strings.TrimSpace(current.Model)

	providerOptions := make([]huh.Option[string], len(providers))
	for i, name := range providers {
		providerOptions[i] = huh.NewOption(name, name)
	}

	generalOpts := []huh.Option[string]{
		huh.NewOption("Desktop notification when a reply arrives", optionNotifications).
			Selected(current.NotificationsEnabled),
		huh.NewOption("Save conversation transcripts", optionTranscripts).
			Selected(current.TranscriptsEnabled),
	}
	if current.NotificationsEnabled {
		s.options = append(s.options, optionNotifications)
	}
	if current.TranscriptsEnabled {
		s.options = append(s.options, optionTranscripts)
	}

	group := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Provider").
			Options(providerOptions...).
			Value(&s.provider),
		huh.NewInput().
			Title("Model").
			Description("Leave empty for the provider default").
			CharLimit(ModalInputCharLimit).
			Value(&s.model),
		huh.NewMultiSelect[string]().
			Title("Options").
			Options(generalOpts...).
			Height(len(generalOpts)).
			Value(&s.options),
	)

	s.form = huh.NewForm(group).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(s.contentWidth()).
		WithLayout(huh.LayoutStack)

	initHuhForm(s.form)
	return s
}
