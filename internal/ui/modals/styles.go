package modals

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Style variables - these are set by the parent ui package via SetStyles
var (
	ModalTitleStyle      lipgloss.Style
	ModalHelpStyle       lipgloss.Style
	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style
	StatusErrorStyle     lipgloss.Style

	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorWarning     color.Color

	ModalInputWidth     int
	ModalInputCharLimit int
	ModalWidth          int
	ModalWidthWide      int
	HelpModalMaxVisible int
)

// Palette groups the colors the modals borrow from the ui package.
type Palette struct {
	Primary     color.Color
	Secondary   color.Color
	Text        color.Color
	TextMuted   color.Color
	TextInverse color.Color
	Warning     color.Color
}

// Sizes groups the layout constants the modals borrow from the ui package.
type Sizes struct {
	InputWidth     int
	InputCharLimit int
	Width          int
	WidthWide      int
	HelpMaxVisible int
}

// SetStyles sets the style variables from the parent ui package.
// This must be called before rendering any modals.
func SetStyles(modalTitle, modalHelp, item, selected, statusError lipgloss.Style, p Palette, s Sizes) {
	ModalTitleStyle = modalTitle
	ModalHelpStyle = modalHelp
	SidebarItemStyle = item
	SidebarSelectedStyle = selected
	StatusErrorStyle = statusError

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorText = p.Text
	ColorTextMuted = p.TextMuted
	ColorTextInverse = p.TextInverse
	ColorWarning = p.Warning

	ModalInputWidth = s.InputWidth
	ModalInputCharLimit = s.InputCharLimit
	ModalWidth = s.Width
	ModalWidthWide = s.WidthWide
	HelpModalMaxVisible = s.HelpMaxVisible
}
