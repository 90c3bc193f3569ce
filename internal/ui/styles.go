package ui

import (
	"charm.land/lipgloss/v2"

	"github.com/zhubert/sheetchat/internal/ui/modals"
)

// Color palette - Purple + Cyan/Teal theme
var (
	ColorPrimary     = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary   = lipgloss.Color("#06B6D4") // Cyan
	ColorMuted       = lipgloss.Color("#6B7280") // Gray
	ColorBorder      = lipgloss.Color("#374151") // Dark gray
	ColorBorderFocus = lipgloss.Color("#7C3AED") // Purple when focused
	ColorBg          = lipgloss.Color("#1F2937") // Dark background
	ColorBgSelected  = lipgloss.Color("#4C1D95") // Deep purple selection
	ColorText        = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted   = lipgloss.Color("#B0B8C4") // Muted text
	ColorTextInverse = lipgloss.Color("#1F2937") // Dark text for light backgrounds
	ColorUser        = lipgloss.Color("#A78BFA") // Light purple for user messages
	ColorAssistant   = lipgloss.Color("#22D3EE") // Bright cyan for assistant messages
	ColorWarning     = lipgloss.Color("#F59E0B") // Amber
	ColorError       = lipgloss.Color("#EF4444") // Red
	ColorSuccess     = lipgloss.Color("#10B981") // Green
	ColorCode        = lipgloss.Color("#F472B6") // Pink inline code
	ColorCodeBg      = lipgloss.Color("#111827")
)

// Header styles
var (
	HeaderTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorText)

	HeaderSubtitleStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)
)

// Footer styles
var (
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	PanelFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)
)

// Sidebar styles
var (
	SidebarItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	SidebarSelectedStyle = lipgloss.NewStyle().
				Background(ColorBgSelected).
				Foreground(ColorText).
				Bold(true).
				Padding(0, 1)

	DropZoneStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted).
			Foreground(ColorTextMuted).
			Align(lipgloss.Center).
			Padding(1, 1)

	DropZoneActiveStyle = DropZoneStyle.
				BorderForeground(ColorSecondary).
				Foreground(ColorSecondary).
				Bold(true)

	FileCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess).
			Padding(0, 1)

	FileNameStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	FileMetaStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	RemoveHintStyle = lipgloss.NewStyle().
			Foreground(ColorError)
)

// Chat styles
var (
	ChatUserStyle = lipgloss.NewStyle().
			Foreground(ColorUser).
			Bold(true)

	ChatAssistantStyle = lipgloss.NewStyle().
				Foreground(ColorAssistant).
				Bold(true)

	ChatFailedStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Italic(true)

	ChatTimestampStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	ChatInputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ChatInputFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus).
				Padding(0, 1)

	SendButtonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Foreground(ColorText).
			Bold(true).
			Align(lipgloss.Center)

	SendButtonDisabledStyle = SendButtonStyle.
				BorderForeground(ColorBorder).
				Foreground(ColorMuted).
				Bold(false)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	ModalHelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			MarginTop(1)
)

// Status styles
var (
	StatusLoadingStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Italic(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	StatusSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess)

	StatusWarningStyle = lipgloss.NewStyle().
				Foreground(ColorWarning)
)

// Markdown rendering styles
var (
	MarkdownH1Style = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginTop(1)

	MarkdownH2Style = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary).
			MarginTop(1)

	MarkdownH3Style = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorUser)

	MarkdownH4Style = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTextMuted)

	MarkdownBoldStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorText)

	MarkdownItalicStyle = lipgloss.NewStyle().
				Italic(true).
				Foreground(ColorText)

	MarkdownInlineCodeStyle = lipgloss.NewStyle().
				Foreground(ColorCode).
				Background(ColorCodeBg)

	MarkdownListBulletStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary)

	MarkdownBlockquoteStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true).
				BorderLeft(true).
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(ColorMuted).
				PaddingLeft(1)

	MarkdownHRStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)

	MarkdownLinkStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Underline(true)

	MarkdownTableBorderStyle = lipgloss.NewStyle().
					Foreground(ColorBorder)

	MarkdownTableHeaderStyle = lipgloss.NewStyle().
					Bold(true).
					Foreground(ColorSecondary)

	MarkdownTableCellStyle = lipgloss.NewStyle().
				Foreground(ColorText)
)

func init() {
	modals.SetStyles(
		ModalTitleStyle, ModalHelpStyle, SidebarItemStyle, SidebarSelectedStyle, StatusErrorStyle,
		modals.Palette{
			Primary:     ColorPrimary,
			Secondary:   ColorSecondary,
			Text:        ColorText,
			TextMuted:   ColorTextMuted,
			TextInverse: ColorTextInverse,
			Warning:     ColorWarning,
		},
		modals.Sizes{
			InputWidth:     ModalInputWidth,
			InputCharLimit: ModalInputCharLimit,
			Width:          ModalWidth,
			WidthWide:      ModalWidthWide,
			HelpMaxVisible: HelpModalMaxVisible,
		},
	)
}
