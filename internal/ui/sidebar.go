package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/sheetchat/internal/upload"
)

// Sidebar is the left panel holding the spreadsheet drop zone and the
// currently attached workbook.
type Sidebar struct {
	width   int
	height  int
	focused bool

	file     *upload.Candidate
	drag     upload.DragState
	rejected string

	// Rows, relative to the panel's top edge, recorded by the last View
	dropZoneTop, dropZoneBottom int
	removeRow                   int
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	return &Sidebar{removeRow: -1}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetFile shows c as the attached workbook. A nil candidate shows the empty state.
func (s *Sidebar) SetFile(c *upload.Candidate) {
	s.file = c
}

// File returns the attached workbook, if any.
func (s *Sidebar) File() (upload.Candidate, bool) {
	if s.file == nil {
		return upload.Candidate{}, false
	}
	return *s.file, true
}

// SetDragState switches the drop zone between idle and hover styling.
func (s *Sidebar) SetDragState(d upload.DragState) {
	s.drag = d
}

// SetRejected records the name of the last file that was not accepted.
// An empty name hides the notice.
func (s *Sidebar) SetRejected(name string) {
	s.rejected = name
}

// RemoveHit reports whether a click at (x, y), relative to the panel's
// top-left corner, lands on the remove control.
func (s *Sidebar) RemoveHit(x, y int) bool {
	return s.file != nil && s.removeRow >= 0 && y == s.removeRow && x > 0 && x < s.width-1
}

// DropZoneHit reports whether a click lands inside the drop zone.
func (s *Sidebar) DropZoneHit(x, y int) bool {
	return y >= s.dropZoneTop && y <= s.dropZoneBottom && x > 0 && x < s.width-1
}

// truncateName fits a file name into width cells, keeping the extension.
func truncateName(name string, width int) string {
	if width <= 0 || runewidth.StringWidth(name) <= width {
		return name
	}
	ext := ""
	if i := strings.LastIndex(name, "."); i > 0 && runewidth.StringWidth(name[i:]) < width-1 {
		ext = name[i:]
		name = name[:i]
	}
	return runewidth.Truncate(name, width-runewidth.StringWidth(ext), "…") + ext
}

func (s *Sidebar) renderDropZone(innerWidth int) string {
	style := DropZoneStyle
	text := "Drop an .xlsx or .xls file here\n\nor press ctrl+o to browse"
	if s.drag == upload.DragDragging {
		style = DropZoneActiveStyle
		text = "Release to upload"
	}
	return style.Width(innerWidth).Render(text)
}

func (s *Sidebar) renderFileCard(innerWidth int) (card string, removeOffset int) {
	c := s.file
	nameWidth := innerWidth - 4
	lines := []string{
		FileNameStyle.Render(truncateName(c.Name, nameWidth)),
		FileMetaStyle.Render(c.SizeMB()),
	}
	if c.MIMEType != "" {
		lines = append(lines, FileMetaStyle.Render(runewidth.Truncate(c.MIMEType, nameWidth, "…")))
	}
	lines = append(lines, RemoveHintStyle.Render("✕ Remove (ctrl+x)"))

	// Remove is the last line; the card's top border pushes it down one row
	return FileCardStyle.Width(innerWidth).Render(strings.Join(lines, "\n")), len(lines)
}

// View renders the sidebar
func (s *Sidebar) View() string {
	panelStyle := PanelStyle
	if s.focused {
		panelStyle = PanelFocusedStyle
	}

	innerWidth := GetViewContext().InnerWidth(s.width)
	var blocks []string
	row := 1 // panel top border

	title := PanelTitleStyle.Render("Upload Excel File")
	blocks = append(blocks, title)
	row += lipgloss.Height(title)

	zone := s.renderDropZone(innerWidth)
	s.dropZoneTop = row
	s.dropZoneBottom = row + lipgloss.Height(zone) - 1
	blocks = append(blocks, zone)
	row += lipgloss.Height(zone)

	s.removeRow = -1
	if s.file != nil {
		label := FileMetaStyle.Render("Attached:")
		blocks = append(blocks, "", label)
		row += 1 + lipgloss.Height(label)

		card, removeOffset := s.renderFileCard(innerWidth)
		s.removeRow = row + removeOffset
		blocks = append(blocks, card)
		row += lipgloss.Height(card)
	}

	if s.rejected != "" {
		notice := StatusWarningStyle.Width(innerWidth).Render(
			truncateName(s.rejected, innerWidth-24) + " is not an Excel file")
		blocks = append(blocks, "", notice)
	}

	blocks = append(blocks, "", FileMetaStyle.Render(" Supported: .xlsx, .xls"))

	content := lipgloss.JoinVertical(lipgloss.Left, blocks...)
	return panelStyle.Width(s.width).Height(s.height).Render(content)
}
