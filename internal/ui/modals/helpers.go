package modals

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// RenderSelectableList renders items one per line, highlighting selectedIndex.
// Pass -1 to render with nothing selected.
func RenderSelectableList(items []string, selectedIndex int) string {
	var result strings.Builder
	for i, item := range items {
		style := SidebarItemStyle
		prefix := "  "
		if i == selectedIndex {
			style = SidebarSelectedStyle
			prefix = "> "
		}
		result.WriteString(style.Render(prefix+item) + "\n")
	}
	return result.String()
}

// TruncatePath shortens a path from the front so the file name stays visible.
// Whole grapheme clusters are kept, so accented and emoji names are not split.
func TruncatePath(path string, maxWidth int) string {
	if maxWidth <= 3 || uniseg.StringWidth(path) <= maxWidth {
		return path
	}

	var clusters []string
	var widths []int
	gr := uniseg.NewGraphemes(path)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
		widths = append(widths, gr.Width())
	}

	width := 0
	i := len(clusters)
	for i > 0 {
		if width+widths[i-1] > maxWidth-3 {
			break
		}
		width += widths[i-1]
		i--
	}
	return "..." + strings.Join(clusters[i:], "")
}

// TruncateString shortens s from the end to fit maxWidth cells.
func TruncateString(s string, maxWidth int) string {
	return runewidth.Truncate(s, maxWidth, "...")
}
