package ui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
)

// Compiled regex patterns for markdown parsing
var (
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	underscoreItalic  = regexp.MustCompile(`(^|[^a-zA-Z0-9_])_([^_]+)_([^a-zA-Z0-9_]|$)`)
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	numberedPattern   = regexp.MustCompile(`^(\d{1,3})\. (.*)$`)
	tableSepPattern   = regexp.MustCompile(`^\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?$`)
)

// highlightCode applies syntax highlighting to code using chroma.
// Spreadsheet answers usually carry formulas, SQL or Python.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

// renderInlineMarkdown applies bold, italic, code and link formatting to a line.
func renderInlineMarkdown(line string) string {
	// Code spans are swapped for placeholders so nothing inside them is styled.
	var codeSpans []string
	line = inlineCodePattern.ReplaceAllStringFunc(line, func(match string) string {
		code := inlineCodePattern.FindStringSubmatch(match)[1]
		codeSpans = append(codeSpans, MarkdownInlineCodeStyle.Render(code))
		return fmt.Sprintf("\x00CODE%d\x00", len(codeSpans)-1)
	})

	line = boldPattern.ReplaceAllStringFunc(line, func(match string) string {
		return MarkdownBoldStyle.Render(boldPattern.FindStringSubmatch(match)[1])
	})

	line = underscoreItalic.ReplaceAllStringFunc(line, func(match string) string {
		m := underscoreItalic.FindStringSubmatch(match)
		return m[1] + MarkdownItalicStyle.Render(m[2]) + m[3]
	})

	line = linkPattern.ReplaceAllStringFunc(line, func(match string) string {
		parts := linkPattern.FindStringSubmatch(match)
		return MarkdownLinkStyle.Render(parts[1]) + " (" + MarkdownLinkStyle.Render(parts[2]) + ")"
	})

	for i, rendered := range codeSpans {
		line = strings.Replace(line, fmt.Sprintf("\x00CODE%d\x00", i), rendered, 1)
	}
	return line
}

// wrapText wraps text to width, keeping ANSI sequences intact and breaking
// words that are longer than a line.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return ansi.Wrap(text, width, "")
}

// indentContinuation wraps text and indents every line after the first.
func indentContinuation(text string, width int, indent string) string {
	lines := strings.Split(wrapText(text, width), "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}

// renderMarkdownLine renders a single line with markdown formatting
func renderMarkdownLine(line string, width int) string {
	trimmed := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(trimmed, "#### "):
		return MarkdownH4Style.Render(strings.TrimPrefix(trimmed, "#### "))
	case strings.HasPrefix(trimmed, "### "):
		return MarkdownH3Style.Render(strings.TrimPrefix(trimmed, "### "))
	case strings.HasPrefix(trimmed, "## "):
		return MarkdownH2Style.Render(strings.TrimPrefix(trimmed, "## "))
	case strings.HasPrefix(trimmed, "# "):
		return MarkdownH1Style.Render(strings.TrimPrefix(trimmed, "# "))
	case trimmed == "---" || trimmed == "***" || trimmed == "___":
		return MarkdownHRStyle.Render(strings.Repeat("─", min(width, 32)))
	case strings.HasPrefix(trimmed, "> "):
		content := strings.TrimPrefix(trimmed, "> ")
		return MarkdownBlockquoteStyle.Render(wrapText(renderInlineMarkdown(content), width-4))
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		bullet := MarkdownListBulletStyle.Render("•")
		return "  " + bullet + " " + indentContinuation(renderInlineMarkdown(trimmed[2:]), width-6, "    ")
	}

	if m := numberedPattern.FindStringSubmatch(trimmed); m != nil {
		number := MarkdownListBulletStyle.Render(m[1] + ".")
		return "  " + number + " " + indentContinuation(renderInlineMarkdown(m[2]), width-6, "     ")
	}

	return wrapText(renderInlineMarkdown(line), width)
}

// isTableRow reports whether a line looks like a pipe table row.
func isTableRow(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "|") && strings.Count(t, "|") >= 2
}

// splitTableRow returns the trimmed cells of a pipe table row.
func splitTableRow(line string) []string {
	t := strings.Trim(strings.TrimSpace(line), "|")
	cells := strings.Split(t, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// renderTable lays out pipe table rows in aligned columns. A separator row
// (|---|---|) marks the rows above it as headers.
func renderTable(rows []string, width int) string {
	var cells [][]string
	headerRows := 0
	for _, r := range rows {
		if tableSepPattern.MatchString(strings.TrimSpace(r)) {
			if headerRows == 0 {
				headerRows = len(cells)
			}
			continue
		}
		cells = append(cells, splitTableRow(r))
	}

	var colWidths []int
	for _, row := range cells {
		for i, c := range row {
			w := ansi.StringWidth(renderInlineMarkdown(c))
			if i >= len(colWidths) {
				colWidths = append(colWidths, w)
			} else if w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	sep := MarkdownTableBorderStyle.Render(" │ ")
	var out []string
	for ri, row := range cells {
		parts := make([]string, len(colWidths))
		for i := range colWidths {
			var c string
			if i < len(row) {
				c = renderInlineMarkdown(row[i])
			}
			pad := colWidths[i] - ansi.StringWidth(c)
			style := MarkdownTableCellStyle
			if ri < headerRows {
				style = MarkdownTableHeaderStyle
			}
			parts[i] = style.Render(c) + strings.Repeat(" ", max(0, pad))
		}
		out = append(out, ansi.Truncate(strings.Join(parts, sep), width, "…"))

		if ri == headerRows-1 {
			total := 0
			for _, w := range colWidths {
				total += w
			}
			total += 3 * (len(colWidths) - 1)
			out = append(out, MarkdownTableBorderStyle.Render(strings.Repeat("─", min(total, width))))
		}
	}
	return strings.Join(out, "\n")
}

// renderMarkdown renders markdown content with syntax-highlighted code blocks
// and aligned pipe tables.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}

	var result strings.Builder
	inCodeBlock := false
	codeBlockLang := ""
	var codeBlock strings.Builder
	var table []string

	flushTable := func() {
		if len(table) == 0 {
			return
		}
		result.WriteString(renderTable(table, width))
		result.WriteString("\n")
		table = nil
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			flushTable()
			if !inCodeBlock {
				inCodeBlock = true
				codeBlockLang = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
				codeBlock.Reset()
				continue
			}
			inCodeBlock = false
			if result.Len() > 0 {
				result.WriteString("\n")
			}
			result.WriteString(highlightCode(codeBlock.String(), codeBlockLang))
			result.WriteString("\n")
			continue
		}

		if inCodeBlock {
			if codeBlock.Len() > 0 {
				codeBlock.WriteString("\n")
			}
			codeBlock.WriteString(line)
			continue
		}

		if isTableRow(line) {
			table = append(table, line)
			continue
		}
		flushTable()

		result.WriteString(renderMarkdownLine(line, width))
		result.WriteString("\n")
	}

	flushTable()
	// An unterminated fence still shows what arrived
	if inCodeBlock {
		result.WriteString(highlightCode(codeBlock.String(), codeBlockLang))
	}

	return strings.TrimRight(result.String(), "\n")
}
