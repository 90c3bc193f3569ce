package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderMarkdownLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    string
		notWant string
	}{
		{"h1", "# Summary", "Summary", "#"},
		{"h3", "### Totals", "Totals", "###"},
		{"bullet", "- first item", "• first item", "- "},
		{"star bullet", "* second item", "• second item", "* "},
		{"numbered", "2. step two", "2. step two", ""},
		{"bold", "the **total** is 42", "the total is 42", "**"},
		{"inline code", "use `SUM(B2:B9)` here", "use SUM(B2:B9) here", "`"},
		{"link", "[docs](https://example.com)", "docs (https://example.com)", "]("},
		{"blockquote", "> note this", "note this", "> "},
		{"italic keeps snake_case", "column_name_here", "column_name_here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(renderMarkdownLine(tt.line, 80))
			if !strings.Contains(got, tt.want) {
				t.Errorf("renderMarkdownLine(%q) = %q, want it to contain %q", tt.line, got, tt.want)
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("renderMarkdownLine(%q) = %q, should not contain %q", tt.line, got, tt.notWant)
			}
		})
	}
}

func TestRenderInlineMarkdown_CodeSpanIsLiteral(t *testing.T) {
	got := ansi.Strip(renderInlineMarkdown("`**not bold**`"))
	if got != "**not bold**" {
		t.Errorf("code span content should not be styled, got %q", got)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("the quick brown fox jumps over the lazy dog", 10)
	for _, line := range strings.Split(got, "\n") {
		if ansi.StringWidth(line) > 10 {
			t.Errorf("line %q wider than 10", line)
		}
	}
	if wrapText("unchanged", 0) != "unchanged" {
		t.Error("zero width should leave text alone")
	}

	long := wrapText(strings.Repeat("x", 25), 10)
	if n := len(strings.Split(long, "\n")); n != 3 {
		t.Errorf("long word should be broken into 3 lines, got %d", n)
	}
}

func TestIndentContinuation(t *testing.T) {
	got := indentContinuation("aaa bbb ccc", 4, "  ")
	lines := strings.Split(got, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %q", got)
	}
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l, "  ") {
			t.Errorf("continuation line %q is not indented", l)
		}
	}
}

func TestRenderMarkdown_CodeBlock(t *testing.T) {
	content := "Try this:\n```python\nimport pandas as pd\ndf = pd.read_excel('sales.xlsx')\n```\nDone."
	got := ansi.Strip(renderMarkdown(content, 80))

	for _, want := range []string{"Try this:", "import pandas as pd", "read_excel", "Done."} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered markdown missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "```") {
		t.Error("fences should not be rendered")
	}
}

func TestRenderMarkdown_UnterminatedFence(t *testing.T) {
	got := ansi.Strip(renderMarkdown("```sql\nSELECT 1", 80))
	if !strings.Contains(got, "SELECT 1") {
		t.Errorf("unterminated code block should still render, got %q", got)
	}
}

func TestRenderMarkdown_Table(t *testing.T) {
	content := strings.Join([]string{
		"| Region | Sales |",
		"|--------|------:|",
		"| North | 1200 |",
		"| South-East | 85 |",
	}, "\n")
	got := ansi.Strip(renderMarkdown(content, 80))
	lines := strings.Split(got, "\n")

	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got %d lines:\n%s", len(lines), got)
	}
	if !strings.Contains(lines[0], "Region") || !strings.Contains(lines[0], "Sales") {
		t.Errorf("header row = %q", lines[0])
	}
	if !strings.Contains(lines[1], "─") {
		t.Errorf("second line should be a rule, got %q", lines[1])
	}
	if strings.Contains(got, "---") {
		t.Error("separator row should not be rendered literally")
	}

	// Columns line up: the second column starts at the same offset on each row
	col := strings.Index(lines[2], "│")
	if col < 0 || strings.Index(lines[3], "│") != col || strings.Index(lines[0], "│") != col {
		t.Errorf("columns not aligned:\n%s", got)
	}
}

func TestRenderMarkdown_TableTruncatedToWidth(t *testing.T) {
	content := "| " + strings.Repeat("a", 50) + " | " + strings.Repeat("b", 50) + " |"
	got := renderMarkdown(content, 40)
	for _, line := range strings.Split(got, "\n") {
		if ansi.StringWidth(line) > 40 {
			t.Errorf("table line exceeds width: %d", ansi.StringWidth(line))
		}
	}
}

func TestIsTableRow(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"| a | b |", true},
		{"  | a |", true},
		{"a | b", false},
		{"|", false},
		{"plain text", false},
	}
	for _, tt := range tests {
		if got := isTableRow(tt.line); got != tt.want {
			t.Errorf("isTableRow(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestHighlightCode_UnknownLanguage(t *testing.T) {
	got := ansi.Strip(highlightCode("=SUM(A1:A10)", "excel-formula"))
	if !strings.Contains(got, "SUM(A1:A10)") {
		t.Errorf("highlightCode lost content: %q", got)
	}
}
