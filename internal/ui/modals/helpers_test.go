package modals

import "testing"

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		path  string
		width int
		want  string
	}{
		{"/short.xlsx", 20, "/short.xlsx"},
		{"/very/long/directory/report.xlsx", 14, "...report.xlsx"},
		{"/a/b", 3, "/a/b"},
		{"/dir/cafe\u0301s.xlsx", 13, "...cafe\u0301s.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := TruncatePath(tt.path, tt.width); got != tt.want {
				t.Errorf("TruncatePath(%q, %d) = %q, want %q", tt.path, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("quarterly-budget.xlsx", 10); got != "quarter..." {
		t.Errorf("TruncateString = %q", got)
	}
	if got := TruncateString("q1.xlsx", 10); got != "q1.xlsx" {
		t.Errorf("TruncateString = %q", got)
	}
}
