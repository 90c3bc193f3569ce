package modals

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected string
	}{
		{"empty", []string{}, ""},
		{"single", []string{"hello"}, "hello"},
		{"common", []string{"hello", "help", "helicopter"}, "hel"},
		{"no common", []string{"abc", "xyz"}, ""},
		{"full match", []string{"same", "same"}, "same"},
		{"partial paths", []string{"/data/q1.xlsx", "/data/q2.xlsx"}, "/data/q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commonPrefix(tt.input); got != tt.expected {
				t.Errorf("commonPrefix(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// makeTree creates dirs and empty files under a temp directory.
func makeTree(t *testing.T, dirs, files []string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(root, f), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestPathCompleter_OffersDirsAndWorkbooksOnly(t *testing.T) {
	root := makeTree(t,
		[]string{"reports", ".hidden"},
		[]string{"budget.xlsx", "legacy.XLS", "notes.txt", "report.csv"},
	)

	pc := NewPathCompleter()
	pc.GenerateCompletions(root + string(filepath.Separator))

	want := []string{
		filepath.Join(root, "budget.xlsx"),
		filepath.Join(root, "legacy.XLS"),
		filepath.Join(root, "reports") + string(filepath.Separator),
	}
	got := pc.GetCompletions()
	if len(got) != len(want) {
		t.Fatalf("completions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("completions[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPathCompleter_Complete(t *testing.T) {
	root := makeTree(t,
		[]string{"data"},
		[]string{"q1.xlsx", "q2.xlsx", "summary.xlsx"},
	)

	t.Run("unique prefix completes fully", func(t *testing.T) {
		pc := NewPathCompleter()
		got, ok := pc.Complete(filepath.Join(root, "sum"))
		if !ok || got != filepath.Join(root, "summary.xlsx") {
			t.Errorf("Complete = %q, %v", got, ok)
		}
	})

	t.Run("existing directory gains a separator", func(t *testing.T) {
		pc := NewPathCompleter()
		got, ok := pc.Complete(filepath.Join(root, "data"))
		if !ok || got != filepath.Join(root, "data")+string(filepath.Separator) {
			t.Errorf("Complete = %q, %v", got, ok)
		}
	})

	t.Run("shared prefix then cycle", func(t *testing.T) {
		pc := NewPathCompleter()
		in := filepath.Join(root, "q")
		first, ok := pc.Complete(in)
		if !ok || first != filepath.Join(root, "q1.xlsx") {
			t.Fatalf("first Complete = %q, %v", first, ok)
		}
		second, _ := pc.Complete(in)
		if second != filepath.Join(root, "q2.xlsx") {
			t.Errorf("second Complete = %q, want q2.xlsx", second)
		}
		third, _ := pc.Complete(in)
		if third != first {
			t.Errorf("third Complete = %q, want wrap to %q", third, first)
		}
	})

	t.Run("no match returns input", func(t *testing.T) {
		pc := NewPathCompleter()
		in := filepath.Join(root, "zzz")
		got, ok := pc.Complete(in)
		if ok || got != in {
			t.Errorf("Complete = %q, %v; want input back", got, ok)
		}
	})

	t.Run("reset clears state", func(t *testing.T) {
		pc := NewPathCompleter()
		pc.GenerateCompletions(filepath.Join(root, "q"))
		if len(pc.GetCompletions()) == 0 {
			t.Fatal("expected completions")
		}
		pc.Reset()
		if len(pc.GetCompletions()) != 0 {
			t.Error("Reset should clear completions")
		}
	})
}

func TestPathCompleter_HiddenEntries(t *testing.T) {
	root := makeTree(t, []string{".config", "visible"}, []string{".secret.xlsx"})

	pc := NewPathCompleter()
	pc.GenerateCompletions(root + string(filepath.Separator))
	for _, c := range pc.GetCompletions() {
		if strings.HasPrefix(filepath.Base(strings.TrimSuffix(c, string(filepath.Separator))), ".") {
			t.Errorf("hidden entry %q offered without a dot prefix", c)
		}
	}

	pc.GenerateCompletions(root + string(filepath.Separator) + ".")
	if len(pc.GetCompletions()) != 2 {
		t.Errorf("dot prefix should offer hidden entries, got %v", pc.GetCompletions())
	}
}
