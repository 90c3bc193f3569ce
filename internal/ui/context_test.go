package ui

import (
	"sync"
	"testing"
)

func TestGetViewContext_Singleton(t *testing.T) {
	if GetViewContext() != GetViewContext() {
		t.Error("GetViewContext should return the same instance")
	}
}

func TestViewContext_UpdateTerminalSize(t *testing.T) {
	tests := []struct {
		name                  string
		width, height         int
		wantWidth, wantHeight int
	}{
		{"normal", 120, 40, 120, 40},
		{"clamped", 10, 5, MinTerminalWidth, MinTerminalHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := GetViewContext()
			ctx.UpdateTerminalSize(tt.width, tt.height)

			if ctx.TerminalWidth != tt.wantWidth || ctx.TerminalHeight != tt.wantHeight {
				t.Errorf("terminal = %dx%d, want %dx%d", ctx.TerminalWidth, ctx.TerminalHeight, tt.wantWidth, tt.wantHeight)
			}
			if want := tt.wantHeight - HeaderHeight - FooterHeight; ctx.ContentHeight != want {
				t.Errorf("ContentHeight = %d, want %d", ctx.ContentHeight, want)
			}
			if want := tt.wantWidth / SidebarWidthRatio; ctx.SidebarWidth != want {
				t.Errorf("SidebarWidth = %d, want %d", ctx.SidebarWidth, want)
			}
			if ctx.SidebarWidth+ctx.ChatWidth != tt.wantWidth {
				t.Error("sidebar and chat should fill the terminal width")
			}
		})
	}
}

func TestViewContext_InnerSizes(t *testing.T) {
	ctx := GetViewContext()
	if got := ctx.InnerWidth(50); got != 50-BorderSize {
		t.Errorf("InnerWidth = %d", got)
	}
	if got := ctx.InnerHeight(1); got != 0 {
		t.Errorf("InnerHeight should not go negative, got %d", got)
	}
}

func TestViewContext_ConcurrentUpdates(t *testing.T) {
	ctx := GetViewContext()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ctx.UpdateTerminalSize(80+n, 24+n)
		}(i)
	}
	wg.Wait()
}
