// Package scenarios contains built-in demo scenarios for sheetchat.
package scenarios

import (
	"time"

	"github.com/zhubert/sheetchat/internal/demo"
)

// salesWorkbook is the workbook both scenarios attach.
var salesWorkbook = demo.Workbook("q3-sales.xlsx", 48213)

// Basic attaches a workbook, asks one question and shows the answer.
var Basic = &demo.Scenario{
	Name:        "basic",
	Description: "Attach a workbook and ask a question about it",
	Width:       120,
	Height:      40,
	Setup:       demo.DefaultSetup(),
	Steps: []demo.Step{
		demo.Wait(1 * time.Second),

		demo.Annotate("Pick a workbook with Ctrl+O or drop it on the terminal"),
		demo.Attach(salesWorkbook),
		demo.Wait(1 * time.Second),

		demo.TypeWithDesc("Which region had the highest revenue in Q3?", "Ask about the sheet"),
		demo.Wait(300 * time.Millisecond),
		demo.KeyWithDesc("enter", "Send"),
		demo.Wait(1500 * time.Millisecond),

		demo.Reply("The **West** region led Q3 with $1.42M in revenue.\n\n" +
			"| Region | Revenue | Change |\n" +
			"|--------|---------|--------|\n" +
			"| West   | $1.42M  | +18%   |\n" +
			"| North  | $1.17M  | +6%    |\n" +
			"| South  | $0.98M  | -3%    |"),
		demo.Wait(3 * time.Second),
	},
}

// All returns all built-in scenarios.
func All() []*demo.Scenario {
	return []*demo.Scenario{
		Basic,
		Comprehensive,
	}
}

// Get returns a scenario by name, or nil if not found.
func Get(name string) *demo.Scenario {
	for _, s := range All() {
		if s.Name == name {
			return s
		}
	}
	return nil
}
