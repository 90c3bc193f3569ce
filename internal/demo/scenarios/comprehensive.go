package scenarios

import (
	"time"

	"github.com/zhubert/sheetchat/internal/demo"
)

// Comprehensive walks through every feature: a rejected drop, a good drop,
// a reply, a failed reply, cancelling, copying and the help modal.
var Comprehensive = &demo.Scenario{
	Name:        "comprehensive",
	Description: "Drag and drop, replies, failures, cancel, copy and help",
	Width:       120,
	Height:      40,
	Setup: &demo.ScenarioSetup{
		Greeting: "Hello! I'm your AI assistant. Drop an Excel file on the left and ask me anything about it.",
		Focus:    "chat",
	},
	Steps: []demo.Step{
		demo.Wait(1 * time.Second),

		// Only Excel files are accepted
		demo.Annotate("Non-Excel files are rejected"),
		demo.Drop(demo.FileSpec{Name: "revenue-chart.png", SizeBytes: 91234, MIMEType: "image/png"}),
		demo.Wait(1500 * time.Millisecond),

		demo.Annotate("Drop a workbook"),
		demo.Drop(salesWorkbook),
		demo.Wait(1 * time.Second),

		// A normal turn
		demo.Type("Which region had the highest revenue in Q3?"),
		demo.Key("enter"),
		demo.Wait(1200 * time.Millisecond),
		demo.Reply("The **West** region, with $1.42M (+18% over Q2)."),
		demo.Wait(2 * time.Second),

		// A failed turn stays in the history
		demo.Type("And how does that compare to last year?"),
		demo.Key("enter"),
		demo.Wait(900 * time.Millisecond),
		demo.Annotate("Failures are shown in place of the reply"),
		demo.Fail("rate limit exceeded, retry in 20s"),
		demo.Wait(2 * time.Second),

		// Esc cancels a slow reply
		demo.Type("Summarize the monthly trend for every region"),
		demo.Key("enter"),
		demo.Wait(1500 * time.Millisecond),
		demo.KeyWithDesc("esc", "Cancel the reply"),
		demo.Wait(1500 * time.Millisecond),

		// Copy the last good reply
		demo.KeyWithDesc("ctrl+y", "Copy the last reply"),
		demo.Wait(1 * time.Second),
		demo.Capture(),

		// Help lists the shortcuts
		demo.Key("tab"),
		demo.Wait(300 * time.Millisecond),
		demo.KeyWithDesc("?", "Show keyboard shortcuts"),
		demo.Wait(2 * time.Second),
		demo.Capture(),
		demo.Key("esc"),
		demo.Wait(500 * time.Millisecond),

		// Remove the workbook from the sidebar
		demo.KeyWithDesc("ctrl+x", "Remove the workbook"),
		demo.Wait(1500 * time.Millisecond),

		// Final pause
		demo.Wait(2 * time.Second),
	},
}
