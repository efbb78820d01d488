// Package formatter renders per-request cost lines and session summaries
// to the console.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pwellner/go-ai-researcher/internal/core/cost"
	"github.com/pwellner/go-ai-researcher/internal/core/session"
	"github.com/pwellner/go-ai-researcher/internal/util"
)

const bannerWidth = 50

// ConsoleRenderer writes formatted cost information to a writer.
type ConsoleRenderer struct {
	w io.Writer
}

// NewConsoleRenderer creates a renderer targeting the given writer.
func NewConsoleRenderer(w io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{w: w}
}

// RequestCost prints the cost line that follows every completed request.
func (r *ConsoleRenderer) RequestCost(res cost.Result) {
	fmt.Fprintf(r.w, "💰 Cost: %s | Model: %s (%s)\n",
		util.FormatCost(res.Cost), res.Model, res.Source)
	fmt.Fprintf(r.w, "📊 Tokens: %s (Input: %s, Output: %s)\n",
		util.FormatNumber(res.Usage.TotalTokens),
		util.FormatNumber(res.Usage.PromptTokens),
		util.FormatNumber(res.Usage.CompletionTokens))
}

// RunningTotal prints the interactive-mode running total line.
func (r *ConsoleRenderer) RunningTotal(s session.Summary) {
	fmt.Fprintf(r.w, "💳 Running Total: %s (%d requests)\n",
		util.FormatCost(s.TotalCost), s.RequestCount)
}

// SessionSummary prints the end-of-session cost report.
func (r *ConsoleRenderer) SessionSummary(title string, s session.Summary) {
	banner := strings.Repeat("=", bannerWidth)

	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, banner)
	fmt.Fprintf(r.w, "📊 %s\n", title)
	fmt.Fprintln(r.w, banner)
	r.summaryLine("💰 Total Cost:", util.FormatCost(s.TotalCost))
	r.summaryLine("📈 Total Requests:", fmt.Sprintf("%d", s.RequestCount))
	r.summaryLine("📊 Average Cost per Request:", util.FormatCost(s.AverageCost))
	fmt.Fprintln(r.w, banner)
}

// summaryLine aligns the value column across labels of varying display
// width. Emoji are double-width, so byte padding would drift.
func (r *ConsoleRenderer) summaryLine(label, value string) {
	const labelColumn = 32
	fmt.Fprintf(r.w, "%s %s\n", runewidth.FillRight(label, labelColumn), value)
}
