// Package cost turns token usage into dollar amounts, preferring
// provider-reported figures and degrading to local estimation.
package cost

import (
	"github.com/pwellner/go-ai-researcher/internal/core/pricing"
)

// Source records whether a cost came from the provider or from local
// estimation.
type Source string

const (
	SourceReported  Source = "reported"
	SourceEstimated Source = "estimated"
)

// DefaultCharsPerToken is the text-length heuristic used when a response
// carries no token counts at all. It is an approximation, not a contract
// with the provider.
const DefaultCharsPerToken = 4

// Usage holds token counts for a single request.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Normalized fills TotalTokens when the provider omitted it.
func (u Usage) Normalized() Usage {
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u
}

// Result is the cost accounting outcome for one request. It is a value
// type and never changes once computed.
type Result struct {
	Cost   float64
	Usage  Usage
	Model  string
	Source Source
}

// Request carries everything known about a finished completion. Usage is
// nil when the provider reported no token counts; the text fields feed the
// length-based fallback in that case.
type Request struct {
	Model        string
	Usage        *Usage
	ReportedCost float64
	PromptText   string
	OutputText   string
}

// Accountant resolves request costs against a pricing table. Accounting
// never fails: a request that cannot be priced yields a zero-cost
// estimated result instead of an error.
type Accountant struct {
	table         *pricing.Table
	charsPerToken int
}

// NewAccountant creates an accountant backed by the given pricing table.
func NewAccountant(table *pricing.Table) *Accountant {
	return &Accountant{
		table:         table,
		charsPerToken: DefaultCharsPerToken,
	}
}

// SetCharsPerToken adjusts the estimation ratio. Values below 1 are
// ignored.
func (a *Accountant) SetCharsPerToken(n int) {
	if n >= 1 {
		a.charsPerToken = n
	}
}

// Account resolves the cost of one completed request, in order of
// preference:
//  1. provider-reported cost and usage, taken verbatim
//  2. provider-reported token counts priced against the table
//  3. token counts estimated from text length, then priced
//
// An empty model identifier cannot be priced and produces a zero-cost
// estimated result.
func (a *Accountant) Account(req Request) Result {
	if req.Usage != nil && req.ReportedCost > 0 {
		return Result{
			Cost:   req.ReportedCost,
			Usage:  req.Usage.Normalized(),
			Model:  req.Model,
			Source: SourceReported,
		}
	}

	usage := Usage{}
	if req.Usage != nil {
		usage = req.Usage.Normalized()
	} else {
		usage = Usage{
			PromptTokens:     a.EstimateTokens(req.PromptText),
			CompletionTokens: a.EstimateTokens(req.OutputText),
		}.Normalized()
	}

	if req.Model == "" {
		return Result{Cost: 0, Usage: usage, Source: SourceEstimated}
	}

	price := a.table.Lookup(req.Model)
	amount := float64(usage.PromptTokens)/1000*price.Input +
		float64(usage.CompletionTokens)/1000*price.Output

	return Result{
		Cost:   amount,
		Usage:  usage,
		Model:  req.Model,
		Source: SourceEstimated,
	}
}

// EstimateTokens approximates the token count of a text by length.
func (a *Accountant) EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := len(text) / a.charsPerToken
	if n == 0 {
		n = 1
	}
	return n
}
