// Package researcher provides the high-level research operations: chat,
// research queries, and image analysis, each with a blocking and a
// streaming form, with per-request cost accounting folded into a session
// tracker.
package researcher

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pwellner/go-ai-researcher/internal/core/cost"
	"github.com/pwellner/go-ai-researcher/internal/core/pricing"
	"github.com/pwellner/go-ai-researcher/internal/core/session"
	"github.com/pwellner/go-ai-researcher/internal/openrouter"
	"github.com/pwellner/go-ai-researcher/internal/util"
)

const researchSystemPrompt = "You are an AI research assistant. Provide detailed, " +
	"accurate, and well-structured responses to research queries."

// Config configures a Researcher. Client is required; everything else has
// a default.
type Config struct {
	Client *openrouter.Client
	Model  string         // default pricing.DefaultModel
	Table  *pricing.Table // default empty table over the built-in map
	Output io.Writer      // streaming destination, default os.Stdout
}

// Researcher issues completions against one model and keeps running cost
// totals for the session.
type Researcher struct {
	client     *openrouter.Client
	model      string
	accountant *cost.Accountant
	tracker    *session.Tracker
	out        io.Writer
}

// New creates a Researcher.
func New(cfg Config) *Researcher {
	model := cfg.Model
	if model == "" {
		model = pricing.DefaultModel
	}
	table := cfg.Table
	if table == nil {
		table = pricing.NewTable()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	return &Researcher{
		client:     cfg.Client,
		model:      model,
		accountant: cost.NewAccountant(table),
		tracker:    session.NewTracker(),
		out:        out,
	}
}

// Model returns the model this researcher targets.
func (r *Researcher) Model() string {
	return r.model
}

// ChatCompletion sends an arbitrary message list and returns the full
// response text with its cost result.
func (r *Researcher) ChatCompletion(ctx context.Context, messages []openrouter.Message) (string, cost.Result, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openrouter.ChatRequest{
		Model:    r.model,
		Messages: messages,
	})
	if err != nil {
		return "", cost.Result{}, err
	}

	res := r.accountResponse(resp, messages)
	r.tracker.Record(res)
	return resp.Text(), res, nil
}

// ChatCompletionStream streams the response text to the configured output
// writer as fragments arrive, then accounts the finished stream.
//
// When the stream breaks mid-flight after fragments were already consumed,
// the partial text is still accounted best-effort and the transport error
// is returned alongside the result.
func (r *Researcher) ChatCompletionStream(ctx context.Context, messages []openrouter.Message) (cost.Result, error) {
	stream, err := r.client.CreateChatCompletionStream(ctx, openrouter.ChatRequest{
		Model:    r.model,
		Messages: messages,
	})
	if err != nil {
		return cost.Result{}, err
	}
	defer stream.Close()

	for stream.Next() {
		fmt.Fprint(r.out, stream.Text())
	}

	streamErr := stream.Err()
	if streamErr != nil && stream.Accumulated() == "" && stream.Usage() == nil {
		// Nothing arrived, nothing to account.
		return cost.Result{}, streamErr
	}

	res := r.accountStream(stream, messages)
	r.tracker.Record(res)
	return res, streamErr
}

// ResearchQuery answers a research question with the standard research
// assistant system prompt.
func (r *Researcher) ResearchQuery(ctx context.Context, query string) (string, cost.Result, error) {
	return r.ChatCompletion(ctx, researchMessages(query))
}

// ResearchQueryStream is the streaming form of ResearchQuery.
func (r *Researcher) ResearchQueryStream(ctx context.Context, query string) (cost.Result, error) {
	return r.ChatCompletionStream(ctx, researchMessages(query))
}

// AnalyzeImage asks the model about an image referenced by URL.
func (r *Researcher) AnalyzeImage(ctx context.Context, imageURL, prompt string) (string, cost.Result, error) {
	return r.ChatCompletion(ctx, imageMessages(imageURL, prompt))
}

// AnalyzeImageStream is the streaming form of AnalyzeImage.
func (r *Researcher) AnalyzeImageStream(ctx context.Context, imageURL, prompt string) (cost.Result, error) {
	return r.ChatCompletionStream(ctx, imageMessages(imageURL, prompt))
}

// CostSummary returns the session totals so far.
func (r *Researcher) CostSummary() session.Summary {
	return r.tracker.Summary()
}

func (r *Researcher) accountResponse(resp *openrouter.ChatResponse, messages []openrouter.Message) cost.Result {
	req := cost.Request{
		Model:      firstNonEmpty(resp.Model, r.model),
		PromptText: openrouter.PromptText(messages),
		OutputText: resp.Text(),
	}
	if resp.Usage != nil {
		req.Usage = &cost.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
		req.ReportedCost = resp.Usage.Cost
	}

	res := r.accountant.Account(req)
	util.LogDebugf("Accounted request: model=%s cost=%.6f source=%s", res.Model, res.Cost, res.Source)
	return res
}

func (r *Researcher) accountStream(stream *openrouter.ChatStream, messages []openrouter.Message) cost.Result {
	req := cost.Request{
		Model:      firstNonEmpty(stream.Model(), r.model),
		PromptText: openrouter.PromptText(messages),
		OutputText: stream.Accumulated(),
	}
	if u := stream.Usage(); u != nil {
		req.Usage = &cost.Usage{
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			TotalTokens:      u.TotalTokens,
		}
		req.ReportedCost = u.Cost
	}

	res := r.accountant.Account(req)
	util.LogDebugf("Accounted streamed request: model=%s cost=%.6f source=%s", res.Model, res.Cost, res.Source)
	return res
}

func researchMessages(query string) []openrouter.Message {
	return []openrouter.Message{
		openrouter.TextMessage(openrouter.RoleSystem, researchSystemPrompt),
		openrouter.TextMessage(openrouter.RoleUser, query),
	}
}

func imageMessages(imageURL, prompt string) []openrouter.Message {
	if prompt == "" {
		prompt = "What is in this image?"
	}
	return []openrouter.Message{
		openrouter.ImageMessage(prompt, imageURL),
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
