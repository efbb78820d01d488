package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pwellner/go-ai-researcher/internal/openrouter"
	"github.com/pwellner/go-ai-researcher/internal/presentation/formatter"
	"github.com/pwellner/go-ai-researcher/internal/researcher"
)

const exampleImageURL = "https://upload.wikimedia.org/wikipedia/commons/thumb/d/dd/" +
	"Gfp-wisconsin-madison-the-nature-boardwalk.jpg/2560px-Gfp-wisconsin-madison-the-nature-boardwalk.jpg"

const exampleResearchQuery = `What are the current trends and challenges in artificial intelligence research?
Please provide a comprehensive overview including:
1. Recent breakthroughs
2. Current limitations
3. Future directions
4. Ethical considerations`

// runExamples runs the three fixed demo requests and prints a session
// summary. The first failure aborts the run.
func runExamples(ctx context.Context, r *researcher.Researcher, renderer *formatter.ConsoleRenderer) error {
	fmt.Println("🤖 AI Automated Researcher")
	fmt.Println(strings.Repeat("=", 50))

	// Example 1: Image Analysis
	printExampleHeader("📸 Example 1: Image Analysis")
	fmt.Printf("Analyzing image: %s\n", exampleImageURL)
	res, err := r.AnalyzeImageStream(ctx, exampleImageURL,
		"Describe this image in detail. What do you see? What is the setting and atmosphere?")
	if err != nil {
		return err
	}
	fmt.Println()
	renderer.RequestCost(res)
	fmt.Println()

	// Example 2: Research Query
	printExampleHeader("🔬 Example 2: Research Query")
	res, err = r.ResearchQueryStream(ctx, exampleResearchQuery)
	if err != nil {
		return err
	}
	fmt.Println()
	renderer.RequestCost(res)
	fmt.Println()

	// Example 3: Custom Chat Completion
	printExampleHeader("💬 Example 3: Custom Chat Completion")
	messages := []openrouter.Message{
		openrouter.TextMessage(openrouter.RoleSystem,
			"You are an expert AI researcher with deep knowledge of machine learning, neural networks, and AI ethics."),
		openrouter.TextMessage(openrouter.RoleUser,
			"Explain the concept of transfer learning in AI and provide examples of how it's used in practice."),
	}
	res, err = r.ChatCompletionStream(ctx, messages)
	if err != nil {
		return err
	}
	fmt.Println()
	renderer.RequestCost(res)
	fmt.Println()

	fmt.Println("🎉 All examples completed successfully!")
	renderer.SessionSummary("COST SUMMARY", r.CostSummary())
	return nil
}

func printExampleHeader(title string) {
	fmt.Println(title)
	fmt.Println(strings.Repeat("-", 30))
}
