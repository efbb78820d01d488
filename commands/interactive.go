package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/pwellner/go-ai-researcher/internal/presentation/formatter"
	"github.com/pwellner/go-ai-researcher/internal/researcher"
	"github.com/pwellner/go-ai-researcher/internal/util"
)

// runInteractive reads research queries from stdin until an exit command.
// Request failures are reported and the loop keeps accepting queries.
func runInteractive(ctx context.Context, r *researcher.Researcher, renderer *formatter.ConsoleRenderer) error {
	fmt.Println("🔍 Interactive AI Research Mode")
	fmt.Println("Type 'quit' or 'exit' to stop")
	fmt.Println(strings.Repeat("=", 50))

	isTTY := term.IsTerminal(int(os.Stdin.Fd()))
	scanner := bufio.NewScanner(os.Stdin)

	for {
		if ctx.Err() != nil {
			break
		}
		if isTTY {
			fmt.Print("\n📝 Enter your research query: ")
		}
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(query) {
		case "quit", "exit", "q":
			fmt.Println("👋 Goodbye!")
			printFinalSummary(r, renderer)
			return nil
		case "":
			fmt.Println("Please enter a valid query.")
			continue
		}

		fmt.Println("\n🤔 Thinking...")
		fmt.Println("💡 Research Result:")
		fmt.Println(strings.Repeat("-", 40))

		res, err := r.ResearchQueryStream(ctx, query)
		if err != nil {
			fmt.Printf("\n❌ Error processing query: %v\n", err)
			util.LogWarnf("Interactive query failed: %v", err)
			continue
		}
		fmt.Println()
		renderer.RequestCost(res)
		renderer.RunningTotal(r.CostSummary())
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	printFinalSummary(r, renderer)
	return nil
}

func printFinalSummary(r *researcher.Researcher, renderer *formatter.ConsoleRenderer) {
	if r.CostSummary().RequestCount == 0 {
		return
	}
	renderer.SessionSummary("FINAL COST SUMMARY", r.CostSummary())
}
