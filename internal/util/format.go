package util

import "fmt"

// FormatCost renders a dollar amount with sub-cent precision. Individual
// completions usually cost fractions of a cent, so two decimals would
// round everything to $0.00.
func FormatCost(amount float64) string {
	return fmt.Sprintf("$%.4f", amount)
}

// FormatNumber abbreviates large token counts for display.
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}
