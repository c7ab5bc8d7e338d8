package utils

import "fmt"

// FormatAmount renders a monetary value with exactly two decimal places
// for response bodies ("10.00", never "10").
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
