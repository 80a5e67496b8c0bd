package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lisanmuaddib/x402bot/pkg/bot"
)

// Help lists the registry's commands, free ones first. The listing is built
// on every call so commands registered later show up.
func Help(registry *bot.Registry, currency string) bot.Handler {
	return Describe(bot.HandlerFunc(func(ctx context.Context, username string, cmd bot.Command) (string, error) {
		var free, paid []string
		for _, e := range registry.Entries() {
			line := "- " + e.Name
			if e.Paid() {
				line += fmt.Sprintf(" (%s %s)", FormatFee(e.Fee), currency)
			}
			if e.Description != "" {
				line += " - " + e.Description
			}
			if e.Paid() {
				paid = append(paid, line)
			} else {
				free = append(free, line)
			}
		}

		var b strings.Builder
		b.WriteString("📚 Available commands:\n")
		if len(free) > 0 {
			b.WriteString("\n🆓 Free:\n")
			b.WriteString(strings.Join(free, "\n"))
			b.WriteString("\n")
		}
		if len(paid) > 0 {
			b.WriteString("\n💰 Paid:\n")
			b.WriteString(strings.Join(paid, "\n"))
			b.WriteString("\n")
		}
		b.WriteString("\nBuilt with x402 🚀")
		return b.String(), nil
	}), "Show this message")
}

// FormatFee prints a fee without trailing zeros, 0.001 rather than 0.001000.
func FormatFee(fee float64) string {
	return strconv.FormatFloat(fee, 'f', -1, 64)
}
