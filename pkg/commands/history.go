package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/lisanmuaddib/x402bot/pkg/bot"
	"github.com/lisanmuaddib/x402bot/pkg/db/models"
)

// HistoryStore returns an author's past mentions, newest first.
// *memory.MentionJournal satisfies it.
type HistoryStore interface {
	RecentByUsername(ctx context.Context, username string, limit int) ([]models.Mention, error)
}

// History lists the author's last limit commands.
func History(store HistoryStore, limit int) bot.Handler {
	if limit <= 0 {
		limit = 5
	}

	return Describe(bot.HandlerFunc(func(ctx context.Context, username string, cmd bot.Command) (string, error) {
		rows, err := store.RecentByUsername(ctx, username, limit)
		if err != nil {
			return "", fmt.Errorf("could not load your history")
		}

		var lines []string
		for _, r := range rows {
			if r.Command == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s (%s)", r.Command, strings.ReplaceAll(r.Outcome, "_", " ")))
		}
		if len(lines) == 0 {
			return "🧾 No commands yet. Try: help", nil
		}
		return "🧾 Your recent commands:\n" + strings.Join(lines, "\n"), nil
	}), "Show your recent commands")
}
