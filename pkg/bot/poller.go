package bot

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lisanmuaddib/x402bot/pkg/interfaces/twitter"
	"github.com/sirupsen/logrus"
)

// DefaultMaxResults matches the page size the bot has always requested.
const DefaultMaxResults = 10

// Poller fetches mentions newer than the cursor.
type Poller struct {
	client     MentionSearcher
	handle     string
	cursor     *Cursor
	maxResults int
	logger     *logrus.Logger
}

func NewPoller(client MentionSearcher, handle string, cursor *Cursor, maxResults int, logger *logrus.Logger) *Poller {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Poller{
		client:     client,
		handle:     handle,
		cursor:     cursor,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Poll returns new mentions oldest first. The cursor is advanced before the
// mentions are returned, so a failure while dispatching them never causes a
// refetch. Platform errors are logged and yield an empty batch.
func (p *Poller) Poll(ctx context.Context) []Mention {
	sinceID := p.cursor.Get()
	log := p.logger.WithFields(logrus.Fields{
		"cycle_id": uuid.New().String(),
		"since_id": sinceID,
	})
	log.Debug("Checking mentions")

	resp, err := p.client.SearchRecent(ctx, twitter.SearchParams{
		Query:       "@" + p.handle,
		SinceID:     sinceID,
		MaxResults:  p.maxResults,
		TweetFields: []string{"created_at", "author_id"},
		UserFields:  []string{"username"},
		Expansions:  []string{"author_id"},
	})
	if err != nil {
		log.WithError(err).Error("Failed to check mentions")
		return nil
	}

	if resp == nil || len(resp.Data) == 0 {
		log.Debug("No new mentions")
		return nil
	}

	p.cursor.Advance(resp.Data[0].ID)

	log.WithFields(logrus.Fields{
		"count":     len(resp.Data),
		"newest_id": resp.Data[0].ID,
	}).Info("Found new mentions")

	mentions := make([]Mention, 0, len(resp.Data))
	for i := len(resp.Data) - 1; i >= 0; i-- {
		tweet := resp.Data[i]
		m := Mention{
			ID:             tweet.ID,
			Text:           tweet.Text,
			AuthorID:       tweet.AuthorID,
			AuthorUsername: "unknown",
			CreatedAt:      tweet.CreatedAt,
		}
		if user, ok := resp.UserByID(tweet.AuthorID); ok {
			m.AuthorUsername = strings.ToLower(user.Username)
			m.AuthorName = user.Name
		}
		mentions = append(mentions, m)
	}
	return mentions
}
