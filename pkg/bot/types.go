package bot

import (
	"context"
	"time"

	"github.com/lisanmuaddib/x402bot/pkg/interfaces/twitter"
)

// Mention is a tweet addressed to the bot, with its author resolved from the
// search expansions.
type Mention struct {
	ID             string
	Text           string
	AuthorID       string
	AuthorUsername string
	AuthorName     string
	CreatedAt      string
}

// Outcome is the terminal state of a mention after dispatch.
type Outcome string

const (
	OutcomeDeduped        Outcome = "deduped"
	OutcomeIgnored        Outcome = "ignored"
	OutcomeUnknownCommand Outcome = "unknown_command"
	OutcomeHandled        Outcome = "handled"
	OutcomeHandlerFailed  Outcome = "handler_failed"
)

// MentionSearcher is the read side of the platform client.
type MentionSearcher interface {
	SearchRecent(ctx context.Context, params twitter.SearchParams) (*twitter.TweetResponse, error)
}

// Replier posts replies to tweets.
type Replier interface {
	PostReply(ctx context.Context, text, replyToID string) (*twitter.Tweet, error)
}

// Client is everything the bot needs from the platform. *twitter.TwitterClient
// satisfies it.
type Client interface {
	MentionSearcher
	Replier
	GetMe(ctx context.Context) (*twitter.User, error)
}

// MentionRecord is what the dispatcher hands to a Journal for every mention
// it did not drop as a duplicate.
type MentionRecord struct {
	MentionID   string
	AuthorID    string
	Username    string
	Text        string
	Command     string
	Params      []string
	Fee         float64
	Outcome     Outcome
	ReplyID     string
	ReplyText   string
	Error       string
	ProcessedAt time.Time
}

// Journal persists dispatch results. It is optional; a nil Journal disables
// persistence.
type Journal interface {
	RecordMention(ctx context.Context, rec MentionRecord) error
	// LatestMentionID returns the newest recorded mention id, or "" if none.
	LatestMentionID(ctx context.Context) (string, error)
}
