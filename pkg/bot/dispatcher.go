package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatcher runs one mention through dedup, parsing, lookup, the handler and
// the reply. Nothing that goes wrong for one mention escapes Process.
type Dispatcher struct {
	handle   string
	registry *Registry
	dedup    *DedupStore
	replier  Replier
	journal  Journal
	logger   *logrus.Logger
}

func NewDispatcher(handle string, registry *Registry, dedup *DedupStore, replier Replier, journal Journal, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Dispatcher{
		handle:   handle,
		registry: registry,
		dedup:    dedup,
		replier:  replier,
		journal:  journal,
		logger:   logger,
	}
}

// UnknownCommandReply is sent when no handler is registered for a command.
func UnknownCommandReply(cmdType string) string {
	return fmt.Sprintf("❌ Unknown command: %s\n\nTry: help", cmdType)
}

// HandlerErrorReply is sent when a handler fails.
func HandlerErrorReply(err error) string {
	return fmt.Sprintf("❌ Error: %s", err.Error())
}

// Process handles a single mention.
func (d *Dispatcher) Process(ctx context.Context, m Mention) Outcome {
	// Marked before handling so a failure below never causes reprocessing.
	if !d.dedup.MarkIfNew(m.ID) {
		return OutcomeDeduped
	}

	log := d.logger.WithFields(logrus.Fields{
		"tweet_id": m.ID,
		"username": m.AuthorUsername,
	})
	log.WithField("text", m.Text).Info("Processing mention")

	rec := MentionRecord{
		MentionID: m.ID,
		AuthorID:  m.AuthorID,
		Username:  m.AuthorUsername,
		Text:      m.Text,
	}

	cmd, ok := ParseCommand(m.Text, d.handle)
	if !ok {
		log.Debug("Not a valid command")
		rec.Outcome = OutcomeIgnored
		d.record(ctx, log, rec)
		return OutcomeIgnored
	}

	log = log.WithField("command", cmd.Type)
	rec.Command = cmd.Type
	rec.Params = cmd.Params

	entry, ok := d.registry.Lookup(cmd.Type)
	if !ok {
		log.Info("Unknown command")
		rec.Outcome = OutcomeUnknownCommand
		rec.ReplyText = UnknownCommandReply(cmd.Type)
		rec.ReplyID = d.reply(ctx, log, m, rec.ReplyText)
		d.record(ctx, log, rec)
		return OutcomeUnknownCommand
	}
	rec.Fee = entry.Fee

	hctx := WithInvocation(ctx, Invocation{
		MentionID: m.ID,
		Username:  m.AuthorUsername,
		Command:   *cmd,
		Fee:       entry.Fee,
	})

	response, err := invoke(hctx, entry.Handler, m.AuthorUsername, *cmd)
	if err != nil {
		log.WithError(err).Error("Error executing command")
		rec.Outcome = OutcomeHandlerFailed
		rec.Error = err.Error()
		rec.ReplyText = HandlerErrorReply(err)
		rec.ReplyID = d.reply(ctx, log, m, rec.ReplyText)
		d.record(ctx, log, rec)
		return OutcomeHandlerFailed
	}

	rec.Outcome = OutcomeHandled
	rec.ReplyText = response
	rec.ReplyID = d.reply(ctx, log, m, response)
	d.record(ctx, log, rec)
	return OutcomeHandled
}

// invoke runs the handler, turning a panic into an error.
func invoke(ctx context.Context, h Handler, username string, cmd Command) (resp string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, username, cmd)
}

// reply posts "@username message" under the mention. Failures are logged and
// swallowed; the returned id is empty when nothing was posted.
func (d *Dispatcher) reply(ctx context.Context, log *logrus.Entry, m Mention, message string) string {
	tweet, err := d.replier.PostReply(ctx, fmt.Sprintf("@%s %s", m.AuthorUsername, message), m.ID)
	if err != nil {
		log.WithError(err).Error("Failed to reply")
		return ""
	}
	if tweet == nil {
		return ""
	}
	log.WithField("reply_id", tweet.ID).Info("Replied")
	return tweet.ID
}

func (d *Dispatcher) record(ctx context.Context, log *logrus.Entry, rec MentionRecord) {
	if d.journal == nil {
		return
	}
	rec.ProcessedAt = time.Now()
	if err := d.journal.RecordMention(ctx, rec); err != nil {
		log.WithError(err).Warn("Failed to record mention")
	}
}
