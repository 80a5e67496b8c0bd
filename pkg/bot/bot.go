package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultPollInterval is the time between mention checks.
	DefaultPollInterval = 5 * time.Second

	// DefaultProtocolFee is the protocol fee fraction reported at startup.
	DefaultProtocolFee = 0.001
)

var (
	ErrNoClient   = errors.New("client is required")
	ErrNoUsername = errors.New("bot username is required")
)

// Config holds the configuration for the Bot
type Config struct {
	Client      Client
	BotUsername string
	Logger      *logrus.Logger

	PollInterval  time.Duration
	MaxResults    int
	DedupCapacity int

	// ProtocolFee is informational; it is logged at startup.
	ProtocolFee float64

	Journal Journal
}

// Bot polls mentions of BotUsername and answers registered commands.
type Bot struct {
	client   Client
	handle   string
	logger   *logrus.Logger
	interval time.Duration

	protocolFee float64
	journal     Journal

	registry   *Registry
	dedup      *DedupStore
	cursor     *Cursor
	poller     *Poller
	dispatcher *Dispatcher

	cycleMu  sync.Mutex
	stopped  chan struct{}
	stopOnce sync.Once
}

// New creates a new Bot instance
func New(config Config) (*Bot, error) {
	if config.Client == nil {
		return nil, ErrNoClient
	}
	handle := strings.TrimPrefix(strings.TrimSpace(config.BotUsername), "@")
	if handle == "" {
		return nil, ErrNoUsername
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.ProtocolFee == 0 {
		config.ProtocolFee = DefaultProtocolFee
	}

	b := &Bot{
		client:      config.Client,
		handle:      handle,
		logger:      config.Logger,
		interval:    config.PollInterval,
		protocolFee: config.ProtocolFee,
		journal:     config.Journal,
		registry:    NewRegistry(),
		dedup:       NewDedupStore(config.DedupCapacity),
		cursor:      &Cursor{},
		stopped:     make(chan struct{}),
	}
	b.poller = NewPoller(config.Client, handle, b.cursor, config.MaxResults, config.Logger)
	b.dispatcher = NewDispatcher(handle, b.registry, b.dedup, config.Client, config.Journal, config.Logger)

	return b, nil
}

// OnCommand registers handler under name. The fee defaults to 0.
func (b *Bot) OnCommand(name string, handler Handler, fee ...float64) error {
	var f float64
	if len(fee) > 0 {
		f = fee[0]
	}

	if err := b.registry.Register(name, handler, f); err != nil {
		return fmt.Errorf("register command %q: %w", name, err)
	}

	b.logger.WithFields(logrus.Fields{
		"command": strings.ToLower(name),
		"fee":     f,
	}).Info("Registered command")
	return nil
}

// OnCommandFunc is OnCommand for plain functions.
func (b *Bot) OnCommandFunc(name string, fn func(ctx context.Context, username string, cmd Command) (string, error), fee ...float64) error {
	return b.OnCommand(name, HandlerFunc(fn), fee...)
}

func (b *Bot) Registry() *Registry { return b.registry }

func (b *Bot) Dedup() *DedupStore { return b.dedup }

func (b *Bot) Cursor() *Cursor { return b.cursor }

func (b *Bot) Handle() string { return b.handle }

// Start authenticates, restores the cursor from the journal and runs the poll
// loop until ctx is cancelled or Stop is called. An authentication failure is
// returned immediately.
func (b *Bot) Start(ctx context.Context) error {
	me, err := b.client.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	log := b.logger.WithField("username", me.Username)
	if !strings.EqualFold(me.Username, b.handle) {
		log.WithField("bot_username", b.handle).Warn("Authenticated account differs from configured bot username")
	}

	if b.journal != nil {
		latest, err := b.journal.LatestMentionID(ctx)
		if err != nil {
			log.WithError(err).Warn("Failed to restore cursor from journal")
		} else if b.cursor.Advance(latest) {
			log.WithField("since_id", latest).Info("Restored cursor from journal")
		}
	}

	log.WithFields(logrus.Fields{
		"protocol_fee_percent": b.protocolFee * 100,
		"commands":             b.registry.Len(),
		"interval":             b.interval.String(),
	}).Info("Authenticated, bot is now running")

	return b.Run(ctx)
}

// Run polls once immediately and then on every tick. Cycles run on the loop
// goroutine, so a slow cycle delays the next tick instead of overlapping it.
func (b *Bot) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.PollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Context cancelled, stopping mention polling")
			return ctx.Err()
		case <-b.stopped:
			b.logger.Info("Mention polling stopped")
			return nil
		case <-ticker.C:
			b.PollOnce(ctx)
		}
	}
}

// PollOnce runs one poll cycle and dispatches the mentions oldest first.
// Concurrent callers are serialized.
func (b *Bot) PollOnce(ctx context.Context) []Outcome {
	b.cycleMu.Lock()
	defer b.cycleMu.Unlock()

	mentions := b.poller.Poll(ctx)
	outcomes := make([]Outcome, 0, len(mentions))
	for _, m := range mentions {
		if ctx.Err() != nil {
			break
		}
		outcomes = append(outcomes, b.dispatcher.Process(ctx, m))
	}
	return outcomes
}

// Process dispatches a single mention outside of a poll cycle.
func (b *Bot) Process(ctx context.Context, m Mention) Outcome {
	b.cycleMu.Lock()
	defer b.cycleMu.Unlock()
	return b.dispatcher.Process(ctx, m)
}

// Stop ends Run. It is safe to call more than once.
func (b *Bot) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopped)
	})
}
