// Package memory persists what the bot did with each mention.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/lisanmuaddib/x402bot/pkg/bot"
	"github.com/lisanmuaddib/x402bot/pkg/db/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MentionJournal stores dispatch results in postgres. It implements
// bot.Journal.
type MentionJournal struct {
	mu     sync.RWMutex
	logger *logrus.Logger
	db     *gorm.DB
}

var _ bot.Journal = (*MentionJournal)(nil)

func NewMentionJournal(logger *logrus.Logger, db *gorm.DB) (*MentionJournal, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &MentionJournal{
		logger: logger,
		db:     db,
	}, nil
}

// ToModel maps a dispatch record onto the mentions table.
func ToModel(rec bot.MentionRecord) models.Mention {
	processedAt := rec.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}
	params := pq.StringArray(rec.Params)
	if params == nil {
		params = pq.StringArray{}
	}
	return models.Mention{
		ID:          rec.MentionID,
		AuthorID:    rec.AuthorID,
		Username:    rec.Username,
		Text:        rec.Text,
		Command:     rec.Command,
		Params:      params,
		Fee:         rec.Fee,
		Outcome:     string(rec.Outcome),
		ReplyID:     rec.ReplyID,
		ReplyText:   rec.ReplyText,
		Error:       rec.Error,
		ProcessedAt: processedAt,
	}
}

// RecordMention upserts the record keyed by mention id.
func (j *MentionJournal) RecordMention(ctx context.Context, rec bot.MentionRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	row := ToModel(rec)

	result := j.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"command", "params", "fee", "outcome", "reply_id", "reply_text", "error", "processed_at",
			}),
		}).
		Create(&row)
	if result.Error != nil {
		return fmt.Errorf("failed to record mention: %w", result.Error)
	}

	j.logger.WithFields(logrus.Fields{
		"tweet_id": rec.MentionID,
		"username": rec.Username,
		"command":  rec.Command,
		"outcome":  rec.Outcome,
	}).Debug("Recorded mention")

	return nil
}

// LatestMentionID returns the numerically largest stored mention id.
func (j *MentionJournal) LatestMentionID(ctx context.Context) (string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var row models.Mention
	err := j.db.WithContext(ctx).
		Select("id").
		Order("LENGTH(id) DESC").
		Order("id DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load latest mention: %w", err)
	}
	return row.ID, nil
}

// GetMention returns one stored mention.
func (j *MentionJournal) GetMention(ctx context.Context, id string) (*models.Mention, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var row models.Mention
	if err := j.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, fmt.Errorf("mention not found: %s: %w", id, err)
	}
	return &row, nil
}

// RecentByUsername returns the latest mentions from one author, newest first.
func (j *MentionJournal) RecentByUsername(ctx context.Context, username string, limit int) ([]models.Mention, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var rows []models.Mention
	err := j.db.WithContext(ctx).
		Where("username = ?", username).
		Order("processed_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load mentions for %s: %w", username, err)
	}
	return rows, nil
}
