package models

import (
	"time"

	"github.com/lib/pq"
)

// Mention is one dispatched mention and what the bot did with it.
type Mention struct {
	ID       string `gorm:"primaryKey;column:id"`
	AuthorID string `gorm:"column:author_id;not null"`
	Username string `gorm:"column:username;not null"`
	Text     string `gorm:"column:text;not null"`

	// Command
	Command string         `gorm:"column:command"`
	Params  pq.StringArray `gorm:"column:params;type:text[]"`
	Fee     float64        `gorm:"column:fee;not null;default:0"`

	// Result
	Outcome   string    `gorm:"column:outcome;not null"`
	ReplyID   string    `gorm:"column:reply_id"`
	ReplyText string    `gorm:"column:reply_text"`
	Error     string    `gorm:"column:error"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	// ProcessedAt is when the dispatcher finished with the mention.
	ProcessedAt time.Time `gorm:"column:processed_at;not null"`
}

// TableName specifies the table name for the Mention model
func (Mention) TableName() string {
	return "mentions"
}
