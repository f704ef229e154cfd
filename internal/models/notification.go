package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is an in-app message for a user. Append-only.
type Notification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"size:128;not null;index" json:"userId"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	Link      string    `gorm:"size:512" json:"link"`
	CreatedAt time.Time `json:"createdAt"`
}

// LogEntry is the append-only audit trail
type LogEntry struct {
	ID                 uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Message            string            `gorm:"type:text;not null" json:"message"`
	Timestamp          time.Time         `gorm:"not null;index" json:"timestamp"`
	RelatedTransaction *string           `gorm:"size:36;index" json:"relatedTransaction"`
	PropertyID         *string           `gorm:"size:36;index" json:"propertyId,omitempty"`
	ActorUID           string            `gorm:"size:128" json:"advocateUid"`
	TxHash             *string           `gorm:"size:80" json:"txHash"`
	Details            datatypes.JSONMap `json:"details,omitempty"`
}

// TableName overrides the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// TableName overrides the table name for LogEntry
func (LogEntry) TableName() string {
	return "logs"
}
