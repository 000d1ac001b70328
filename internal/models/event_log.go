package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProcessedEvent 投影器幂等记录
// 事件至少一次投递，(consumer, event_id) 唯一约束保证重复投递只生效一次
type ProcessedEvent struct {
	ID        string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Consumer  string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_processed_consumer_event" json:"consumer"`
	EventID   string    `gorm:"type:varchar(26);not null;uniqueIndex:idx_processed_consumer_event" json:"event_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (ProcessedEvent) TableName() string {
	return "processed_events"
}

// DeadLetterEvent 死信记录：重试耗尽后落库，保留完整事件内容供人工排查
type DeadLetterEvent struct {
	ID        string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Consumer  string         `gorm:"type:varchar(30);not null;index" json:"consumer"`
	Topic     string         `gorm:"type:varchar(30);not null" json:"topic"`
	EventID   string         `gorm:"type:varchar(26);not null;index" json:"event_id"`
	Payload   datatypes.JSON `gorm:"type:json" json:"payload"`
	Error     string         `gorm:"type:varchar(500)" json:"error"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (DeadLetterEvent) TableName() string {
	return "dead_letter_events"
}
