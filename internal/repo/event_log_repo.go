package repo

import (
	"context"

	"github.com/go-orz/orz"
	"github.com/laoyang/quanta/internal/models"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

func NewEventLogRepo(db *gorm.DB) *EventLogRepo {
	return &EventLogRepo{
		processed: orz.NewRepository[models.ProcessedEvent, string](db),
		dead:      orz.NewRepository[models.DeadLetterEvent, string](db),
	}
}

// EventLogRepo 投影幂等记录与死信存储
type EventLogRepo struct {
	processed orz.Repository[models.ProcessedEvent, string]
	dead      orz.Repository[models.DeadLetterEvent, string]
}

// MarkProcessed 标记事件已被消费者处理；返回 false 表示该事件已处理过（重复投递）
// 必须在投影事务内调用，与状态变更一起提交
func (r *EventLogRepo) MarkProcessed(ctx context.Context, consumer, eventID string) (bool, error) {
	var count int64
	err := r.processed.GetDB(ctx).
		Table(r.processed.GetTableName()).
		Where("consumer = ? AND event_id = ?", consumer, eventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	record := &models.ProcessedEvent{
		ID:       ulid.Make().String(),
		Consumer: consumer,
		EventID:  eventID,
	}
	if err := r.processed.Create(ctx, record); err != nil {
		return false, err
	}
	return true, nil
}

// CreateDeadLetter 写入死信记录
func (r *EventLogRepo) CreateDeadLetter(ctx context.Context, record *models.DeadLetterEvent) error {
	return r.dead.Create(ctx, record)
}
