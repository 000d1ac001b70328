package service

import (
	"context"

	"github.com/laoyang/quanta/internal/events"
	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/repo"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DeadLetterRecorder 重试耗尽事件的落库器
// 事件编码为带 @type 的信封原样保存，排查后可人工重放
type DeadLetterRecorder struct {
	logger   *zap.Logger
	eventLog *repo.EventLogRepo
}

var _ events.DeadLetterSink = (*DeadLetterRecorder)(nil)

// NewDeadLetterRecorder 创建死信落库器
func NewDeadLetterRecorder(db *gorm.DB, logger *zap.Logger) *DeadLetterRecorder {
	return &DeadLetterRecorder{
		logger:   logger,
		eventLog: repo.NewEventLogRepo(db),
	}
}

// Record 写入死信记录
func (r *DeadLetterRecorder) Record(ctx context.Context, consumer, topic string, evt events.Event, cause error) error {
	payload, err := events.Encode(evt)
	if err != nil {
		r.logger.Error("failed to encode dead letter payload",
			zap.String("event_id", evt.ID()),
			zap.Error(err))
		payload = nil
	}

	return r.eventLog.CreateDeadLetter(ctx, &models.DeadLetterEvent{
		ID:       ulid.Make().String(),
		Consumer: consumer,
		Topic:    topic,
		EventID:  evt.ID(),
		Payload:  datatypes.JSON(payload),
		Error:    cause.Error(),
	})
}
