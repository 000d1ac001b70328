package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler 事件处理函数，返回错误会触发重投
type Handler func(ctx context.Context, evt Event) error

// DeadLetterSink 重试耗尽后的死信落库接口
type DeadLetterSink interface {
	Record(ctx context.Context, consumer, topic string, evt Event, cause error) error
}

// Bus 进程内事件总线
//
// 发布发生在本地事务提交之后，调用方不等待消费者完成。
// 每个订阅者独立 goroutine 消费自己的缓冲队列，投递语义为至少一次：
// 处理失败按固定间隔重投，重试耗尽后写入死信表（尽力而为的订阅者除外）。
type Bus struct {
	logger *zap.Logger

	mu          sync.RWMutex
	subscribers map[string][]*subscriber
	closed      bool

	bufferSize int
	maxRetries int
	retryDelay time.Duration
	sink       DeadLetterSink

	wg sync.WaitGroup
}

type subscriber struct {
	name       string
	topic      string
	handler    Handler
	ch         chan Event
	bestEffort bool
}

// NewBus 创建事件总线
func NewBus(logger *zap.Logger, bufferSize, maxRetries int, sink DeadLetterSink) *Bus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Bus{
		logger:      logger,
		subscribers: make(map[string][]*subscriber),
		bufferSize:  bufferSize,
		maxRetries:  maxRetries,
		retryDelay:  time.Second,
		sink:        sink,
	}
}

// Subscribe 注册订阅者并启动消费循环，处理失败会重投直至死信
func (b *Bus) Subscribe(topic, name string, handler Handler) {
	b.subscribe(topic, name, handler, false)
}

// SubscribeBestEffort 注册尽力而为的订阅者：失败仅记录日志，不重投不进死信
func (b *Bus) SubscribeBestEffort(topic, name string, handler Handler) {
	b.subscribe(topic, name, handler, true)
}

func (b *Bus) subscribe(topic, name string, handler Handler, bestEffort bool) {
	sub := &subscriber{
		name:       name,
		topic:      topic,
		handler:    handler,
		ch:         make(chan Event, b.bufferSize),
		bestEffort: bestEffort,
	}

	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], sub)
	b.mu.Unlock()

	b.wg.Add(1)
	go b.consume(sub)

	b.logger.Info("event subscriber registered",
		zap.String("topic", topic),
		zap.String("consumer", name),
		zap.Bool("best_effort", bestEffort))
}

// Publish 向主题的所有订阅者投递事件，不阻塞等待处理结果
func (b *Bus) Publish(topic string, evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.logger.Warn("publish on closed bus, event dropped",
			zap.String("topic", topic),
			zap.String("event_type", evt.Type()),
			zap.String("event_id", evt.ID()))
		return
	}

	for _, sub := range b.subscribers[topic] {
		sub.ch <- evt
	}
}

func (b *Bus) consume(sub *subscriber) {
	defer b.wg.Done()

	for evt := range sub.ch {
		b.deliver(sub, evt)
	}
}

func (b *Bus) deliver(sub *subscriber, evt Event) {
	var lastErr error
	for attempt := 0; attempt <= b.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(b.retryDelay)
		}

		lastErr = sub.handler(context.Background(), evt)
		if lastErr == nil {
			return
		}

		b.logger.Warn("event handler failed",
			zap.String("consumer", sub.name),
			zap.String("event_type", evt.Type()),
			zap.String("event_id", evt.ID()),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))

		if sub.bestEffort {
			return
		}
	}

	b.logger.Error("event moved to dead letter after retries exhausted",
		zap.String("consumer", sub.name),
		zap.String("event_type", evt.Type()),
		zap.String("event_id", evt.ID()),
		zap.Error(lastErr))

	if b.sink != nil {
		if err := b.sink.Record(context.Background(), sub.name, sub.topic, evt, lastErr); err != nil {
			b.logger.Error("failed to record dead letter event",
				zap.String("event_id", evt.ID()),
				zap.Error(err))
		}
	}
}

// Close 关闭总线并等待在途事件处理完成
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, subs := range b.subscribers {
		for _, sub := range subs {
			close(sub.ch)
		}
	}
	b.mu.Unlock()

	b.wg.Wait()
	b.logger.Info("event bus closed")
}
