package worker

import (
	"context"

	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/queue"
	"go-gin-rsvp/pkg/logger"

	"go.uber.org/zap"
)

// Broadcaster 接收異動並轉給訂閱者
type Broadcaster interface {
	Broadcast(change model.RSVPChange) int
}

type ChangeWorker interface {
	// 訂閱異動隊列，將異動轉給 dashboard 訂閱者
	Start(ctx context.Context) error
}

type ChangeWorkerImpl struct {
	queue       queue.ChangeQueue
	broadcaster Broadcaster
}

func NewChangeWorker(queue queue.ChangeQueue, broadcaster Broadcaster) ChangeWorker {
	return &ChangeWorkerImpl{
		queue:       queue,
		broadcaster: broadcaster,
	}
}

func (w *ChangeWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeChanges(ctx)
	if err != nil {
		return err
	}

	go func() {
		log := logger.WithComponent("change_worker")
		for msg := range msgs {
			change := msg.Data
			if change == nil || change.Row == nil {
				// 無法處理的消息不重試
				log.Warn("drop change without row")
				msg.Nack(false)
				continue
			}

			delivered := w.broadcaster.Broadcast(*change)
			log.Debug("change dispatched",
				zap.String("type", string(change.Type)),
				zap.String("event_id", change.EventID.String()),
				zap.Int("subscribers", delivered),
			)
			msg.Ack()
		}
	}()
	return nil
}
