package queue

import (
	"context"

	"go-gin-rsvp/internal/model"
)

type Delivery struct {
	Data *model.RSVPChange
	Ack  func()
	Nack func(requeue bool)
}

type ChangeQueue interface {
	// 發送 RSVP 異動到隊列
	PublishChange(ctx context.Context, change *model.RSVPChange) error
	// 訂閱 RSVP 異動
	SubscribeChanges(ctx context.Context) (<-chan Delivery, error)
}

type ChangeQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列，單一 process 使用
	ch chan *model.RSVPChange
}

func NewChangeQueue(bufferSize int) ChangeQueue {
	return &ChangeQueueImpl{
		ch: make(chan *model.RSVPChange, bufferSize),
	}
}

func (q *ChangeQueueImpl) PublishChange(ctx context.Context, change *model.RSVPChange) error {
	select {
	case q.ch <- change:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ChangeQueueImpl) SubscribeChanges(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-q.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data: change,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							select {
							case q.ch <- change:
							default:
							}
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
