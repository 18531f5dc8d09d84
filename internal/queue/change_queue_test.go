package queue_test

import (
	"context"
	"testing"
	"time"

	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeQueue_PublishAndSubscribe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewChangeQueue(10)
	change := &model.RSVPChange{
		Type:    model.ChangeInserted,
		EventID: uuid.New(),
		Row:     &model.RSVP{ID: uuid.New(), GuestName: "Ann"},
	}
	require.NoError(t, q.PublishChange(ctx, change))

	delCh, err := q.SubscribeChanges(ctx)
	require.NoError(t, err)

	select {
	case d := <-delCh:
		assert.Equal(t, change, d.Data)
		d.Ack()
	case <-ctx.Done():
		t.Fatal("timeout 未收到訊息")
	}
}

func TestChangeQueue_NackRequeue(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewChangeQueue(10)
	change := &model.RSVPChange{Type: model.ChangeDeleted, EventID: uuid.New(), Row: &model.RSVP{ID: uuid.New()}}
	require.NoError(t, q.PublishChange(ctx, change))

	delCh, err := q.SubscribeChanges(ctx)
	require.NoError(t, err)

	first := <-delCh
	first.Nack(true)

	select {
	case d := <-delCh:
		assert.Equal(t, change.Row.ID, d.Data.Row.ID)
	case <-ctx.Done():
		t.Fatal("timeout 未收到重試投遞")
	}
}

func TestChangeQueue_PublishRespectsContext(t *testing.T) {
	q := queue.NewChangeQueue(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.PublishChange(ctx, &model.RSVPChange{Type: model.ChangeInserted})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestChangeQueue_ctxCancel_closesChannel(t *testing.T) {
	q := queue.NewChangeQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	delCh, err := q.SubscribeChanges(ctx)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-delCh:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel 未在時限內關閉")
	}
}
