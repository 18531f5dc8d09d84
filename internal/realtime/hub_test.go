package realtime_test

import (
	"sync"
	"testing"

	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/realtime"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastOnlyMatchingEvent(t *testing.T) {
	hub := realtime.NewHub(4)
	eventA := uuid.New()
	eventB := uuid.New()

	chA, unsubA := hub.Subscribe(eventA)
	defer unsubA()
	chB, unsubB := hub.Subscribe(eventB)
	defer unsubB()

	change := model.RSVPChange{Type: model.ChangeInserted, EventID: eventA, Row: &model.RSVP{ID: uuid.New()}}
	delivered := hub.Broadcast(change)

	assert.Equal(t, 1, delivered)
	require.Len(t, chA, 1)
	got := <-chA
	assert.Equal(t, change.Row.ID, got.Row.ID)
	assert.Len(t, chB, 0)
}

func TestHub_MultipleSubscribersSameEvent(t *testing.T) {
	hub := realtime.NewHub(4)
	eventID := uuid.New()

	ch1, unsub1 := hub.Subscribe(eventID)
	defer unsub1()
	ch2, unsub2 := hub.Subscribe(eventID)
	defer unsub2()

	assert.Equal(t, 2, hub.SubscriberCount(eventID))
	assert.Equal(t, 2, hub.Broadcast(model.RSVPChange{Type: model.ChangeDeleted, EventID: eventID}))
	assert.Len(t, ch1, 1)
	assert.Len(t, ch2, 1)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := realtime.NewHub(4)
	eventID := uuid.New()

	ch, unsub := hub.Subscribe(eventID)
	unsub()
	unsub()

	_, ok := <-ch
	assert.False(t, ok, "unsubscribe 後 channel 應關閉")
	assert.Equal(t, 0, hub.SubscriberCount(eventID))
	assert.Equal(t, 0, hub.Broadcast(model.RSVPChange{EventID: eventID}))
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := realtime.NewHub(1)
	eventID := uuid.New()

	_, unsub := hub.Subscribe(eventID)
	defer unsub()

	assert.Equal(t, 1, hub.Broadcast(model.RSVPChange{EventID: eventID}))
	// 緩衝已滿，第二筆被丟棄而不是阻塞
	assert.Equal(t, 0, hub.Broadcast(model.RSVPChange{EventID: eventID}))
}

func TestHub_ConcurrentSubscribeAndBroadcast(t *testing.T) {
	hub := realtime.NewHub(8)
	eventID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, unsub := hub.Subscribe(eventID)
			unsub()
		}()
		go func() {
			defer wg.Done()
			hub.Broadcast(model.RSVPChange{EventID: eventID})
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.SubscriberCount(eventID))
}
