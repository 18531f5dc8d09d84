package realtime

import (
	"sync"

	"go-gin-rsvp/internal/model"

	"github.com/google/uuid"
)

// DefaultSubscriberBuffer 每個訂閱者的緩衝大小；滿了就丟棄該筆通知
const DefaultSubscriberBuffer = 64

// Hub 將 RSVP 異動分送給正在看同一場活動 dashboard 的訂閱者。
// 只會送出 event_id 相符的異動。
type Hub interface {
	Subscribe(eventID uuid.UUID) (<-chan model.RSVPChange, func())
	// Broadcast 回傳實際送達的訂閱者數量
	Broadcast(change model.RSVPChange) int
	SubscriberCount(eventID uuid.UUID) int
}

type subscriber struct {
	ch chan model.RSVPChange
}

type HubImpl struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[*subscriber]struct{}
	buffer int
}

func NewHub(buffer int) Hub {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	return &HubImpl{
		subs:   make(map[uuid.UUID]map[*subscriber]struct{}),
		buffer: buffer,
	}
}

// Subscribe 回傳的 unsubscribe 可重複呼叫；呼叫後 channel 會被關閉
func (h *HubImpl) Subscribe(eventID uuid.UUID) (<-chan model.RSVPChange, func()) {
	s := &subscriber{ch: make(chan model.RSVPChange, h.buffer)}

	h.mu.Lock()
	if h.subs[eventID] == nil {
		h.subs[eventID] = make(map[*subscriber]struct{})
	}
	h.subs[eventID][s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[eventID], s)
			if len(h.subs[eventID]) == 0 {
				delete(h.subs, eventID)
			}
			close(s.ch)
		})
	}
	return s.ch, unsubscribe
}

func (h *HubImpl) Broadcast(change model.RSVPChange) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for s := range h.subs[change.EventID] {
		select {
		case s.ch <- change:
			delivered++
		default:
			// 慢的訂閱者不能拖住其他人
		}
	}
	return delivered
}

func (h *HubImpl) SubscriberCount(eventID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[eventID])
}
