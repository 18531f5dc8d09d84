package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey           = "rsvps:changes"
	ConsumerGroupPrefix = "rsvp-dashboards"
	ConsumerNamePrefix  = "worker"

	changeField         = "change"
	defaultStreamMaxLen = 10000
	readBatch           = 50
	claimBatch          = 10
)

// RedisStreamChangeQueueConfig 零值欄位使用預設值
type RedisStreamChangeQueueConfig struct {
	ClaimMinIdleTime   time.Duration // 未 ack 的異動閒置多久後重新投遞
	MaxRetryCount      int           // 投遞次數上限，超過就 ack 掉
	ReadGroupBlockTime time.Duration
	StreamMaxLen       int64 // XADD MAXLEN ~
	// MaxChangeAge 重新投遞時，比這更舊的異動直接丟棄：
	// dashboard 重新連線會拿到新的快照，過時的 change 只會造成閃動
	MaxChangeAge time.Duration
}

func defaultRedisStreamConfig() RedisStreamChangeQueueConfig {
	return RedisStreamChangeQueueConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
		StreamMaxLen:       defaultStreamMaxLen,
		MaxChangeAge:       time.Minute,
	}
}

func (c RedisStreamChangeQueueConfig) withDefaults() RedisStreamChangeQueueConfig {
	d := defaultRedisStreamConfig()
	if c.ClaimMinIdleTime > 0 {
		d.ClaimMinIdleTime = c.ClaimMinIdleTime
	}
	if c.MaxRetryCount > 0 {
		d.MaxRetryCount = c.MaxRetryCount
	}
	if c.ReadGroupBlockTime > 0 {
		d.ReadGroupBlockTime = c.ReadGroupBlockTime
	}
	if c.StreamMaxLen > 0 {
		d.StreamMaxLen = c.StreamMaxLen
	}
	if c.MaxChangeAge > 0 {
		d.MaxChangeAge = c.MaxChangeAge
	}
	return d
}

// RedisStreamChangeQueueImpl 所有 RSVP 異動寫進同一個 stream。
// 每個 server 實例有自己的 consumer group，所以每個實例都看得到全部異動，
// 再由 hub 篩出自己有 dashboard 連線的活動。
type RedisStreamChangeQueueImpl struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	cfg      RedisStreamChangeQueueConfig
	now      func() time.Time
}

// NewRedisStreamChangeQueue instanceID 為空時產生一個；config 可為 nil
func NewRedisStreamChangeQueue(client *redis.Client, instanceID string, config *RedisStreamChangeQueueConfig) (*RedisStreamChangeQueueImpl, error) {
	if instanceID == "" {
		instanceID = uuid.New().String()
	}
	var cfg RedisStreamChangeQueueConfig
	if config != nil {
		cfg = *config
	}

	q := &RedisStreamChangeQueueImpl{
		client:   client,
		stream:   StreamKey,
		group:    ConsumerGroupPrefix + ":" + instanceID,
		consumer: ConsumerNamePrefix + ":" + instanceID,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
	}

	// "$"：剛啟動的實例沒有 dashboard 連線，舊異動對它沒有意義
	err := client.XGroupCreateMkStream(context.Background(), q.stream, q.group, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("ensure consumer group %s: %w", q.group, err)
	}
	return q, nil
}

func (q *RedisStreamChangeQueueImpl) GroupName() string {
	return q.group
}

// Close 關機時移除此實例的 group，否則 stream 會一直替它保留 pending 項目
func (q *RedisStreamChangeQueueImpl) Close(ctx context.Context) error {
	return q.client.XGroupDestroy(ctx, q.stream, q.group).Err()
}

func (q *RedisStreamChangeQueueImpl) PublishChange(ctx context.Context, change *model.RSVPChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal rsvp change: %w", err)
	}
	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		MaxLen: q.cfg.StreamMaxLen,
		Approx: true,
		Values: map[string]interface{}{changeField: string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", q.stream, err)
	}
	return nil
}

// SubscribeChanges 同時跑兩條路徑：讀新異動，以及重新投遞逾時未 ack 的異動
func (q *RedisStreamChangeQueueImpl) SubscribeChanges(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		done := make(chan struct{})
		go func() {
			defer close(done)
			q.reclaimLoop(ctx, out)
		}()
		q.readLoop(ctx, out)
		<-done
	}()
	return out, nil
}

func (q *RedisStreamChangeQueueImpl) readLoop(ctx context.Context, out chan<- Delivery) {
	log := logger.WithComponent("mq")
	for ctx.Err() == nil {
		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.group,
			Consumer: q.consumer,
			Streams:  []string{q.stream, ">"},
			Count:    readBatch,
			Block:    q.cfg.ReadGroupBlockTime,
		}).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			log.Error("read rsvp changes failed", zap.String("group", q.group), zap.Error(err))
			sleep(ctx, time.Second)
			continue
		}

		for _, s := range streams {
			if s.Stream == q.stream && !q.forward(ctx, out, s.Messages, false) {
				return
			}
		}
	}
}

func (q *RedisStreamChangeQueueImpl) reclaimLoop(ctx context.Context, out chan<- Delivery) {
	log := logger.WithComponent("mq")
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()

	cursor := "0-0"
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		msgs, next, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   q.stream,
			Group:    q.group,
			Consumer: q.consumer,
			MinIdle:  q.cfg.ClaimMinIdleTime,
			Start:    cursor,
			Count:    claimBatch,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return
			}
			log.Error("reclaim rsvp changes failed", zap.String("group", q.group), zap.Error(err))
			continue
		}

		// 掃到尾端時 Redis 回傳 0-0，下一輪從頭開始
		cursor = next
		if cursor == "" {
			cursor = "0-0"
		}

		if !q.forward(ctx, out, msgs, true) {
			return
		}
	}
}

// forward 將訊息轉成 Delivery 送出；ctx 結束時回傳 false。
// redelivered 的訊息另外檢查投遞次數與異動的新舊。
func (q *RedisStreamChangeQueueImpl) forward(ctx context.Context, out chan<- Delivery, msgs []redis.XMessage, redelivered bool) bool {
	for _, msg := range msgs {
		change, ok := q.decode(ctx, msg)
		if !ok {
			continue
		}
		if redelivered && !q.worthRetrying(ctx, msg.ID, change) {
			continue
		}
		select {
		case out <- q.delivery(ctx, msg.ID, change):
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// decode 格式錯誤的訊息永遠無法處理，ack 後略過
func (q *RedisStreamChangeQueueImpl) decode(ctx context.Context, msg redis.XMessage) (*model.RSVPChange, bool) {
	raw, ok := msg.Values[changeField].(string)
	if !ok {
		q.drop(ctx, msg.ID, "missing change field")
		return nil, false
	}
	var change model.RSVPChange
	if err := json.Unmarshal([]byte(raw), &change); err != nil {
		q.drop(ctx, msg.ID, "malformed change", zap.Error(err))
		return nil, false
	}
	return &change, true
}

// worthRetrying 投遞次數用完，或異動已過時，就 ack 丟棄
func (q *RedisStreamChangeQueueImpl) worthRetrying(ctx context.Context, id string, change *model.RSVPChange) bool {
	if at, err := StreamIDTime(id); err == nil && q.now().Sub(at) > q.cfg.MaxChangeAge {
		q.drop(ctx, id, "stale change", zap.String("event_id", change.EventID.String()), zap.Time("published_at", at))
		return false
	}

	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.stream,
		Group:  q.group,
		Start:  id,
		End:    id,
		Count:  1,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		// 查不到次數時寧可多送一次，dashboard reducer 會處理重複
		logger.WithComponent("mq").Warn("read delivery count failed", zap.String("message_id", id), zap.Error(err))
		return true
	}
	if len(pending) > 0 && int(pending[0].RetryCount) >= q.cfg.MaxRetryCount {
		q.drop(ctx, id, "delivery attempts exhausted",
			zap.String("event_id", change.EventID.String()),
			zap.Int64("attempts", pending[0].RetryCount),
		)
		return false
	}
	return true
}

func (q *RedisStreamChangeQueueImpl) drop(ctx context.Context, id, reason string, fields ...zap.Field) {
	fields = append([]zap.Field{zap.String("message_id", id), zap.String("group", q.group)}, fields...)
	logger.WithComponent("mq").Warn("drop rsvp change: "+reason, fields...)
	if err := q.client.XAck(ctx, q.stream, q.group, id).Err(); err != nil {
		logger.WithComponent("mq").Error("ack dropped change failed", zap.String("message_id", id), zap.Error(err))
	}
}

func (q *RedisStreamChangeQueueImpl) delivery(ctx context.Context, id string, change *model.RSVPChange) Delivery {
	ack := func() {
		if err := q.client.XAck(ctx, q.stream, q.group, id).Err(); err != nil {
			logger.WithComponent("mq").Error("ack rsvp change failed", zap.String("message_id", id), zap.Error(err))
		}
	}
	return Delivery{
		Data: change,
		Ack:  ack,
		Nack: func(requeue bool) {
			if !requeue {
				ack()
				return
			}
			// 不 ack：留在 pending，閒置超過 ClaimMinIdleTime 後由 reclaimLoop 再送
		},
	}
}

// StreamIDTime 取出 stream ID ("<ms>-<seq>") 中的寫入時間
func StreamIDTime(id string) (time.Time, error) {
	ms, _, found := strings.Cut(id, "-")
	if !found {
		return time.Time{}, fmt.Errorf("invalid stream id %q", id)
	}
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stream id %q: %w", id, err)
	}
	return time.UnixMilli(n), nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
