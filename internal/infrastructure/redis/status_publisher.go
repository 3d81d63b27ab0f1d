package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking-engine/internal/pkg/logger"
)

const publishTimeout = time.Second

// Event はPub/Subで配信する通知イベント
type Event struct {
	Type    string `json:"type"`
	SeatID  string `json:"seat_id,omitempty"`
	Status  string `json:"status,omitempty"`
	Percent int    `json:"percent,omitempty"`
	Message string `json:"message,omitempty"`
	At      string `json:"at"`
}

// StatusPublisher は座席状態の変化をRedis Pub/Subで表示層へ配信するSink
// 配信失敗はエンジンの処理に影響させず、ログに残すだけにとどめる
type StatusPublisher struct {
	client  *redis.Client
	channel string
}

// NewStatusPublisher は通知パブリッシャーを作成する
func NewStatusPublisher(client *redis.Client, channel string) *StatusPublisher {
	return &StatusPublisher{client: client, channel: channel}
}

// OnSeatStatusChanged は座席の状態遷移を配信する
func (p *StatusPublisher) OnSeatStatusChanged(seatID string, status seat.Status) {
	p.publish(Event{Type: "seat_status", SeatID: seatID, Status: string(status)})
}

// OnProgress はバッチ進捗を配信する
func (p *StatusPublisher) OnProgress(percent int) {
	p.publish(Event{Type: "progress", Percent: percent})
}

// OnLogEvent はトランザクションログを配信する
func (p *StatusPublisher) OnLogEvent(message string) {
	p.publish(Event{Type: "log", Message: message})
}

func (p *StatusPublisher) publish(ev Event) {
	ev.At = time.Now().Format(time.RFC3339Nano)
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Warn("通知イベントのエンコードに失敗", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		logger.Warn("通知イベントの配信に失敗",
			zap.String("channel", p.channel),
			zap.Error(err),
		)
	}
}
