package application

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/booking"
)

// Strategy は1件の予約リクエストを処理する並行性制御戦略
// Bookは必ず成功(nil)または終了エラーのいずれか1つで終わり、
// 座席をprocessingのまま放置しない
type Strategy interface {
	Book(ctx context.Context, req *booking.Request) error
	Mode() Mode
}

// sleepCtx はdだけ待つ。キャンセルされたらctx.Errを返す
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// jitter は [d/2, d*3/2) のランダムな待ち時間を返す
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d/2 + rand.N(d)
}
