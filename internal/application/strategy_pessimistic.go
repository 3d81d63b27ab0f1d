package application

import (
	"context"
	"time"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/booking"
	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking-engine/internal/infrastructure/memstore"
	"github.com/sanosuguru/go-seat-booking-engine/internal/pkg/metrics"
	"github.com/sanosuguru/go-seat-booking-engine/internal/stats"
)

// PessimisticStrategy は座席単位の排他ロックで予約を直列化するブロッキング戦略
// タイムアウトは1回で終了結果となり、この戦略自身はリトライしない
// （呼び出し側が再投入してよい）
type PessimisticStrategy struct {
	store    *memstore.Store
	stats    *stats.Aggregator
	settings *Settings

	// m はnilでもよい
	m *metrics.Metrics
}

// NewPessimisticStrategy は悲観的戦略を作成する
func NewPessimisticStrategy(store *memstore.Store, st *stats.Aggregator, settings *Settings, m *metrics.Metrics) *PessimisticStrategy {
	return &PessimisticStrategy{store: store, stats: st, settings: settings, m: m}
}

// Mode は戦略のモードを返す
func (p *PessimisticStrategy) Mode() Mode { return ModePessimistic }

// Book は悲観的並行性制御で座席を予約する
// ロック取得がタイムアウトした場合、座席には一切の変更を加えない
func (p *PessimisticStrategy) Book(ctx context.Context, req *booking.Request) error {
	start := time.Now()
	lock, err := p.store.TryAcquire(ctx, req.SeatID, p.settings.LockTimeout())
	if p.m != nil {
		p.m.SeatLockWaitSeconds.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return err
	}
	defer lock.Release()

	snap, err := p.store.Snapshot(req.SeatID)
	if err != nil {
		return err
	}
	if snap.Status == seat.StatusBooked {
		return seat.ErrSeatAlreadyBooked
	}

	claimed, err := p.store.CompareAndSwap(req.SeatID, snap.Version, seat.StatusProcessing, "")
	if err != nil {
		return err
	}
	if !claimed {
		// ロック保持中のCAS失敗は楽観側トランザクションとの競合（モード混在時のみ）
		p.stats.AddConflict()
		return seat.ErrVersionConflict
	}

	if err := sleepCtx(ctx, jitter(p.settings.WorkDelay())); err != nil {
		_, _ = p.store.CompareAndSwap(req.SeatID, snap.Version+1, seat.StatusAvailable, "")
		return err
	}

	committed, err := p.store.CompareAndSwap(req.SeatID, snap.Version+1, seat.StatusBooked, req.UserID)
	if err != nil {
		return err
	}
	if !committed {
		p.stats.AddConflict()
		_, _ = p.store.CompareAndSwap(req.SeatID, snap.Version+1, seat.StatusAvailable, "")
		return seat.ErrVersionConflict
	}
	return nil
}
