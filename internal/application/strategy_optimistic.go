package application

import (
	"context"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/booking"
	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
	"github.com/sanosuguru/go-seat-booking-engine/internal/infrastructure/memstore"
	"github.com/sanosuguru/go-seat-booking-engine/internal/stats"
)

// OptimisticStrategy はバージョン検査つきCASで予約を確定するロックフリー戦略
// 競合を検出したらランダム化バックオフの後、リトライ予算の範囲で再試行する
type OptimisticStrategy struct {
	store    *memstore.Store
	stats    *stats.Aggregator
	settings *Settings
}

// NewOptimisticStrategy は楽観的戦略を作成する
func NewOptimisticStrategy(store *memstore.Store, st *stats.Aggregator, settings *Settings) *OptimisticStrategy {
	return &OptimisticStrategy{store: store, stats: st, settings: settings}
}

// Mode は戦略のモードを返す
func (o *OptimisticStrategy) Mode() Mode { return ModeOptimistic }

// Book は楽観的並行性制御で座席を予約する
//
//  1. スナップショットを読む。bookedなら即時失敗（リトライなし）
//  2. CASでprocessingへ遷移。失敗は競合としてバックオフ後に1からやり直す
//  3. 予約処理の後、CAS(version+1)でbookedを確定。間に他の遷移が
//     割り込んでいたら自分のprocessingを巻き戻して1からやり直す
//  4. リトライ予算を使い切ったらErrMaxRetriesExceeded
func (o *OptimisticStrategy) Book(ctx context.Context, req *booking.Request) error {
	maxRetries := o.settings.MaxRetries()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			req.RetryCount++
			if err := sleepCtx(ctx, jitter(o.settings.BackoffBase())); err != nil {
				return err
			}
		}

		snap, err := o.store.Snapshot(req.SeatID)
		if err != nil {
			return err
		}
		if snap.Status == seat.StatusBooked {
			return seat.ErrSeatAlreadyBooked
		}
		if snap.Status == seat.StatusProcessing {
			// 他のワーカーがトランザクション中。横取りせず競合として扱う
			o.stats.AddConflict()
			continue
		}

		claimed, err := o.store.CompareAndSwap(req.SeatID, snap.Version, seat.StatusProcessing, "")
		if err != nil {
			return err
		}
		if !claimed {
			// 他のワーカーがトランザクション中
			o.stats.AddConflict()
			continue
		}

		if err := sleepCtx(ctx, jitter(o.settings.WorkDelay())); err != nil {
			o.unwind(req.SeatID, snap.Version+1)
			return err
		}

		committed, err := o.store.CompareAndSwap(req.SeatID, snap.Version+1, seat.StatusBooked, req.UserID)
		if err != nil {
			return err
		}
		if committed {
			return nil
		}

		// 2と3の間に別の遷移が割り込んだ。自分が残したprocessingを巻き戻す
		o.stats.AddConflict()
		o.stats.AddRetry()
		o.unwind(req.SeatID, snap.Version+1)
	}

	return seat.ErrMaxRetriesExceeded
}

// unwind は自分のprocessing遷移だけをCASで取り消す
// バージョンが進んでいれば他者がコミット済みであり、触らない
func (o *OptimisticStrategy) unwind(seatID string, processingVersion int64) {
	_, _ = o.store.CompareAndSwap(seatID, processingVersion, seat.StatusAvailable, "")
}
