package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-booking-engine/internal/application"
	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/booking"
	"github.com/sanosuguru/go-seat-booking-engine/internal/notification"
	"github.com/sanosuguru/go-seat-booking-engine/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-booking-engine/internal/pkg/metrics"
	"github.com/sanosuguru/go-seat-booking-engine/internal/queue"
	"github.com/sanosuguru/go-seat-booking-engine/internal/stats"
)

// ErrShutdownTimeout は猶予時間内に実行中の処理が完了しなかったことを表す
var ErrShutdownTimeout = errors.New("シャットダウンの猶予時間を超過しました")

// Dispatcher はキューを消費する固定サイズのワーカープール
// 各ワーカーはリクエストごとに現在のモードを1回読み取り、
// 対応する戦略を実行して統計とSinkへ結果を反映する
type Dispatcher struct {
	queue       *queue.Queue
	stats       *stats.Aggregator
	sink        notification.Sink
	settings    *application.Settings
	optimistic  application.Strategy
	pessimistic application.Strategy

	// m はnilでもよい
	m *metrics.Metrics

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewDispatcher はディスパッチャーを作成する
func NewDispatcher(
	q *queue.Queue,
	settings *application.Settings,
	optimistic, pessimistic application.Strategy,
	st *stats.Aggregator,
	sink notification.Sink,
	m *metrics.Metrics,
) *Dispatcher {
	if sink == nil {
		sink = notification.NopSink{}
	}
	return &Dispatcher{
		queue:       q,
		stats:       st,
		sink:        sink,
		settings:    settings,
		optimistic:  optimistic,
		pessimistic: pessimistic,
		m:           m,
	}
}

// Start はワーカープールを起動する
// ワーカー数は起動時点のWorkerPoolSize設定で固定される
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	n := d.settings.WorkerPoolSize()
	for i := 0; i < n; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
	logger.Info("ワーカープール開始", zap.Int("workers", n))
}

// Shutdown は新規受付を止め、実行中の処理の完了をgraceまで待つ
// 超過した場合はコンテキストを取り消して強制終了し、ErrShutdownTimeoutを返す
func (d *Dispatcher) Shutdown(grace time.Duration) error {
	d.queue.Close()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("ワーカープール停止")
		return nil
	case <-time.After(grace):
		logger.Warn("猶予時間超過、実行中の処理を中断します", zap.Duration("grace", grace))
		if d.cancel != nil {
			d.cancel()
		}
		<-done
		return ErrShutdownTimeout
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		req, ok := d.queue.Dequeue()
		if !ok {
			return
		}
		if d.m != nil {
			d.m.QueueDepth.Set(float64(d.queue.Len()))
		}
		d.process(ctx, req)
	}
}

// process は1件のリクエストを処理する
// 戦略の実行は必ず成功または1つの終了失敗のどちらかで終わり、
// panicもワーカー境界を越えない
func (d *Dispatcher) process(ctx context.Context, req *booking.Request) {
	mode := d.settings.Mode()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("予約処理でpanicを回復: %v", r)
				logger.Error("ワーカーでpanicを回復",
					zap.Any("panic", r),
					zap.String("seat_id", req.SeatID),
				)
			}
		}()
		err = d.strategyFor(mode).Book(ctx, req)
	}()

	outcome := booking.OutcomeFor(err)
	if err == nil {
		d.stats.AddSuccess()
		d.sink.OnLogEvent(fmt.Sprintf("予約成功: 座席=%s ユーザー=%s（モード=%s）", req.SeatID, req.UserID, mode))
	} else {
		d.stats.AddFailure()
		d.sink.OnLogEvent(fmt.Sprintf("予約失敗: 座席=%s ユーザー=%s 理由=%s リトライ=%d",
			req.SeatID, req.UserID, outcome, req.RetryCount))
	}
	if d.m != nil {
		d.m.BookingsTotal.WithLabelValues(string(outcome), string(mode)).Inc()
	}

	if req.Batch != nil {
		d.sink.OnProgress(req.Batch.Done())
	}
}

func (d *Dispatcher) strategyFor(mode application.Mode) application.Strategy {
	if mode == application.ModePessimistic {
		return d.pessimistic
	}
	return d.optimistic
}
