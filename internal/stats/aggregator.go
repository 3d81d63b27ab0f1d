package stats

import (
	"sync/atomic"

	"github.com/sanosuguru/go-seat-booking-engine/internal/pkg/metrics"
)

// Counters は統計カウンタのある時点の値を表す
type Counters struct {
	SuccessfulBookings int64 `json:"successful_bookings"`
	FailedBookings     int64 `json:"failed_bookings"`
	Conflicts          int64 `json:"conflicts"`
	Retries            int64 `json:"retries"`
}

// Total は終了した戦略実行の総数を返す
func (c Counters) Total() int64 {
	return c.SuccessfulBookings + c.FailedBookings
}

// SuccessRate は成功率（0-100）を返す
func (c Counters) SuccessRate() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.SuccessfulBookings) * 100 / float64(total)
}

// Aggregator はプロセス全体の統計カウンタを管理する
// 各カウンタは個別にアトミックで単調増加し、カウンタ間の順序は保証しない
type Aggregator struct {
	success   atomic.Int64
	failed    atomic.Int64
	conflicts atomic.Int64
	retries   atomic.Int64

	// m がnilでなければPrometheusにも反映する
	m *metrics.Metrics
}

// New は統計アグリゲーターを作成する。mはnilでもよい
func New(m *metrics.Metrics) *Aggregator {
	return &Aggregator{m: m}
}

// AddSuccess は成功数を+1する
func (a *Aggregator) AddSuccess() {
	a.success.Add(1)
}

// AddFailure は失敗数を+1する
func (a *Aggregator) AddFailure() {
	a.failed.Add(1)
}

// AddConflict は競合数を+1する
func (a *Aggregator) AddConflict() {
	a.conflicts.Add(1)
	if a.m != nil {
		a.m.BookingConflictsTotal.Inc()
	}
}

// AddRetry はリトライ数を+1する
func (a *Aggregator) AddRetry() {
	a.retries.Add(1)
	if a.m != nil {
		a.m.BookingRetriesTotal.Inc()
	}
}

// Snapshot はカウンタの値コピーを返す
func (a *Aggregator) Snapshot() Counters {
	return Counters{
		SuccessfulBookings: a.success.Load(),
		FailedBookings:     a.failed.Load(),
		Conflicts:          a.conflicts.Load(),
		Retries:            a.retries.Load(),
	}
}

// Reset は全カウンタをゼロに戻す
func (a *Aggregator) Reset() {
	a.success.Store(0)
	a.failed.Store(0)
	a.conflicts.Store(0)
	a.retries.Store(0)
}
