package booking

import "sync/atomic"

// Tracker は1バッチ分のリクエストの処理進捗を追跡する
type Tracker struct {
	total     int64
	processed atomic.Int64
}

// NewTracker は件数totalのバッチ用トラッカーを作成する
func NewTracker(total int) *Tracker {
	return &Tracker{total: int64(total)}
}

// Done は1件の完了を記録し、完了率（0-100）を返す
func (t *Tracker) Done() int {
	n := t.processed.Add(1)
	return t.percent(n)
}

// Percent は現在の完了率（0-100）を返す
func (t *Tracker) Percent() int {
	return t.percent(t.processed.Load())
}

// Completed はバッチ内の全リクエストが終了したかを返す
func (t *Tracker) Completed() bool {
	return t.processed.Load() >= t.total
}

func (t *Tracker) percent(n int64) int {
	if t.total <= 0 {
		return 100
	}
	if n > t.total {
		n = t.total
	}
	return int(n * 100 / t.total)
}
