package queue

import (
	"sync"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/booking"
)

// Queue は予約リクエストのFIFOキュー
// 複数プロデューサー・複数コンシューマーで共有され、
// 同一プロデューサーが投入した順序はデキューまで保存される
// Enqueueはブロックしない（容量はメモリのみが上限）
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*booking.Request
	closed bool
}

// New は空のキューを作成する
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue はリクエストを末尾に追加する
// クローズ後はfalseを返して破棄する
func (q *Queue) Enqueue(req *booking.Request) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, req)
	q.cond.Signal()
	return true
}

// Dequeue は先頭のリクエストを取り出す
// 空の間は呼び出したワーカーをブロックし、クローズされた場合は
// 永久に待たずに (nil, false) を返す
func (q *Queue) Dequeue() (*booking.Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 || q.closed {
		if q.closed {
			return nil, false
		}
		q.cond.Wait()
	}
	req := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return req, true
}

// Len は滞留中のリクエスト数を返す
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear は滞留中のリクエストを破棄し、破棄した件数を返す
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = nil
	return n
}

// Close は新規受付とデキューを停止する
// ブロック中の全ワーカーはシャットダウン通知を受け取る
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// Closed はキューがクローズ済みかを返す
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
