package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-seat-booking-engine/internal/domain/seat"
)

type entry struct {
	mu   sync.Mutex
	seat seat.Seat

	// lockCh は容量1のチャネルによる座席単位の排他ロック
	lockCh chan struct{}
}

func newEntry(id string) *entry {
	return &entry{
		seat:   *seat.NewSeat(id),
		lockCh: make(chan struct{}, 1),
	}
}

// LockHandle は1座席の排他ロックの所有権を表す
// Releaseは冪等であり、deferによって全ての脱出経路で解放される
type LockHandle struct {
	e      *entry
	seatID string
	token  string
	once   sync.Once
}

// SeatID はロック対象の座席IDを返す
func (h *LockHandle) SeatID() string { return h.seatID }

// Token はロックの所有トークンを返す
func (h *LockHandle) Token() string { return h.token }

// Release はロックを解放する。複数回呼んでも安全
func (h *LockHandle) Release() {
	h.once.Do(func() {
		<-h.e.lockCh
	})
}

// TryAcquire は座席の排他ロックをtimeout以内で取得する
// 取得できなければErrLockTimeoutを返し、座席には一切の変更を加えない
func (s *Store) TryAcquire(ctx context.Context, seatID string, timeout time.Duration) (*LockHandle, error) {
	e, ok := s.seats[seatID]
	if !ok {
		return nil, seat.ErrSeatNotFound
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case e.lockCh <- struct{}{}:
		return &LockHandle{e: e, seatID: seatID, token: uuid.New().String()}, nil
	case <-timer.C:
		return nil, seat.ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
